package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nextlevelbuilder/bountyclaw/internal/browser"
	"github.com/nextlevelbuilder/bountyclaw/internal/config"
	"github.com/nextlevelbuilder/bountyclaw/internal/gateway"
)

// runHost starts the long-lived gateway process: config, service graph,
// WebSocket endpoint, config hot reload, signal-aware shutdown.
func runHost() {
	cfg := loadConfig()
	sessions, engine, bounties := buildServices(cfg)

	router := gateway.NewRouter(cfg, sessions, engine, bounties, browser.OpenURL)
	server := gateway.NewServer(cfg, router)

	if watcher, err := config.NewWatcher(resolveConfigPath()); err == nil {
		watcher.OnChange(server.UpdateConfig)
		if err := watcher.Start(); err != nil {
			// The config directory may not exist yet; the host runs fine on
			// defaults without hot reload.
			slog.Debug("config watch unavailable", "error", err)
			watcher.Stop()
		} else {
			defer watcher.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Gateway error: %v\n", err)
		os.Exit(1)
	}
	slog.Info("gateway stopped")
}
