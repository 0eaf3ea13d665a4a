// Package cmd wires the bountyclaw CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bountyclaw/internal/api"
	"github.com/nextlevelbuilder/bountyclaw/internal/auth"
	"github.com/nextlevelbuilder/bountyclaw/internal/bounty"
	"github.com/nextlevelbuilder/bountyclaw/internal/browser"
	"github.com/nextlevelbuilder/bountyclaw/internal/config"
	"github.com/nextlevelbuilder/bountyclaw/internal/session"
)

var configPath string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bountyclaw",
		Short: "Editor companion host for bounty.new",
		Long: "bountyclaw runs a local host process that authenticates against\n" +
			"bounty.new via the OAuth device flow and serves bounty listings to\n" +
			"editor UI surfaces over a WebSocket message protocol.",
		Run: func(cmd *cobra.Command, args []string) {
			runHost()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bountyclaw/config.yaml)")

	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(bountiesCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func loadConfig() *config.Config {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log.Level)
	return cfg
}

func setupLogging(level string) {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})))
}

// buildSessionStore selects the secret-storage backend from config.
func buildSessionStore(cfg *config.Config) session.Store {
	if cfg.Session.Backend == "file" {
		return session.NewFileStore(cfg.Session.FilePath)
	}
	return session.NewKeyringStore()
}

// buildServices constructs the shared service graph used by every command.
func buildServices(cfg *config.Config) (*session.Manager, *auth.Engine, *bounty.Service) {
	sessions := session.NewManager(buildSessionStore(cfg))
	engine := auth.NewEngine(auth.Config{
		AuthBaseURL:   cfg.API.AuthURL,
		DeviceAuthURL: cfg.API.DeviceURL,
		ClientID:      cfg.API.ClientID,
		Scope:         cfg.API.Scope,
	}, sessions, browser.OpenURL)
	client := api.NewClient(cfg.API.TRPCURL, sessions.AuthHeader)
	return sessions, engine, bounty.NewService(client)
}
