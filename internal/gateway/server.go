package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nextlevelbuilder/bountyclaw/internal/config"
)

// Server accepts UI surface connections on a local WebSocket endpoint.
type Server struct {
	cfg    *config.Config
	router *Router

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[string]*Client
}

// NewServer creates the gateway server.
func NewServer(cfg *config.Config, router *Router) *Server {
	s := &Server{
		cfg:     cfg,
		router:  router,
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The endpoint binds to loopback; editor webviews connect with
			// an arbitrary Origin, so the host check is skipped.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	return s
}

// UpdateConfig applies a hot-reloaded config. Only rate limits take effect
// for new connections; the listen address is fixed for the process lifetime.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Gateway.RateLimitRPM = cfg.Gateway.RateLimitRPM
	s.cfg.Gateway.RateLimitBurst = cfg.Gateway.RateLimitBurst
}

// rateLimits returns the current limiter settings. A hot reload may change
// them while connections are being accepted, so reads go through the lock.
func (s *Server) rateLimits() (rpm, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Gateway.RateLimitRPM, s.cfg.Gateway.RateLimitBurst
}

// ClientCount returns the number of connected UI surfaces.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) addClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

func (s *Server) removeClient(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
}

// closeClients sends a close frame to every connected surface. Shutdown of
// the HTTP server alone does not touch hijacked WebSocket connections.
func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}

// handleWS upgrades one connection and runs it until it closes. Each new
// surface immediately receives the view matching the current session state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := newClient(conn, s)
	s.addClient(client)
	slog.Info("ui surface connected", "client", client.id, "remote", r.RemoteAddr)

	s.router.RenderView(r.Context(), client)
	client.Run(r.Context())

	slog.Info("ui surface disconnected", "client", client.id)
}

// Run serves the gateway until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	addr := net.JoinHostPort(s.cfg.Gateway.Host, fmt.Sprint(s.cfg.Gateway.Port))
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gateway listening", "addr", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("gateway draining", "clients", s.ClientCount())
	s.closeClients()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}
