// Package server exposes the bridge over HTTP for browser and script
// clients: one POST endpoint per operation, plain GET endpoints for polling
// and a WebSocket that pushes progress snapshots.
package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ytget/yt-desktop/internal/bridge"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/progress"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	Port           int
	AllowedOrigins []string // CORS origins; empty allows loopback origins only
	Version        string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr: "127.0.0.1",
		Port: 8765,
	}
}

// Server is the HTTP front of a bridge.
type Server struct {
	config     Config
	bridge     *bridge.Bridge
	store      *progress.Store
	httpServer *http.Server
	wsHub      *WSHub

	stopHub context.CancelFunc
}

// New creates a server and starts its WebSocket hub. Every progress update
// in store is pushed to connected clients.
func New(cfg Config, b *bridge.Bridge, store *progress.Store) *Server {
	hubCtx, stop := context.WithCancel(context.Background())
	s := &Server{
		config:  cfg,
		bridge:  b,
		store:   store,
		wsHub:   NewWSHub(),
		stopHub: stop,
	}
	go s.wsHub.Run(hubCtx)

	store.Subscribe(func(ps model.ProgressState) {
		s.wsHub.Broadcast(MsgProgress, ps)
	})
	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerAPIRoutes(mux)
	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// ListenAndServe starts the HTTP server and blocks until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	defer s.Close()

	addr := net.JoinHostPort(s.config.Addr, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// fetch_info blocks until the extractor answers
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("[server] listening on http://%s", addr)
	log.Printf("[server] API:       http://%s/api", addr)
	log.Printf("[server] WebSocket: ws://%s/ws", addr)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the WebSocket hub
func (s *Server) Close() {
	s.stopHub()
}

// registerAPIRoutes sets up all API endpoints.
func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Polling shortcuts
	mux.HandleFunc("GET /api/progress", s.handleProgress)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/info", s.handleAppInfo)

	// Bridge operations
	mux.HandleFunc("POST /api/{op}", s.handleOperation)

	// WebSocket
	mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Middleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path == "/api/progress" {
			return
		}
		log.Printf("[server] %s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// originAllowed checks origin against the allow-list. Without a list only
// pages served from localhost may call the API.
func (s *Server) originAllowed(origin string) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return isLoopbackOrigin(origin)
	}
	for _, o := range s.config.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
