// Package api provides the Partita REST API server.
package api

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tactus/partita/core/catalog"
	"github.com/tactus/partita/internal/logging"
	"github.com/tactus/partita/internal/server"
)

// Server is the Partita API server: score catalog endpoints, import and
// conversion, and a WebSocket channel for progress and reload events.
type Server struct {
	cfg       Config
	catalog   *catalog.Catalog
	hub       *Hub
	watcher   *Watcher
	startTime time.Time
}

// New creates a server, opening the catalog database from the
// configuration.
func New(cfg Config) (*Server, error) {
	if err := ValidateAuthConfig(cfg.Auth); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
			return nil, fmt.Errorf("TLS enabled but cert or key file not specified")
		}
		if _, err := os.Stat(cfg.TLS.CertFile); err != nil {
			return nil, fmt.Errorf("TLS cert file not found: %w", err)
		}
		if _, err := os.Stat(cfg.TLS.KeyFile); err != nil {
			return nil, fmt.Errorf("TLS key file not found: %w", err)
		}
	}

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		catalog:   cat,
		hub:       NewHub(),
		startTime: time.Now(),
	}
	if cfg.WatchPath != "" {
		s.watcher = NewWatcher(cfg.WatchPath, s.hub)
	}
	return s, nil
}

// Close releases the server's resources.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return s.catalog.Close()
}

// Handler builds the full middleware and routing stack.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/scores", s.handleListScores).Methods(http.MethodGet)
	r.HandleFunc("/scores", s.handleImportScore).Methods(http.MethodPost)
	r.HandleFunc("/scores/{id}", s.handleGetScore).Methods(http.MethodGet)
	r.HandleFunc("/scores/{id}", s.handleDeleteScore).Methods(http.MethodDelete)
	r.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWebSocket)

	var handler http.Handler = server.SecurityHeadersMiddleware(r)
	handler = AuthMiddleware(s.cfg.Auth, handler)

	if s.cfg.RateLimitRequests > 0 {
		burst := s.cfg.RateLimitBurst
		if burst == 0 {
			burst = 10
		}
		limiter := NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: s.cfg.RateLimitRequests,
			BurstSize:         burst,
		})
		handler = limiter.Middleware(handler)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
	})
	handler = c.Handler(handler)

	return logging.CombinedMiddleware(handler)
}

// Start runs the hub, the watcher and the HTTP listener. It blocks until
// the listener fails.
func (s *Server) Start() error {
	go s.hub.Run()
	if s.watcher != nil {
		go s.watcher.Run()
	}

	protocol := "http"
	if s.cfg.TLS.Enabled {
		protocol = "https"
		logging.Info("TLS enabled", "cert_file", s.cfg.TLS.CertFile)
	}
	logging.ServerStartup("rest_api", protocol, s.cfg.Port,
		"catalog", server.AbsPath(s.cfg.CatalogPath))

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	if s.cfg.TLS.Enabled {
		return http.ListenAndServeTLS(addr, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile, s.Handler())
	}
	return http.ListenAndServe(addr, s.Handler())
}
