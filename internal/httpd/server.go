// Package httpd is the thin server process behind the site: it stores
// and serves content snapshots (acting as the remote content store the
// client library reconciles against), accepts quote requests, creates
// payment-processing sessions, and serves the static frontend bundle.
package httpd

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stromabio/stroma/pkg/adapters/diskcache"
	"github.com/stromabio/stroma/pkg/payments"
)

// Config holds the configuration for the server.
type Config struct {
	// Addr to listen on, e.g. ":8080".
	Addr string
	// Token authorizes content writes and authenticated reads.
	Token string
	// DataDir is where snapshots and quote requests are persisted.
	DataDir string
	// StaticDir, when set, is served at the root path.
	StaticDir string
	// ContentTypes lists the collections this server stores,
	// e.g. ["blog", "products"].
	ContentTypes []string
	// Payments, when set, enables the checkout-session endpoint.
	Payments *payments.Client
	Logger   *slog.Logger
}

// Server holds the HTTP handlers and their storage.
type Server struct {
	cfg    Config
	stores map[string]*diskcache.Store
	quotes *QuoteLog
	logger *slog.Logger
}

// NewServer creates a server. One snapshot slot is opened per content type.
func NewServer(cfg Config) (*Server, error) {
	if len(cfg.ContentTypes) == 0 {
		return nil, fmt.Errorf("no content types configured")
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stores := make(map[string]*diskcache.Store, len(cfg.ContentTypes))
	for _, ct := range cfg.ContentTypes {
		stores[ct] = diskcache.New(diskcache.Config{
			Dir:         cfg.DataDir,
			ContentType: ct,
			Logger:      logger,
		})
	}

	return &Server{
		cfg:    cfg,
		stores: stores,
		quotes: NewQuoteLog(cfg.DataDir, logger),
		logger: logger,
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/content/{type}/public", s.handleFetch)
	mux.HandleFunc("GET /api/content/{type}", s.requireToken(s.handleFetch))
	mux.HandleFunc("PUT /api/content/{type}", s.requireToken(s.handlePush))
	mux.HandleFunc("POST /api/content/{type}/source", s.requireToken(s.handleSyncSource))

	mux.HandleFunc("POST /api/quotes", s.handleQuoteSubmit)
	mux.HandleFunc("GET /api/quotes", s.requireToken(s.handleQuoteList))

	if s.cfg.Payments != nil {
		mux.HandleFunc("POST /api/checkout/session", s.handleCheckout)
	}

	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return s.logRequests(mux)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// --- middleware ---

func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			writeError(w, http.StatusForbidden, "writes are disabled: no token configured")
			return
		}
		got := r.Header.Get("Authorization")
		want := "Bearer " + s.cfg.Token
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// --- helpers ---

func (s *Server) store(w http.ResponseWriter, r *http.Request) (*diskcache.Store, bool) {
	ct := r.PathValue("type")
	store, ok := s.stores[ct]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown content type %q", ct))
		return nil, false
	}
	return store, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
