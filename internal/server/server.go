// Package server exposes playback sessions over HTTP.
//
// A client creates a session from lyric text or timed lines and then polls
// frames. Each frame is the grid snapshot at some elapsed time plus the
// current unit. Players are rebuilt deterministically from the stored
// session, so a frame depends only on the session and the sequence of
// requested offsets, never on which process serves it.
//
//	GET    /healthz
//	POST   /api/v1/sessions
//	GET    /api/v1/sessions/{id}
//	GET    /api/v1/sessions/{id}/frame?at=<ms>
//	DELETE /api/v1/sessions/{id}
//	GET    /api/v1/lyrics?q=<query>
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/obscura/pkg/integrations/lrclib"
	"github.com/matzehuels/obscura/pkg/session"
)

// DefaultFrameStep is the tick spacing used when replaying a session.
const DefaultFrameStep = time.Second / 30

// Lookup resolves a free-text query into timed lyric lines.
type Lookup interface {
	Search(ctx context.Context, query string, refresh bool) (*lrclib.Result, error)
}

// Options configures a Server.
type Options struct {
	SessionTTL      time.Duration
	FrameStep       time.Duration
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
}

// Server serves the HTTP API.
type Server struct {
	store   session.Store
	lookup  Lookup
	logger  *log.Logger
	players *players
	opts    Options
	now     func() time.Time
}

// New creates a Server. lookup may be nil, in which case the lyrics
// endpoint answers 404.
func New(store session.Store, lookup Lookup, logger *log.Logger, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.FrameStep <= 0 {
		opts.FrameStep = DefaultFrameStep
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:   store,
		lookup:  lookup,
		logger:  logger,
		players: newPlayers(opts.FrameStep, opts.RefreshInterval),
		opts:    opts,
		now:     time.Now,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/frame", s.handleFrame)
			})
		})
		r.Get("/lyrics", s.handleLyrics)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	cleanup := time.NewTicker(time.Minute)
	defer cleanup.Stop()

	for {
		select {
		case err := <-errc:
			return err
		case <-cleanup.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
			s.players.prune(s.now())
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.logger.Info("shutting down")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return ctx.Err()
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
