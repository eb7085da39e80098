package meilitest

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/contextutil"
	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/loggingutil"
	"meilikit/src/pkg/meili"
)

// DefaultVersion is reported by GET /version unless Options.Version is set.
var DefaultVersion = meili.Version{
	CommitSha:  "0000000000000000000000000000000000000000",
	BuildDate:  "2020-05-01T00:00:00Z",
	PkgVersion: "0.10.1",
}

// Options configures a stand-in server.
type Options struct {
	// Addr is the listen address used by Start.
	Addr string
	// MasterKey enables key checks. Without it every route is open.
	MasterKey string
	// PrivateKey and PublicKey override the keys derived from MasterKey.
	PrivateKey string
	PublicKey  string
	Version    meili.Version
	Logger     loggingutil.Logger
}

// Server is an in-memory stand-in for the search server REST surface,
// used by the CLI during development and by tests.
type Server struct {
	addr      string
	masterKey string
	keys      meili.Keys
	version   meili.Version
	logger    loggingutil.Logger
	store     *Store
	router    chi.Router
	server    *http.Server

	bytesIn  atomic.Uint64
	bytesOut atomic.Uint64
}

// New creates a stand-in server with an empty store.
func New(opts Options) *Server {
	keys := DeriveKeys(opts.MasterKey)
	if opts.PrivateKey != "" {
		keys.Private = opts.PrivateKey
	}
	if opts.PublicKey != "" {
		keys.Public = opts.PublicKey
	}

	version := opts.Version
	if version == (meili.Version{}) {
		version = DefaultVersion
	}

	logger := opts.Logger
	if logger == nil {
		logger = loggingutil.Nop()
	}

	addr := opts.Addr
	if addr == "" {
		addr = consts.DefaultMockAddr
	}

	s := &Server{
		addr:      addr,
		masterKey: opts.MasterKey,
		keys:      keys,
		version:   version,
		logger:    logger,
		store:     NewStore(),
	}
	s.router = s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for use with httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MasterKey returns the configured master key.
func (s *Server) MasterKey() string {
	return s.masterKey
}

// Keys returns the private and public keys accepted by the server.
func (s *Server) Keys() meili.Keys {
	return s.keys
}

// Store exposes the underlying index registry.
func (s *Server) Store() *Store {
	return s.store
}

// Start serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	logger := loggingutil.Get(ctx)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting stand-in server", "addr", s.addr, "auth", s.masterKey != "")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Stand-in server shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		logger.Error("Stand-in server error", "error", err)
		return err
	}
}

// Stop shuts the server down if it was started.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)
	r.Use(s.countBytes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, newAPIError(http.StatusNotFound, meili.CodeRouteNotFound, "Resource not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, newAPIError(http.StatusMethodNotAllowed, meili.CodeMethodNotAllowed, "Method not allowed"))
	})

	r.Get(consts.RouteHealth, s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireKey(levelPrivate))
		r.Route(consts.RouteIndexes, func(r chi.Router) {
			r.Get("/", s.handleListIndexes)
			r.Post("/", s.handleCreateIndex)
			r.Route("/{uid}", func(r chi.Router) {
				r.Get("/", s.handleShowIndex)
				r.Put("/", s.handleUpdateIndex)
				r.Delete("/", s.handleDeleteIndex)
				r.Get(consts.RouteIndexStats, s.handleIndexStats)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireKey(levelMaster))
		r.Get(consts.RouteVersion, s.handleVersion)
		r.Get(consts.RouteStats, s.handleStats)
		r.Get(consts.RouteSysInfo, s.handleSysInfo)
		r.Get(consts.RouteSysInfoPretty, s.handlePrettySysInfo)
		r.Get(consts.RouteKeys, s.handleKeys)
	})

	return r
}

// requestContext attaches the server logger and the caller's trace parent
// to the request context.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := s.logger.With("method", r.Method, "path", r.URL.Path)
		if tp := r.Header.Get(consts.HeaderTraceParent); tp != "" {
			ctx = contextutil.WithTraceParent(ctx, tp)
			logger = logger.With("trace_id", httputil.TraceID(tp))
		}
		ctx = loggingutil.Set(ctx, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// countBytes feeds the inputData and outputData figures of sys-info.
func (s *Server) countBytes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			s.bytesIn.Add(uint64(r.ContentLength))
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.bytesOut.Add(uint64(ww.BytesWritten()))

		loggingutil.Get(r.Context()).Debug("Request served",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
