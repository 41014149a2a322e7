// Package web serves the viewer pages over HTTP so viewer URLs opened in
// a browser render the handed-off record.
package web

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tableflip.dev/jview/pkg/logging"
	"tableflip.dev/jview/pkg/store"
)

// Config holds server configuration.
type Config struct {
	Addr   string
	Bridge store.Bridge
	Log    *logging.Logger
	// OnListening is called with the bound address once the listener is up.
	OnListening func(net.Addr)
}

// Server is the HTTP viewer.
type Server struct {
	cfg    Config
	log    *logging.Logger
	router chi.Router
	pages  *template.Template
}

// New creates a server with all routes registered.
func New(cfg Config) *Server {
	s := &Server{
		cfg:   cfg,
		log:   cfg.Log.Named("web"),
		pages: template.Must(template.New("pages").Funcs(templateFuncs).Parse(pageTemplates)),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/", s.handleIndex)
	r.Route("/{page}", func(r chi.Router) {
		r.Get("/", s.handleViewer)
		r.Get("/pretty", s.handleSerialized(false))
		r.Get("/minified", s.handleSerialized(true))
	})
	return r
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = store.DefaultViewerAddr
	}
	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if s.cfg.OnListening != nil {
		s.cfg.OnListening(ln.Addr())
	}
	s.log.Info("viewer listening", zap.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	err = httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
