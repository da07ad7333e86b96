package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ninja0404/old-runners/internal/config"
	"github.com/ninja0404/old-runners/internal/metrics"
	"github.com/ninja0404/old-runners/pkg/logger"
)

const RouteOldRunners = "/api/old-runners"

type Server struct {
	router     *mux.Router
	server     *http.Server
	handler    *Handler
	metrics    *metrics.Registry
	corsOrigin string
}

func NewServer(cfg config.ServerConfig, handler *Handler, reg *metrics.Registry) *Server {
	s := &Server{
		router:     mux.NewRouter().StrictSlash(true),
		handler:    handler,
		metrics:    reg,
		corsOrigin: cfg.CORSOrigin,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.corsMiddleware)

	s.router.HandleFunc(RouteOldRunners, s.handler.OldRunners).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/healthz", s.handler.Health).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
}

// ServeHTTP lets the server be mounted or tested without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves until Shutdown. It returns nil after a graceful stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.server.Addr)
	}
	logger.Info("http server listening", logger.FieldMod("api"), logger.String("addr", ln.Addr().String()))

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down http server", logger.FieldMod("api"))
	return s.server.Shutdown(ctx)
}
