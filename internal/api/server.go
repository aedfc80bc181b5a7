// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the lectio HTTP server.

Every domain package contributes its routes through [RouteRegistrar]; NewServer
mounts them under /api/v1 behind the shared middleware chain, next to the
/health and /ready probes.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/lectio/internal/platform/apperr"
	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/internal/platform/middleware"
	"github.com/taibuivan/lectio/internal/platform/respond"
)

// Server is the configured [http.Server] and its router.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// RouteRegistrar mounts a domain's routes on the /api/v1 router.
type RouteRegistrar interface {
	RegisterRoutes(api chi.Router)
}

// Handlers lists what NewServer mounts. A nil registrar is skipped.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Structure RouteRegistrar // books, chapters, references
	Content   RouteRegistrar // translations and verses through the cache
	Cache     RouteRegistrar // stats, operator purge
	Reader    RouteRegistrar // sessions, selection, annotations, settings
	Devotion  RouteRegistrar // verse of the day, reading plan
	Share     RouteRegistrar
}

func (h Handlers) registrars() []RouteRegistrar {
	return []RouteRegistrar{h.Structure, h.Content, h.Cache, h.Reader, h.Devotion, h.Share}
}

// NewServer builds the router. ctx bounds background work of the middleware,
// such as the rate limiter sweep.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(ctx),
		middleware.PanicRecovery(log),
		middleware.Authenticate(verifier),
		middleware.CORS(cfg),
		chimw.CleanPath,
	)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, &apperr.AppError{
			Code:       "METHOD_NOT_ALLOWED",
			Message:    request.Method + " is not supported on this route",
			HTTPStatus: http.StatusMethodNotAllowed,
		})
	})

	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)

	router.Route("/api/v1", func(api chi.Router) {
		for _, registrar := range h.registrars() {
			if registrar != nil {
				registrar.RegisterRoutes(api)
			}
		}
	})

	return &Server{
		log: log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the server stops. After Shutdown it returns
// [http.ErrServerClosed].
func (s *Server) ListenAndServe() error {
	s.log.Info("server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
