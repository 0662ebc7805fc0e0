package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/tokenharvest/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/tokenharvest/internal/api/middlewares"
	"github.com/markdave123-py/tokenharvest/internal/config"
	"github.com/markdave123-py/tokenharvest/internal/logger"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// Service is what the HTTP API needs from the extraction stack.
type Service interface {
	handlers.Extractor
	handlers.RunReader
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, svc Service, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, svc, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewRouter returns the API routes.
func NewRouter(cfg *config.Config, svc Service, log logger.Logger) http.Handler {
	extractHandler := handlers.NewExtractHandler(svc, log)
	runHandler := handlers.NewRunHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", handlers.Health)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT([]byte(cfg.JWTSecret)))
			protected.Post("/extract", extractHandler.Extract)
			protected.Get("/runs/{id}", runHandler.GetRun)
		})
	})

	return r
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
