package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markdave123-py/tokenharvest/internal/app"
	"github.com/markdave123-py/tokenharvest/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := app.NewLogger(cfg)
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET must be set to serve the API")
		os.Exit(1)
	}

	application := app.NewApp(ctx, cfg, log)
	defer application.Close()

	server := app.NewServer(cfg, application.Extractor, log)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "err", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}
}
