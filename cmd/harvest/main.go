package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/markdave123-py/tokenharvest/internal/app"
	"github.com/markdave123-py/tokenharvest/internal/cli"
	"github.com/markdave123-py/tokenharvest/internal/config"
	"github.com/markdave123-py/tokenharvest/internal/core"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitBadUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.LoadConfig()
	log := app.NewLogger(cfg)
	program := filepath.Base(os.Args[0])

	res, err := cli.Parse(args)
	for _, w := range res.Warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Error("invalid arguments", "err", err)
		cli.Usage(os.Stderr, program)
		return exitBadUsage
	}
	if res.State == cli.StateHelp {
		cli.Usage(os.Stdout, program)
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewApp(ctx, cfg, log)
	defer application.Close()

	if _, err := application.Extractor.Extract(ctx, res.Config, os.Stdout); err != nil {
		var mu *core.ModelUnavailableError
		if errors.As(err, &mu) {
			log.Error("model unavailable", "model", mu.Model, "hint", mu.Remediation, "err", mu.Err)
			return exitFailure
		}
		// Source and sink failures are reported but leave the exit status alone.
		log.Error("extraction failed", "err", err)
	}
	return exitOK
}
