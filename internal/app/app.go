// internal/app/app.go
package app

import (
	"context"
	"strings"
	"time"

	"github.com/markdave123-py/tokenharvest/internal/config"
	"github.com/markdave123-py/tokenharvest/internal/core"
	db "github.com/markdave123-py/tokenharvest/internal/core/database"
	"github.com/markdave123-py/tokenharvest/internal/core/ingestion_engine"
	"github.com/markdave123-py/tokenharvest/internal/core/llm"
	objectclient "github.com/markdave123-py/tokenharvest/internal/core/object-client"
	"github.com/markdave123-py/tokenharvest/internal/logger"
	"github.com/markdave123-py/tokenharvest/internal/services"
)

type App struct {
	Config    *config.Config
	Log       logger.Logger
	DBClient  *db.DatabaseClient
	Objects   *objectclient.S3Client
	Extractor *services.ExtractService
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_JSON.
func NewLogger(cfg *config.Config) logger.Logger {
	lc := logger.DefaultConfig()
	lc.Level = logger.LogLevel(strings.ToLower(cfg.LogLevel))
	lc.JSON = cfg.LogJSON
	return logger.NewLogger(lc)
}

// NewApp wires the extraction stack. Object storage is enabled when AWS
// credentials are set and run history when DATABASE_URL is set. Both are
// optional: when either cannot be set up the app runs without it.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) *App {
	appCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	a := &App{Config: cfg, Log: log}

	var objects core.ObjectClient
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		s3c, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			log.Warn("object storage disabled", "err", err)
		} else {
			a.Objects, objects = s3c, s3c
			log.Debug("object client initialized and ready", "region", cfg.AwsRegion)
		}
	}

	var store core.RunStore
	if cfg.DatabaseURL != "" {
		dbClient, err := db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			log.Warn("run history disabled", "err", err)
		} else {
			a.DBClient, store = dbClient, dbClient
			log.Debug("database initialized and ready")
		}
	}

	fetcher := ingestion_engine.NewWebFetcher(time.Duration(cfg.FetchTimeoutSec) * time.Second)
	extractor := ingestion_engine.NewDocconvExtractor(cfg.UseReadability)
	resolver := ingestion_engine.NewSourceResolver(cfg.ChunkSize, fetcher, extractor, objects, log)

	ingCfg := &ingestion_engine.IngestConfig{Workers: cfg.AnnotateWorkers}
	runner := ingestion_engine.NewRunner(ingCfg, log)

	annotators := llm.Factory(cfg.AIAPIKey, cfg.GenModel, cfg.AccurateModel)
	a.Extractor = services.NewExtractService(annotators, resolver, runner, objects, store, log)

	return a
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
