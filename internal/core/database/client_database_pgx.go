package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/markdave123-py/tokenharvest/internal/config"
	"github.com/markdave123-py/tokenharvest/internal/core"
	"github.com/markdave123-py/tokenharvest/internal/models"
)

var _ core.RunStore = (*DatabaseClient)(nil)

type DatabaseClient struct {
	pool Pool
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{pool: pool}, nil
}

// NewDatabaseClientWithPool wraps an already connected pool.
func NewDatabaseClientWithPool(pool Pool) *DatabaseClient {
	return &DatabaseClient{pool: pool}
}

func (c *DatabaseClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

var tokenColumns = []string{"run_id", "position", "token"}

// SaveRun inserts the run and copies its tokens in a single transaction.
func (c *DatabaseClient) SaveRun(ctx context.Context, run *models.Run) error {
	if run == nil {
		return errors.New("nil run")
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	const qRun = `
		INSERT INTO runs (id, source_kind, source, tag, language, tier, token_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.Exec(ctx, qRun,
		run.ID, run.SourceKind, run.Source, run.Tag, run.Language, run.Tier, run.TokenCount, run.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Tokens) > 0 {
		rows := pgx.CopyFromSlice(len(run.Tokens), func(i int) ([]any, error) {
			return []any{run.ID, i, run.Tokens[i]}, nil
		})
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"run_tokens"}, tokenColumns, rows)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("copy tokens: %w", err)
		}
		if n != int64(len(run.Tokens)) {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("copy tokens: wrote %d of %d rows", n, len(run.Tokens))
		}
	}
	return tx.Commit(ctx)
}

// GetRun loads a run with its tokens in stored order.
func (c *DatabaseClient) GetRun(ctx context.Context, id string) (*models.Run, error) {
	const q = `
		SELECT id, source_kind, source, tag, language, tier, token_count, created_at
		FROM runs WHERE id = $1
	`
	var r models.Run
	err := c.pool.QueryRow(ctx, q, id).Scan(
		&r.ID, &r.SourceKind, &r.Source, &r.Tag, &r.Language, &r.Tier, &r.TokenCount, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx, `SELECT token FROM run_tokens WHERE run_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r.Tokens = []string{}
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		r.Tokens = append(r.Tokens, tok)
	}
	return &r, rows.Err()
}
