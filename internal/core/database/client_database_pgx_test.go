package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/tokenharvest/internal/models"
)

func sampleRun() *models.Run {
	return &models.Run{
		ID:         "5f0c3a5e-7d4f-4e2a-9a55-0d6b1b3c2a11",
		SourceKind: "file",
		Source:     "in.txt",
		Tag:        "PROPN",
		Language:   "en",
		Tier:       "standard",
		TokenCount: 3,
		Tokens:     []string{"Apple", "Dave", "Wall"},
		CreatedAt:  time.Date(2021, 3, 28, 10, 0, 0, 0, time.UTC),
	}
}

func TestDatabaseClient_SaveRun(t *testing.T) {
	t.Run("Should insert the run and copy every token in one transaction", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		run := sampleRun()

		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO runs").
			WithArgs(run.ID, "file", "in.txt", "PROPN", "en", "standard", 3, run.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"run_tokens"}, []string{"run_id", "position", "token"}).
			WillReturnResult(3)
		mockPool.ExpectCommit()

		err = NewDatabaseClientWithPool(mockPool).SaveRun(t.Context(), run)

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should skip the token copy for a run without tokens", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		run := sampleRun()
		run.Tokens, run.TokenCount = nil, 0

		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO runs").
			WithArgs(run.ID, "file", "in.txt", "PROPN", "en", "standard", 0, run.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		assert.NoError(t, NewDatabaseClientWithPool(mockPool).SaveRun(t.Context(), run))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should roll back when fewer tokens are copied than given", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		run := sampleRun()

		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO runs").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"run_tokens"}, []string{"run_id", "position", "token"}).
			WillReturnResult(2)
		mockPool.ExpectRollback()

		err = NewDatabaseClientWithPool(mockPool).SaveRun(t.Context(), run)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "wrote 2 of 3 rows")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should roll back when the token copy fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		run := sampleRun()

		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO runs").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"run_tokens"}, []string{"run_id", "position", "token"}).
			WillReturnError(errors.New("disk full"))
		mockPool.ExpectRollback()

		err = NewDatabaseClientWithPool(mockPool).SaveRun(t.Context(), run)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "copy tokens")
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should reject a nil run", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		assert.Error(t, NewDatabaseClientWithPool(mockPool).SaveRun(t.Context(), nil))
	})
}

func TestDatabaseClient_GetRun(t *testing.T) {
	cols := []string{"id", "source_kind", "source", "tag", "language", "tier", "token_count", "created_at"}

	t.Run("Should load the run with its tokens in stored order", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		want := sampleRun()

		mockPool.ExpectQuery("SELECT (.+) FROM runs WHERE id = \\$1").
			WithArgs(want.ID).
			WillReturnRows(mockPool.NewRows(cols).
				AddRow(want.ID, want.SourceKind, want.Source, want.Tag, want.Language, want.Tier, want.TokenCount, want.CreatedAt))
		mockPool.ExpectQuery("SELECT token FROM run_tokens").
			WithArgs(want.ID).
			WillReturnRows(mockPool.NewRows([]string{"token"}).AddRow("Apple").AddRow("Dave").AddRow("Wall"))

		got, err := NewDatabaseClientWithPool(mockPool).GetRun(t.Context(), want.ID)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should report an unknown id as not found", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery("SELECT (.+) FROM runs WHERE id = \\$1").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err = NewDatabaseClientWithPool(mockPool).GetRun(t.Context(), "missing")

		assert.ErrorIs(t, err, ErrRunNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestEnsureBootstrapped(t *testing.T) {
	t.Run("Should run the bootstrap script on an empty database", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery("SELECT EXISTS").
			WillReturnRows(mockPool.NewRows([]string{"exists"}).AddRow(false))
		mockPool.ExpectBegin()
		mockPool.ExpectExec("CREATE TABLE IF NOT EXISTS tokenharvest_meta").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mockPool.ExpectCommit()

		assert.NoError(t, EnsureBootstrapped(t.Context(), mockPool))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should skip the script once version 1 is recorded", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery("SELECT EXISTS").
			WillReturnRows(mockPool.NewRows([]string{"exists"}).AddRow(true))
		mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM tokenharvest_meta").
			WillReturnRows(mockPool.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, EnsureBootstrapped(t.Context(), mockPool))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
