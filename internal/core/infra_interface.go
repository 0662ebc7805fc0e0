package core

import (
	"context"
	"io"

	"github.com/markdave123-py/tokenharvest/internal/models"
)

// RunStore persists finished runs and their tokens.
// It abstracts Postgres so higher layers never depend on a specific DB.
type RunStore interface {
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
