package service

import (
	"context"
	"io"
	"os"
	"time"

	"secure-file-share/internal/model"
)

// Narrow store contracts consumed by the services. The pgx
// repositories satisfy them in production; the in-memory
// repositories satisfy them in tests.

type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type FileStore interface {
	Create(ctx context.Context, f model.File) error
	FindByID(ctx context.Context, id string) (model.File, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) ([]model.File, error)
	Count(ctx context.Context) (int, error)
}

type GrantStore interface {
	Create(ctx context.Context, g model.DownloadGrant) error
	// Consume performs the atomic issued -> consumed transition.
	// Exactly one caller succeeds per grant; losers get
	// ErrDownloadTokenUsed, unknown ids get ErrDownloadTokenInvalid.
	Consume(ctx context.Context, id string, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type BlobStore interface {
	Save(id string, reader io.Reader) (string, int64, error)
	Open(ref string) (*os.File, os.FileInfo, error)
}
