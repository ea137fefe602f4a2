package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"secure-file-share/internal/model"
)

type DownloadTokenRepository struct {
	pool *pgxpool.Pool
}

func NewDownloadTokenRepository(pool *pgxpool.Pool) *DownloadTokenRepository {
	return &DownloadTokenRepository{pool: pool}
}

func (r *DownloadTokenRepository) Create(ctx context.Context, g model.DownloadGrant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO download_tokens (id, file_id, issued_to, issued_at, expires_at, state)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.FileID, g.IssuedTo, g.IssuedAt, g.ExpiresAt, g.State)
	if err != nil {
		return fmt.Errorf("create download token: %w", err)
	}
	return nil
}

func (r *DownloadTokenRepository) FindByID(ctx context.Context, id string) (model.DownloadGrant, error) {
	var g model.DownloadGrant
	err := r.pool.QueryRow(ctx,
		`SELECT id, file_id, issued_to, issued_at, expires_at, state, consumed_at
		 FROM download_tokens WHERE id = $1`, id).
		Scan(&g.ID, &g.FileID, &g.IssuedTo, &g.IssuedAt, &g.ExpiresAt, &g.State, &g.ConsumedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.DownloadGrant{}, model.ErrDownloadTokenInvalid
	}
	if err != nil {
		return model.DownloadGrant{}, fmt.Errorf("find download token: %w", err)
	}
	return g, nil
}

// Consume flips the grant from issued to consumed. The conditional
// UPDATE is the single atomic test-and-set guarding the whole
// exchange: racing callers hit the same row and exactly one sees
// RowsAffected == 1.
func (r *DownloadTokenRepository) Consume(ctx context.Context, id string, now time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE download_tokens
		 SET state = $3, consumed_at = $2
		 WHERE id = $1 AND state = $4`,
		id, now, model.GrantStateConsumed, model.GrantStateIssued)
	if err != nil {
		return fmt.Errorf("consume download token: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM download_tokens WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check download token exists: %w", err)
	}
	if exists {
		return model.ErrDownloadTokenUsed
	}
	return model.ErrDownloadTokenInvalid
}

func (r *DownloadTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM download_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired download tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
