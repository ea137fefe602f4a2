package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"secure-file-share/internal/model"
)

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

func (r *FileRepository) Create(ctx context.Context, f model.File) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO files (id, owner_id, name, content_type, size_bytes, storage_ref, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.ID, f.OwnerID, f.Name, f.ContentType, f.Size, f.StorageRef, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (model.File, error) {
	var f model.File
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, content_type, size_bytes, storage_ref, created_at
		 FROM files WHERE id = $1`, id).
		Scan(&f.ID, &f.OwnerID, &f.Name, &f.ContentType, &f.Size, &f.StorageRef, &f.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.File{}, model.ErrFileNotFound
	}
	if err != nil {
		return model.File{}, fmt.Errorf("find file by id: %w", err)
	}
	return f, nil
}

func (r *FileRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM files WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check file exists: %w", err)
	}
	return exists, nil
}

func (r *FileRepository) ListAll(ctx context.Context) ([]model.File, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, content_type, size_bytes, storage_ref, created_at
		 FROM files ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := make([]model.File, 0)
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.ContentType, &f.Size, &f.StorageRef, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *FileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}
