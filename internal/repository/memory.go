package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"secure-file-share/internal/model"
)

// In-memory counterparts of the pgx repositories, used by tests and
// local development without Postgres. They honor the same contracts,
// including the atomic issued -> consumed transition.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User // keyed by id
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return model.User{}, model.ErrInvalidCredentials
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}
	return u, nil
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

type MemoryFileRepository struct {
	mu    sync.RWMutex
	files map[string]model.File
	order []string
}

func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{files: map[string]model.File{}}
}

func (r *MemoryFileRepository) Create(_ context.Context, f model.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[f.ID] = f
	r.order = append(r.order, f.ID)
	return nil
}

func (r *MemoryFileRepository) FindByID(_ context.Context, id string) (model.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return model.File{}, model.ErrFileNotFound
	}
	return f, nil
}

func (r *MemoryFileRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.files[id]
	return ok, nil
}

func (r *MemoryFileRepository) ListAll(_ context.Context) ([]model.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	files := make([]model.File, 0, len(r.order))
	// Newest first, matching the SQL ordering.
	for i := len(r.order) - 1; i >= 0; i-- {
		files = append(files, r.files[r.order[i]])
	}
	return files, nil
}

func (r *MemoryFileRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files), nil
}

type MemoryDownloadTokenRepository struct {
	mu     sync.Mutex
	grants map[string]model.DownloadGrant
}

func NewMemoryDownloadTokenRepository() *MemoryDownloadTokenRepository {
	return &MemoryDownloadTokenRepository{grants: map[string]model.DownloadGrant{}}
}

func (r *MemoryDownloadTokenRepository) Create(_ context.Context, g model.DownloadGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[g.ID] = g
	return nil
}

func (r *MemoryDownloadTokenRepository) FindByID(_ context.Context, id string) (model.DownloadGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grants[id]
	if !ok {
		return model.DownloadGrant{}, model.ErrDownloadTokenInvalid
	}
	return g, nil
}

// Consume performs the issued -> consumed test-and-set under the
// repository mutex, mirroring the conditional UPDATE in Postgres.
func (r *MemoryDownloadTokenRepository) Consume(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grants[id]
	if !ok {
		return model.ErrDownloadTokenInvalid
	}
	if g.State != model.GrantStateIssued {
		return model.ErrDownloadTokenUsed
	}

	g.State = model.GrantStateConsumed
	g.ConsumedAt = &now
	r.grants[id] = g
	return nil
}

func (r *MemoryDownloadTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, g := range r.grants {
		if !g.ExpiresAt.After(now) {
			delete(r.grants, id)
			removed++
		}
	}
	return removed, nil
}
