package repo

import (
	"context"
	"sync"
)

// MemoryRepo keeps the token in process memory only.
type MemoryRepo struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Load(ctx context.Context) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token, r.set, nil
}

func (r *MemoryRepo) Save(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.set = token, true
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.set = "", false
	return nil
}
