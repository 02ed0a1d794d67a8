package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
)

// MemoryRepository keeps schemas in process memory. It is the fake used by
// tests and the `memory` CLI backend.
type MemoryRepository struct {
	mu      sync.RWMutex
	schemas []model.FormSchema
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns a repository preloaded with copies of seed.
func NewMemoryRepository(seed ...model.FormSchema) *MemoryRepository {
	repo := &MemoryRepository{}
	for _, schema := range seed {
		repo.schemas = append(repo.schemas, schema.Clone())
	}
	return repo
}

func (r *MemoryRepository) Load(ctx context.Context) ([]model.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FormSchema, len(r.schemas))
	for i, schema := range r.schemas {
		out[i] = schema.Clone()
	}
	return out, nil
}

func (r *MemoryRepository) Append(ctx context.Context, schema model.FormSchema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas = append(r.schemas, schema.Clone())
	return nil
}
