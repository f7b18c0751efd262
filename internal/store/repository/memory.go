package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	stores map[int64]model.Store
}

func NewMemoryRepository(seed ...model.Store) *MemoryRepository {
	r := &MemoryRepository{stores: make(map[int64]model.Store, len(seed))}
	for _, s := range seed {
		r.stores[s.ID] = s
	}
	return r
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]model.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
