package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
)

// MemoryRepository keeps the ledger in insertion order. Listings are newest
// first by timestamp, ties by descending sequence.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []model.Transaction
	byID    map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]int{}}
}

func (r *MemoryRepository) Append(_ context.Context, t *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.Seq = int64(len(r.entries) + 1)
	r.byID[t.ID] = len(r.entries)
	r.entries = append(r.entries, *t)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	t := r.entries[i]
	return &t, nil
}

func (r *MemoryRepository) List(_ context.Context, f *dto.TransactionFilters) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Transaction{}
	for _, t := range r.entries {
		if matches(&t, f) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(t *model.Transaction, f *dto.TransactionFilters) bool {
	switch {
	case f.Type != "" && t.Type != f.Type:
		return false
	case f.StoreID != 0 && t.StoreID != f.StoreID:
		return false
	case f.ProductID != 0 && t.ProductID != f.ProductID:
		return false
	case f.ReferenceID != "" && t.Reference() != f.ReferenceID:
		return false
	case f.From != nil && t.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && t.CreatedAt.After(*f.To):
		return false
	}
	return true
}
