package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]model.Product
}

func NewMemoryRepository(seed ...model.Product) *MemoryRepository {
	r := &MemoryRepository{products: make(map[int64]model.Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryRepository) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.Product{}
	for _, p := range r.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.SKU != "" && p.SKU != f.SKU {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
