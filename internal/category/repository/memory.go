package repository

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

// MemoryRepository derives categories from a product repository.
type MemoryRepository struct {
	products product.Repository
}

func NewMemoryRepository(products product.Repository) *MemoryRepository {
	return &MemoryRepository{products: products}
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	products, err := r.products.FindAll(ctx, &dto.ProductFilters{})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		counts[p.Category]++
	}

	categories := make([]model.Category, 0, len(counts))
	for name, n := range counts {
		categories = append(categories, model.Category{Name: name, ProductCount: n})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}
