package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/category/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	productrepo "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories(t *testing.T) {
	products := productrepo.NewMemoryRepository(
		model.Product{ID: 1, Category: "Coffee"},
		model.Product{ID: 2, Category: "Tea"},
		model.Product{ID: 3, Category: "Coffee"},
		model.Product{ID: 4},
	)
	layer := cache.NewLayer(cache.NewMemoryStore(), &cache.LayerConfig{TTLs: cache.DefaultTTLs(), PopulateWorkers: 2}, logger.NewNop(), nil)
	uc := NewCategoryUseCase(repository.NewMemoryRepository(products), layer, logger.NewNop())
	ctx := context.Background()

	all, err := uc.ListCategories(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{Name: "Coffee", ProductCount: 2}, {Name: "Tea", ProductCount: 1}}, all)
	layer.Wait()

	popular, err := uc.ListCategories(ctx, &dto.CategoryFilters{MinProducts: 2})
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{Name: "Coffee", ProductCount: 2}}, popular)
}
