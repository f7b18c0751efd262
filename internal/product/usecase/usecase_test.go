package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	product.Repository
	finds atomic.Int32
}

func (r *countingRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	r.finds.Add(1)
	return r.Repository.FindByID(ctx, id)
}

func seed() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Arabica Beans 1kg", Category: "Coffee", Price: decimal.NewFromInt(189000), SKU: "COF-ARB-1KG"},
		{ID: 2, Name: "Oat Milk 1L", Category: "Dairy Alternatives", Price: decimal.NewFromInt(42000), SKU: "DAI-OAT-1L"},
		{ID: 3, Name: "Cold Brew 1L", Category: "Coffee", Price: decimal.NewFromInt(75000), SKU: "COF-CBR-1L"},
	}
}

func TestGetProduct_CachesLookups(t *testing.T) {
	repo := &countingRepo{Repository: repository.NewMemoryRepository(seed()...)}
	layer := cache.NewLayer(cache.NewMemoryStore(), &cache.LayerConfig{TTLs: cache.DefaultTTLs(), PopulateWorkers: 2}, logger.NewNop(), nil)
	uc := NewProductUseCase(repo, layer, logger.NewNop())
	ctx := context.Background()

	p, err := uc.GetProduct(ctx, 1)
	require.NoError(t, err)
	layer.Wait()

	again, err := uc.GetProduct(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int32(1), repo.finds.Load())
	assert.Equal(t, p.SKU, again.SKU)
	assert.True(t, p.Price.Equal(again.Price))
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := NewProductUseCase(repository.NewMemoryRepository(seed()...), nil, logger.NewNop())

	_, err := uc.GetProduct(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestListProducts_Filters(t *testing.T) {
	uc := NewProductUseCase(repository.NewMemoryRepository(seed()...), nil, logger.NewNop())
	ctx := context.Background()

	coffee, err := uc.ListProducts(ctx, &dto.ProductFilters{Category: "Coffee"})
	require.NoError(t, err)
	assert.Len(t, coffee, 2)

	one, err := uc.ListProducts(ctx, &dto.ProductFilters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, int64(1), one[0].ID)

	bySKU, err := uc.ListProducts(ctx, &dto.ProductFilters{SKU: "DAI-OAT-1L"})
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, int64(2), bySKU[0].ID)
}
