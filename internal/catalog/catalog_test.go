package catalog

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	productrepo "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	productuc "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"
	storerepo "github.com/fekuna/omnipos-inventory-service/internal/store/repository"
	storeuc "github.com/fekuna/omnipos-inventory-service/internal/store/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog() *Catalog {
	log := logger.NewNop()
	layer := cache.NewLayer(cache.NewMemoryStore(), &cache.LayerConfig{TTLs: cache.DefaultTTLs(), PopulateWorkers: 2}, log, nil)
	return New(
		storeuc.NewStoreUseCase(storerepo.NewMemoryRepository(SeedStores()...), layer, log),
		productuc.NewProductUseCase(productrepo.NewMemoryRepository(SeedProducts()...), layer, log),
	)
}

func TestCatalog_Exists(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	tests := []struct {
		name  string
		check func(context.Context, int64) (bool, error)
		id    int64
		want  bool
	}{
		{"known store", c.StoreExists, 1, true},
		{"unknown store", c.StoreExists, 999, false},
		{"known product", c.ProductExists, 5, true},
		{"unknown product", c.ProductExists, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_ProductDetails(t *testing.T) {
	c := newTestCatalog()
	ctx := context.Background()

	d, err := c.ProductDetails(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "COF-ARB-1KG", d.SKU)
	assert.Equal(t, "189000", d.Price.String())

	d, err = c.ProductDetails(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestSeed_MatchesCount(t *testing.T) {
	assert.Len(t, SeedStores(), 5)
	assert.Len(t, SeedProducts(), 5)
	assert.Nil(t, SeedProducts()[4].Description)
}
