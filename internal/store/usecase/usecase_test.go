package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/store/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUseCase(t *testing.T) {
	repo := repository.NewMemoryRepository(
		model.Store{ID: 2, Name: "Harbour Outlet", Status: "ACTIVE"},
		model.Store{ID: 1, Name: "Downtown Flagship", Status: "ACTIVE"},
	)
	layer := cache.NewLayer(cache.NewMemoryStore(), &cache.LayerConfig{TTLs: cache.DefaultTTLs(), PopulateWorkers: 2}, logger.NewNop(), nil)
	uc := NewStoreUseCase(repo, layer, logger.NewNop())
	ctx := context.Background()

	s, err := uc.GetStore(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Harbour Outlet", s.Name)

	_, err = uc.GetStore(ctx, 3)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	all, err := uc.ListStores(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
}
