package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/store"
)

type storeUseCase struct {
	repo   store.Repository
	cache  *cache.Layer
	logger logger.ZapLogger
}

func NewStoreUseCase(repo store.Repository, cache *cache.Layer, log logger.ZapLogger) store.UseCase {
	return &storeUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *storeUseCase) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	return cache.Fetch(ctx, uc.cache, cache.StoreKey(id), cache.ClassCatalog, func(ctx context.Context) (*model.Store, error) {
		s, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find store %d: %w", id, err)
		}
		if s == nil {
			return nil, apperror.NotFound("store")
		}
		return s, nil
	})
}

func (uc *storeUseCase) ListStores(ctx context.Context) ([]model.Store, error) {
	return uc.repo.FindAll(ctx)
}
