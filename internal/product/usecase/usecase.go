package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

type productUseCase struct {
	repo   product.Repository
	cache  *cache.Layer
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cache *cache.Layer, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return cache.Fetch(ctx, uc.cache, cache.ProductKey(id), cache.ClassCatalog, func(ctx context.Context) (*model.Product, error) {
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find product %d: %w", id, err)
		}
		if p == nil {
			return nil, apperror.NotFound("product")
		}
		return p, nil
	})
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	return uc.repo.FindAll(ctx, filters)
}
