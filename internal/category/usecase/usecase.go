package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type categoryUseCase struct {
	repo   category.Repository
	cache  *cache.Layer
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cache *cache.Layer, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error) {
	categories, err := cache.Fetch(ctx, uc.cache, cache.KeyCategories, cache.ClassCategories, uc.repo.FindAll)
	if err != nil {
		return nil, err
	}
	if filters == nil || filters.MinProducts <= 0 {
		return categories, nil
	}

	filtered := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.ProductCount >= filters.MinProducts {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}
