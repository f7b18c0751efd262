package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

func (uc *inventoryUseCase) GetItem(ctx context.Context, storeID, productID int64) (*model.InventoryItem, error) {
	if err := uc.validateReferences(ctx, productID, storeID); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, uc.cache, cache.InventoryItemKey(storeID, productID), cache.ClassInventory, func(ctx context.Context) (*model.InventoryItem, error) {
		inv, err := uc.repo.Get(ctx, storeID, productID)
		if err != nil {
			return nil, err
		}
		items, err := uc.enrich(ctx, []model.Inventory{*inv})
		if err != nil {
			return nil, err
		}
		return &items[0], nil
	})
}

func (uc *inventoryUseCase) ListAll(ctx context.Context) ([]model.InventoryItem, error) {
	return uc.cachedList(ctx, cache.KeyInventoryAll, cache.ClassInventory, &dto.InventoryFilters{})
}

func (uc *inventoryUseCase) ListByStore(ctx context.Context, storeID int64) ([]model.InventoryItem, error) {
	return uc.cachedList(ctx, cache.InventoryStoreKey(storeID), cache.ClassInventory, &dto.InventoryFilters{StoreID: storeID})
}

func (uc *inventoryUseCase) ListByProduct(ctx context.Context, productID int64) ([]model.InventoryItem, error) {
	return uc.cachedList(ctx, cache.InventoryProductKey(productID), cache.ClassInventory, &dto.InventoryFilters{ProductID: productID})
}

// LowStock caches only the default threshold; other thresholds read through.
func (uc *inventoryUseCase) LowStock(ctx context.Context, threshold int64) ([]model.InventoryItem, error) {
	if threshold <= 0 {
		threshold = uc.cfg.LowStockThreshold
	}
	filters := &dto.InventoryFilters{LowStockThreshold: threshold}
	if threshold != uc.cfg.LowStockThreshold {
		return uc.list(ctx, filters)
	}
	return uc.cachedList(ctx, cache.KeyLowStock, cache.ClassLowStock, filters)
}

func (uc *inventoryUseCase) cachedList(ctx context.Context, key string, class cache.Class, filters *dto.InventoryFilters) ([]model.InventoryItem, error) {
	return cache.Fetch(ctx, uc.cache, key, class, func(ctx context.Context) ([]model.InventoryItem, error) {
		return uc.list(ctx, filters)
	})
}

func (uc *inventoryUseCase) list(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, error) {
	rows, err := uc.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, rows)
}

// enrich attaches product name, SKU and price. Unknown products are listed
// without details.
func (uc *inventoryUseCase) enrich(ctx context.Context, rows []model.Inventory) ([]model.InventoryItem, error) {
	details := map[int64]*model.ProductDetails{}
	items := make([]model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		d, seen := details[row.ProductID]
		if !seen {
			var err error
			d, err = uc.catalog.ProductDetails(ctx, row.ProductID)
			if err != nil {
				return nil, err
			}
			details[row.ProductID] = d
		}

		item := model.InventoryItem{Inventory: row}
		if d != nil {
			item.ProductName = d.Name
			item.SKU = d.SKU
			item.Price = d.Price
		}
		items = append(items, item)
	}
	return items, nil
}
