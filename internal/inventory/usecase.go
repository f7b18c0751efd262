package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	StockIn(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error)
	StockOut(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error)
	Reserve(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error)
	Release(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error)
	Adjust(ctx context.Context, input *dto.AdjustInput) (*dto.MovementResult, error)
	Transfer(ctx context.Context, input *dto.TransferInput) (*dto.TransferResult, error)

	GetItem(ctx context.Context, storeID, productID int64) (*model.InventoryItem, error)
	ListAll(ctx context.Context) ([]model.InventoryItem, error)
	ListByStore(ctx context.Context, storeID int64) ([]model.InventoryItem, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.InventoryItem, error)
	// LowStock lists rows below threshold. A non-positive threshold uses the
	// configured default.
	LowStock(ctx context.Context, threshold int64) ([]model.InventoryItem, error)
}
