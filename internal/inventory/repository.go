package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository is the only writer of inventory quantities.
type Repository interface {
	// Get returns the row, creating it with quantity 0 and version 0 if absent.
	Get(ctx context.Context, storeID, productID int64) (*model.Inventory, error)
	List(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, error)

	// ApplyDelta adds entry.QuantityChange to the row if its version still
	// equals expectedVersion and the result is not negative. On success the
	// row advances one version and entry is appended to the ledger in the
	// same storage transaction, with ResultingQuantity and CreatedAt filled in.
	// Fails with apperror.ErrVersionConflict or apperror.ErrInsufficientStock.
	ApplyDelta(ctx context.Context, entry *model.Transaction, expectedVersion int64) (*model.Inventory, error)
}

// Catalog answers store and product identity questions. It is read-only.
type Catalog interface {
	StoreExists(ctx context.Context, id int64) (bool, error)
	ProductExists(ctx context.Context, id int64) (bool, error)
	ProductDetails(ctx context.Context, id int64) (*model.ProductDetails, error)
}

type EventPublisher interface {
	Publish(ev model.InventoryEvent)
}
