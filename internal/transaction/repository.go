package transaction

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
)

// Repository is append-only. Entries are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, t *model.Transaction) error
	// FindByID returns nil, nil when the entry does not exist.
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	// List returns newest first.
	List(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error)
}
