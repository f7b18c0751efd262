package transaction

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
)

type UseCase interface {
	Record(ctx context.Context, t *model.Transaction) error
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	All(ctx context.Context, limit int) ([]model.Transaction, error)
	ByType(ctx context.Context, typ model.TransactionType, limit int) ([]model.Transaction, error)
	Recent(ctx context.Context, limit int) ([]model.Transaction, error)
	ByStore(ctx context.Context, storeID int64, limit int) ([]model.Transaction, error)
	ByProduct(ctx context.Context, productID int64, limit int) ([]model.Transaction, error)
	ByReference(ctx context.Context, referenceID string) ([]model.Transaction, error)
	List(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error)
}
