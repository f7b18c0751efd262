package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/google/uuid"
)

const (
	DefaultRecentLimit = 10
	MaxLimit           = 500
)

type transactionUseCase struct {
	repo   transaction.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewTransactionUseCase(repo transaction.Repository, log logger.ZapLogger) transaction.UseCase {
	return &transactionUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Record appends a standalone entry. The ledger owns the timestamp, so any
// caller-supplied CreatedAt is overwritten. Stock movements bypass Record and
// append their entry in the same storage transaction as the inventory row.
func (uc *transactionUseCase) Record(ctx context.Context, t *model.Transaction) error {
	if !t.Type.Valid() {
		return apperror.Validation("invalid transaction type")
	}
	if t.Quantity <= 0 {
		return apperror.InvalidQuantity()
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = uc.now().UTC()
	if err := uc.repo.Append(ctx, t); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

func (uc *transactionUseCase) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NotFound("transaction")
	}
	return t, nil
}

func (uc *transactionUseCase) All(ctx context.Context, limit int) ([]model.Transaction, error) {
	return uc.List(ctx, &dto.TransactionFilters{Limit: limit})
}

func (uc *transactionUseCase) ByType(ctx context.Context, typ model.TransactionType, limit int) ([]model.Transaction, error) {
	if !typ.Valid() {
		return nil, apperror.Validation("invalid transaction type")
	}
	return uc.List(ctx, &dto.TransactionFilters{Type: typ, Limit: limit})
}

func (uc *transactionUseCase) Recent(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return uc.List(ctx, &dto.TransactionFilters{Limit: limit})
}

func (uc *transactionUseCase) ByStore(ctx context.Context, storeID int64, limit int) ([]model.Transaction, error) {
	return uc.List(ctx, &dto.TransactionFilters{StoreID: storeID, Limit: limit})
}

func (uc *transactionUseCase) ByProduct(ctx context.Context, productID int64, limit int) ([]model.Transaction, error) {
	return uc.List(ctx, &dto.TransactionFilters{ProductID: productID, Limit: limit})
}

func (uc *transactionUseCase) ByReference(ctx context.Context, referenceID string) ([]model.Transaction, error) {
	if referenceID == "" {
		return nil, apperror.Validation("referenceId is required")
	}
	return uc.List(ctx, &dto.TransactionFilters{ReferenceID: referenceID})
}

func (uc *transactionUseCase) List(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, error) {
	if filters.Limit > MaxLimit {
		filters.Limit = MaxLimit
	}
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, apperror.Validation("from must not be after to")
	}
	return uc.repo.List(ctx, filters)
}
