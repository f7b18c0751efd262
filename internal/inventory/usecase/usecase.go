package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Config struct {
	MaxAttempts              int
	RetryBackoff             time.Duration
	LowStockThreshold        int64
	CompensationMaxAttempts  int
	CompensationRetryBackoff time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:              3,
		RetryBackoff:             20 * time.Millisecond,
		LowStockThreshold:        10,
		CompensationMaxAttempts:  5,
		CompensationRetryBackoff: 50 * time.Millisecond,
	}
}

type inventoryUseCase struct {
	repo      inventory.Repository
	catalog   inventory.Catalog
	publisher inventory.EventPublisher
	cache     *cache.Layer
	cfg       *Config
	logger    logger.ZapLogger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewInventoryUseCase(
	repo inventory.Repository,
	catalog inventory.Catalog,
	publisher inventory.EventPublisher,
	cache *cache.Layer,
	cfg *Config,
	log logger.ZapLogger,
	m *metrics.Metrics,
) inventory.UseCase {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &inventoryUseCase{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		cache:     cache,
		cfg:       cfg,
		logger:    log,
		metrics:   m,
		tracer:    otel.Tracer("github.com/fekuna/omnipos-inventory-service/internal/inventory"),
	}
}

// movement is one signed change to a single (store, product) row.
type movement struct {
	typ       model.TransactionType
	storeID   int64
	productID int64
	delta     int64
	reference string
	notes     string
	// expectedVersion, when set, is the caller's precondition. It is checked
	// once and never retried.
	expectedVersion *int64
}

func (uc *inventoryUseCase) StockIn(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error) {
	return uc.quantityMovement(ctx, model.TransactionStockIn, input, 1)
}

func (uc *inventoryUseCase) StockOut(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error) {
	return uc.quantityMovement(ctx, model.TransactionStockOut, input, -1)
}

func (uc *inventoryUseCase) Reserve(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error) {
	return uc.quantityMovement(ctx, model.TransactionReservation, input, -1)
}

func (uc *inventoryUseCase) Release(ctx context.Context, input *dto.MovementInput) (*dto.MovementResult, error) {
	return uc.quantityMovement(ctx, model.TransactionRelease, input, 1)
}

func (uc *inventoryUseCase) quantityMovement(ctx context.Context, typ model.TransactionType, input *dto.MovementInput, sign int64) (*dto.MovementResult, error) {
	if err := uc.validateReferences(ctx, input.ProductID, input.StoreID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, apperror.InvalidQuantity()
	}

	inv, entry, err := uc.apply(ctx, &movement{
		typ:       typ,
		storeID:   input.StoreID,
		productID: input.ProductID,
		delta:     sign * input.Quantity,
		reference: input.ReferenceID,
		notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}
	return result(typ, inv, entry), nil
}

func (uc *inventoryUseCase) Adjust(ctx context.Context, input *dto.AdjustInput) (*dto.MovementResult, error) {
	if err := uc.validateReferences(ctx, input.ProductID, input.StoreID); err != nil {
		return nil, err
	}
	if input.Delta == 0 {
		return nil, apperror.InvalidQuantity()
	}

	inv, entry, err := uc.apply(ctx, &movement{
		typ:             model.TransactionAdjustment,
		storeID:         input.StoreID,
		productID:       input.ProductID,
		delta:           input.Delta,
		reference:       input.ReferenceID,
		notes:           input.Notes,
		expectedVersion: input.ExpectedVersion,
	})
	if err != nil {
		return nil, err
	}
	return result(model.TransactionAdjustment, inv, entry), nil
}

// Transfer moves stock between stores as two TRANSFER legs sharing one
// reference. If the inbound leg fails, the outbound leg is reversed with an
// ADJUSTMENT at the source and the inbound error is returned.
func (uc *inventoryUseCase) Transfer(ctx context.Context, input *dto.TransferInput) (*dto.TransferResult, error) {
	if err := uc.validateReferences(ctx, input.ProductID, input.SourceStoreID, input.DestStoreID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, apperror.InvalidQuantity()
	}
	if input.SourceStoreID == input.DestStoreID {
		return nil, apperror.Validation("source and destination store must differ")
	}

	reference := input.ReferenceID
	if reference == "" {
		reference = uuid.New().String()
	}

	ctx, span := uc.tracer.Start(ctx, "inventory.Transfer", trace.WithAttributes(
		attribute.String("transfer.reference_id", reference),
		attribute.Int64("transfer.source_store_id", input.SourceStoreID),
		attribute.Int64("transfer.dest_store_id", input.DestStoreID),
	))
	defer span.End()

	outInv, outEntry, err := uc.apply(ctx, &movement{
		typ:       model.TransactionTransfer,
		storeID:   input.SourceStoreID,
		productID: input.ProductID,
		delta:     -input.Quantity,
		reference: reference,
		notes:     input.Notes,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	inInv, inEntry, err := uc.apply(ctx, &movement{
		typ:       model.TransactionTransfer,
		storeID:   input.DestStoreID,
		productID: input.ProductID,
		delta:     input.Quantity,
		reference: reference,
		notes:     input.Notes,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if cerr := uc.compensate(ctx, input, reference, err); cerr != nil {
			// The source keeps the outbound leg; surface the original cause.
			return nil, err
		}
		return nil, apperror.TransferFailed(err).WithDetail("referenceId", reference)
	}

	return &dto.TransferResult{
		Message:     "transfer completed",
		ReferenceID: reference,
		Source:      result(model.TransactionTransfer, outInv, outEntry),
		Destination: result(model.TransactionTransfer, inInv, inEntry),
	}, nil
}

// compensate returns the outbound quantity to the source store. It runs
// detached from ctx because the outbound leg is already committed.
func (uc *inventoryUseCase) compensate(ctx context.Context, input *dto.TransferInput, reference string, cause error) error {
	ctx = context.WithoutCancel(ctx)

	log := uc.logger.With(
		zap.String("transfer_id", reference),
		zap.Int64("store_id", input.SourceStoreID),
		zap.Int64("product_id", input.ProductID),
	)
	log.Warn("Transfer inbound leg failed, compensating source", zap.Error(cause))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.cfg.CompensationRetryBackoff
	attempts := uc.cfg.CompensationMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	op := func() error {
		_, _, err := uc.apply(ctx, &movement{
			typ:       model.TransactionAdjustment,
			storeID:   input.SourceStoreID,
			productID: input.ProductID,
			delta:     input.Quantity,
			reference: reference,
			notes:     fmt.Sprintf("compensation for failed transfer %s", reference),
		})
		if apperror.IsBusiness(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("Compensation attempt failed, retrying", zap.Duration("wait", wait), zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithMaxRetries(b, uint64(attempts-1)), notify); err != nil {
		uc.metrics.RecordCompensation("failure")
		log.Error("Transfer compensation failed, source store needs manual correction",
			zap.Int64("quantity", input.Quantity),
			zap.Error(err),
		)
		return err
	}
	uc.metrics.RecordCompensation("success")
	log.Info("Transfer compensated")
	return nil
}

// apply runs read, check and conditional commit, retrying version conflicts
// with a short backoff. After commit it publishes the event and evicts the
// affected cache keys before returning.
func (uc *inventoryUseCase) apply(ctx context.Context, m *movement) (*model.Inventory, *model.Transaction, error) {
	start := time.Now()
	ctx, span := uc.tracer.Start(ctx, "inventory.ApplyMovement", trace.WithAttributes(
		attribute.String("movement.type", string(m.typ)),
		attribute.Int64("movement.store_id", m.storeID),
		attribute.Int64("movement.product_id", m.productID),
		attribute.Int64("movement.delta", m.delta),
	))
	defer span.End()

	var (
		inv   *model.Inventory
		entry *model.Transaction
	)
	attempt := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		cur, err := uc.repo.Get(ctx, m.storeID, m.productID)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("get inventory: %w", err))
		}

		expected := cur.Version
		if m.expectedVersion != nil {
			if *m.expectedVersion != cur.Version {
				return backoff.Permanent(apperror.VersionConflict().
					WithDetail("currentVersion", fmt.Sprint(cur.Version)))
			}
			expected = *m.expectedVersion
		}
		if cur.Quantity+m.delta < 0 {
			return backoff.Permanent(apperror.InsufficientStock())
		}

		entry = model.NewTransaction(m.typ, m.storeID, m.productID, m.delta, m.reference, m.notes)
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		inv, err = uc.repo.ApplyDelta(ctx, entry, expected)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, apperror.ErrVersionConflict) && m.expectedVersion == nil:
			uc.metrics.RecordVersionConflict(false)
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	attempts := uc.cfg.MaxAttempts
	if attempts < 1 || m.expectedVersion != nil {
		attempts = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.cfg.RetryBackoff
	b.MaxInterval = 10 * uc.cfg.RetryBackoff

	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx))
	if err != nil {
		if errors.Is(err, apperror.ErrVersionConflict) {
			uc.metrics.RecordVersionConflict(true)
		}
		uc.metrics.RecordMovement(string(m.typ), outcome(err), time.Since(start))
		span.SetStatus(codes.Error, err.Error())
		if outcome(err) == "error" {
			uc.logger.Error("Movement failed",
				zap.String("type", string(m.typ)),
				zap.Int64("store_id", m.storeID),
				zap.Int64("product_id", m.productID),
				zap.Error(err),
			)
		}
		return nil, nil, err
	}

	span.SetAttributes(attribute.String("transaction.id", entry.ID))
	uc.metrics.RecordMovement(string(m.typ), "accepted", time.Since(start))
	uc.afterCommit(ctx, inv, entry)
	return inv, entry, nil
}

// afterCommit never fails the movement; the ledger entry is already durable.
func (uc *inventoryUseCase) afterCommit(ctx context.Context, inv *model.Inventory, entry *model.Transaction) {
	ctx = context.WithoutCancel(ctx)

	uc.publisher.Publish(model.InventoryEvent{
		EventID:           uuid.New().String(),
		Type:              entry.Type,
		StoreID:           entry.StoreID,
		ProductID:         entry.ProductID,
		Quantity:          entry.Quantity,
		QuantityChange:    entry.QuantityChange,
		ReferenceID:       entry.Reference(),
		TransactionID:     entry.ID,
		ResultingQuantity: entry.ResultingQuantity,
		Version:           inv.Version,
		Timestamp:         entry.CreatedAt,
	})

	if err := uc.cache.Invalidate(ctx, cache.MovementKeys(entry.StoreID, entry.ProductID)...); err != nil {
		uc.logger.Warn("Cache invalidation failed, relying on event subscriber",
			zap.String("transaction_id", entry.ID),
			zap.Error(err),
		)
	}

	uc.logger.Debug("Movement accepted",
		zap.String("transaction_id", entry.ID),
		zap.String("type", string(entry.Type)),
		zap.Int64("store_id", entry.StoreID),
		zap.Int64("product_id", entry.ProductID),
		zap.Int64("resulting_quantity", entry.ResultingQuantity),
	)
}

// validateReferences checks each store in order, then the product.
func (uc *inventoryUseCase) validateReferences(ctx context.Context, productID int64, storeIDs ...int64) error {
	for _, id := range storeIDs {
		ok, err := uc.catalog.StoreExists(ctx, id)
		if err != nil {
			return fmt.Errorf("check store %d: %w", id, err)
		}
		if !ok {
			return apperror.InvalidStore().WithDetail("storeId", fmt.Sprint(id))
		}
	}
	ok, err := uc.catalog.ProductExists(ctx, productID)
	if err != nil {
		return fmt.Errorf("check product %d: %w", productID, err)
	}
	if !ok {
		return apperror.InvalidProduct().WithDetail("productId", fmt.Sprint(productID))
	}
	return nil
}

func result(typ model.TransactionType, inv *model.Inventory, entry *model.Transaction) *dto.MovementResult {
	return &dto.MovementResult{
		Message:           messages[typ],
		ResultingQuantity: inv.Quantity,
		Version:           inv.Version,
		TransactionID:     entry.ID,
	}
}

var messages = map[model.TransactionType]string{
	model.TransactionStockIn:     "stock added",
	model.TransactionStockOut:    "stock removed",
	model.TransactionAdjustment:  "stock adjusted",
	model.TransactionTransfer:    "stock transferred",
	model.TransactionReservation: "stock reserved",
	model.TransactionRelease:     "reservation released",
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperror.ErrVersionConflict):
		return "conflict"
	case apperror.IsBusiness(err):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
