package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase(now time.Time) *transactionUseCase {
	uc := NewTransactionUseCase(repository.NewMemoryRepository(), logger.NewNop()).(*transactionUseCase)
	uc.now = func() time.Time { return now }
	return uc
}

func TestRecord_AssignsIDAndTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(now)
	ctx := context.Background()

	tx := &model.Transaction{Type: model.TransactionStockIn, StoreID: 1, ProductID: 1, Quantity: 5, QuantityChange: 5, ResultingQuantity: 5}
	require.NoError(t, uc.Record(ctx, tx))

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, now, tx.CreatedAt)

	got, err := uc.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ResultingQuantity)
}

func TestRecord_Rejects(t *testing.T) {
	uc := newTestUseCase(time.Now())
	ctx := context.Background()

	err := uc.Record(ctx, &model.Transaction{Type: "REFUND", Quantity: 1})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	err = uc.Record(ctx, &model.Transaction{Type: model.TransactionStockOut, Quantity: 0})
	assert.True(t, errors.Is(err, apperror.ErrInvalidQuantity))

	all, err := uc.All(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecent_OrdersNewestFirstWithSequenceTiebreak(t *testing.T) {
	same := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(same)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 12; i++ {
		tx := model.NewTransaction(model.TransactionStockIn, 1, 1, int64(i+1), "", "")
		require.NoError(t, uc.Record(ctx, tx))
		ids = append(ids, tx.ID)
	}

	recent, err := uc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, ids[11], recent[0].ID)
	assert.Equal(t, ids[2], recent[9].ID)
	for i := 1; i < len(recent); i++ {
		assert.Greater(t, recent[i-1].Seq, recent[i].Seq)
	}

	three, err := uc.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)
}

func TestQueries(t *testing.T) {
	uc := newTestUseCase(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	entries := []*model.Transaction{
		model.NewTransaction(model.TransactionStockIn, 1, 1, 20, "po-1", ""),
		model.NewTransaction(model.TransactionStockOut, 1, 2, -3, "order-9", ""),
		model.NewTransaction(model.TransactionTransfer, 2, 1, -4, "tr-1", ""),
		model.NewTransaction(model.TransactionTransfer, 3, 1, 4, "tr-1", ""),
	}
	for _, e := range entries {
		require.NoError(t, uc.Record(ctx, e))
	}

	byType, err := uc.ByType(ctx, model.TransactionTransfer, 0)
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	_, err = uc.ByType(ctx, "BOGUS", 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	byStore, err := uc.ByStore(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, byStore, 2)

	byProduct, err := uc.ByProduct(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, byProduct, 3)

	byRef, err := uc.ByReference(ctx, "tr-1")
	require.NoError(t, err)
	require.Len(t, byRef, 2)
	assert.Equal(t, int64(4), byRef[0].QuantityChange)
	assert.Equal(t, int64(-4), byRef[1].QuantityChange)

	_, err = uc.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestRecord_IgnoresCallerTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(now)
	ctx := context.Background()

	first := model.NewTransaction(model.TransactionStockIn, 1, 1, 2, "", "")
	require.NoError(t, uc.Record(ctx, first))

	backdated := model.NewTransaction(model.TransactionStockIn, 1, 1, 3, "", "")
	backdated.CreatedAt = now.Add(-time.Hour)
	require.NoError(t, uc.Record(ctx, backdated))
	assert.Equal(t, now, backdated.CreatedAt)

	recent, err := uc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, backdated.ID, recent[0].ID)
	assert.False(t, recent[0].CreatedAt.Before(recent[1].CreatedAt))
}

func TestList_DateRangeAndLimitCap(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(base)
	ctx := context.Background()

	for d := 0; d < 5; d++ {
		day := base.AddDate(0, 0, d)
		uc.now = func() time.Time { return day }
		tx := model.NewTransaction(model.TransactionStockIn, 1, 1, 1, "", "")
		require.NoError(t, uc.Record(ctx, tx))
	}

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)
	ranged, err := uc.List(ctx, &dto.TransactionFilters{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	_, err = uc.List(ctx, &dto.TransactionFilters{From: &to, To: &from})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	f := &dto.TransactionFilters{Limit: 10000}
	_, err = uc.List(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, f.Limit)
}
