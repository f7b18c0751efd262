package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	transactiondto "github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	transactionrepo "github.com/fekuna/omnipos-inventory-service/internal/transaction/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_GetCreatesZeroRow(t *testing.T) {
	repo := NewMemoryRepository(transactionrepo.NewMemoryRepository())

	inv, err := repo.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.Quantity)
	assert.Equal(t, int64(0), inv.Version)

	rows, err := repo.List(context.Background(), &dto.InventoryFilters{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemoryRepository_ApplyDelta(t *testing.T) {
	ledger := transactionrepo.NewMemoryRepository()
	repo := NewMemoryRepository(ledger)
	ctx := context.Background()

	entry := model.NewTransaction(model.TransactionStockIn, 1, 1, 10, "", "")
	inv, err := repo.ApplyDelta(ctx, entry, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.Quantity)
	assert.Equal(t, int64(1), inv.Version)
	assert.Equal(t, int64(10), entry.ResultingQuantity)
	assert.False(t, entry.CreatedAt.IsZero())

	_, err = repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockOut, 1, 1, -1, "", ""), 0)
	assert.True(t, errors.Is(err, apperror.ErrVersionConflict))

	_, err = repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockOut, 1, 1, -11, "", ""), 1)
	assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))

	entries, err := ledger.List(ctx, &transactiondto.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	cur, err := repo.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), cur.Quantity)
	assert.Equal(t, int64(1), cur.Version)
}

func TestMemoryRepository_CompareAndSwapUnderContention(t *testing.T) {
	repo := NewMemoryRepository(transactionrepo.NewMemoryRepository())
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockIn, 1, 1, 1, "", ""), 0)
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	inv, err := repo.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.Quantity)
}

func TestMemoryRepository_ListFilters(t *testing.T) {
	repo := NewMemoryRepository(transactionrepo.NewMemoryRepository())
	ctx := context.Background()

	for _, r := range []struct{ store, product, qty int64 }{{1, 1, 5}, {1, 2, 50}, {2, 1, 9}, {2, 2, 10}} {
		_, err := repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockIn, r.store, r.product, r.qty, "", ""), 0)
		require.NoError(t, err)
	}

	byStore, err := repo.List(ctx, &dto.InventoryFilters{StoreID: 2})
	require.NoError(t, err)
	assert.Len(t, byStore, 2)

	byProduct, err := repo.List(ctx, &dto.InventoryFilters{ProductID: 1})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	low, err := repo.List(ctx, &dto.InventoryFilters{LowStockThreshold: 10})
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, int64(5), low[0].Quantity)
	assert.Equal(t, int64(9), low[1].Quantity)
}
