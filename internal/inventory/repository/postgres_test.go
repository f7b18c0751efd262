package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database/databasetest"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	transactiondto "github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	transactionrepo "github.com/fekuna/omnipos-inventory-service/internal/transaction/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepository(t *testing.T) {
	db := databasetest.NewDB(t)
	repo := NewPGRepository(db)
	ledger := transactionrepo.NewPGRepository(db)
	ctx := context.Background()

	t.Run("get creates zero row", func(t *testing.T) {
		inv, err := repo.Get(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), inv.Quantity)
		assert.Equal(t, int64(0), inv.Version)
	})

	t.Run("apply delta writes row and ledger together", func(t *testing.T) {
		entry := model.NewTransaction(model.TransactionStockIn, 1, 1, 25, "po-1", "initial")
		inv, err := repo.ApplyDelta(ctx, entry, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(25), inv.Quantity)
		assert.Equal(t, int64(1), inv.Version)
		assert.NotZero(t, entry.Seq)

		stored, err := ledger.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(25), stored.ResultingQuantity)
		assert.Equal(t, "po-1", stored.Reference())
	})

	t.Run("get on existing row does not write", func(t *testing.T) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		_, err := db.ExecContext(ctx, `SET SESSION default_transaction_read_only = on`)
		require.NoError(t, err)
		defer func() {
			_, err := db.ExecContext(ctx, `SET SESSION default_transaction_read_only = off`)
			require.NoError(t, err)
			db.SetMaxOpenConns(0)
		}()

		inv, err := repo.Get(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(25), inv.Quantity)

		_, err = repo.Get(ctx, 1, 2)
		assert.Error(t, err, "a missing row still needs the insert")
	})

	t.Run("rejections classify and record nothing", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockOut, 1, 1, -1, "", ""), 0)
		assert.True(t, errors.Is(err, apperror.ErrVersionConflict))

		_, err = repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockOut, 1, 1, -30, "", ""), 1)
		assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))

		entries, err := ledger.List(ctx, &transactiondto.TransactionFilters{StoreID: 1, ProductID: 1})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("concurrent writers on one version", func(t *testing.T) {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockOut, 1, 1, -15, "", ""), 1)
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
		assert.Equal(t, int64(10), inv.Quantity)
		assert.Equal(t, int64(2), inv.Version)
	})

	t.Run("list filters", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, model.NewTransaction(model.TransactionStockIn, 2, 3, 40, "", ""), 0)
		require.NoError(t, err)

		low, err := repo.List(ctx, &dto.InventoryFilters{LowStockThreshold: 11})
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, int64(1), low[0].StoreID)

		byStore, err := repo.List(ctx, &dto.InventoryFilters{StoreID: 2})
		require.NoError(t, err)
		require.Len(t, byStore, 1)
		assert.Equal(t, int64(40), byStore[0].Quantity)
	})

	t.Run("ledger is append-only", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `DELETE FROM inventory_transactions`)
		assert.Error(t, err)
	})
}
