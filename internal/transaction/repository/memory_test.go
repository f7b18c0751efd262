package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_AssignsSequence(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a := model.NewTransaction(model.TransactionStockIn, 1, 1, 3, "", "")
	b := model.NewTransaction(model.TransactionStockIn, 1, 1, 4, "", "")
	require.NoError(t, repo.Append(ctx, a))
	require.NoError(t, repo.Append(ctx, b))
	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(2), b.Seq)

	got, err := repo.List(ctx, &dto.TransactionFilters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	// Stored entries are copies.
	a.Quantity = 99
	stored, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Quantity)
}

func TestMemoryRepository_ListOrdersByTimestamp(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	late := model.NewTransaction(model.TransactionStockIn, 1, 1, 1, "", "")
	late.CreatedAt = base
	early := model.NewTransaction(model.TransactionStockIn, 1, 1, 1, "", "")
	early.CreatedAt = base.Add(-time.Hour)
	tie := model.NewTransaction(model.TransactionStockIn, 1, 1, 1, "", "")
	tie.CreatedAt = base
	for _, e := range []*model.Transaction{late, early, tie} {
		require.NoError(t, repo.Append(ctx, e))
	}

	got, err := repo.List(ctx, &dto.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{tie.ID, late.ID, early.ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	limited, err := repo.List(ctx, &dto.TransactionFilters{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{tie.ID, late.ID}, []string{limited[0].ID, limited[1].ID})
}
