package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/database/databasetest"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepository_AppendAndList(t *testing.T) {
	db := databasetest.NewDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, typ := range []model.TransactionType{model.TransactionStockIn, model.TransactionStockOut, model.TransactionStockOut} {
		tx := model.NewTransaction(typ, 1, 2, int64(i+1), "ref-a", "")
		tx.ResultingQuantity = int64(10 + i)
		tx.CreatedAt = ts
		require.NoError(t, repo.Append(ctx, tx))
		ids = append(ids, tx.ID)
	}

	all, err := repo.List(ctx, &dto.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Equal timestamps fall back to insertion order, newest first.
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	outs, err := repo.List(ctx, &dto.TransactionFilters{Type: model.TransactionStockOut, Limit: 1})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, ids[2], outs[0].ID)

	from := ts.Add(time.Hour)
	none, err := repo.List(ctx, &dto.TransactionFilters{From: &from})
	require.NoError(t, err)
	assert.Empty(t, none)

	missing, err := repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
