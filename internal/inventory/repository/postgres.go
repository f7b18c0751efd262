package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	transactionrepo "github.com/fekuna/omnipos-inventory-service/internal/transaction/repository"
	"github.com/jmoiron/sqlx"
)

const inventoryColumns = `store_id, product_id, quantity, version, updated_at`

type PGRepository struct {
	DB  *sqlx.DB
	now func() time.Time
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db, now: time.Now}
}

func ensureRow(ctx context.Context, q sqlx.ExecerContext, storeID, productID int64) error {
	_, err := q.ExecContext(ctx, `
        INSERT INTO inventory (store_id, product_id, quantity, version)
        VALUES ($1, $2, 0, 0)
        ON CONFLICT (store_id, product_id) DO NOTHING
    `, storeID, productID)
	if err != nil {
		return fmt.Errorf("failed to create inventory row: %w", err)
	}
	return nil
}

// Get reads the row and only writes when it is missing.
func (r *PGRepository) Get(ctx context.Context, storeID, productID int64) (*model.Inventory, error) {
	inv, err := r.find(ctx, storeID, productID)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err := ensureRow(ctx, r.DB, storeID, productID); err != nil {
		return nil, err
	}
	return r.find(ctx, storeID, productID)
}

func (r *PGRepository) find(ctx context.Context, storeID, productID int64) (*model.Inventory, error) {
	var inv model.Inventory
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE store_id = $1 AND product_id = $2`
	if err := r.DB.GetContext(ctx, &inv, query, storeID, productID); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) List(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, error) {
	items := []model.Inventory{}

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != 0 {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.ProductID != 0 {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LowStockThreshold > 0 {
		conditions = append(conditions, "quantity < :threshold")
		args["threshold"] = f.LowStockThreshold
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT " + inventoryColumns + " FROM inventory" + whereClause + " ORDER BY store_id ASC, product_id ASC"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, err
}

func (r *PGRepository) ApplyDelta(ctx context.Context, entry *model.Transaction, expectedVersion int64) (*model.Inventory, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := ensureRow(ctx, tx, entry.StoreID, entry.ProductID); err != nil {
		return nil, err
	}

	now := r.now().UTC()

	// 1. Conditional update: version unchanged and result non-negative
	var inv model.Inventory
	updateQuery := `
        UPDATE inventory
        SET quantity = quantity + $3, version = version + 1, updated_at = $4
        WHERE store_id = $1 AND product_id = $2 AND version = $5 AND quantity + $3 >= 0
        RETURNING ` + inventoryColumns
	err = tx.GetContext(ctx, &inv, updateQuery, entry.StoreID, entry.ProductID, entry.QuantityChange, now, expectedVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, classifyRejection(ctx, tx, entry, expectedVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	// 2. Ledger entry
	entry.ResultingQuantity = inv.Quantity
	entry.CreatedAt = now
	if err := transactionrepo.InsertTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movement: %w", err)
	}
	return &inv, nil
}

// classifyRejection explains why the conditional update matched no row.
func classifyRejection(ctx context.Context, tx *sqlx.Tx, entry *model.Transaction, expectedVersion int64) error {
	var cur model.Inventory
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE store_id = $1 AND product_id = $2`
	if err := tx.GetContext(ctx, &cur, query, entry.StoreID, entry.ProductID); err != nil {
		return fmt.Errorf("failed to read inventory after rejected update: %w", err)
	}
	if cur.Version != expectedVersion {
		return apperror.VersionConflict()
	}
	return apperror.InsufficientStock()
}
