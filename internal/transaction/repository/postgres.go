package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/jmoiron/sqlx"
)

const transactionColumns = `seq, id, type, store_id, product_id, quantity, quantity_change,
        reference_id, notes, resulting_quantity, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// InsertTx writes t through q so callers can share an open transaction. The
// assigned sequence is stored back on t.
func InsertTx(ctx context.Context, q sqlx.ExtContext, t *model.Transaction) error {
	query := `
        INSERT INTO inventory_transactions (
            id, type, store_id, product_id, quantity, quantity_change,
            reference_id, notes, resulting_quantity, created_at
        )
        VALUES (
            :id, :type, :store_id, :product_id, :quantity, :quantity_change,
            :reference_id, :notes, :resulting_quantity, :created_at
        )
        RETURNING seq
    `
	query, args, err := sqlx.Named(query, t)
	if err != nil {
		return err
	}
	query = q.Rebind(query)

	if err := q.QueryRowxContext(ctx, query, args...).Scan(&t.Seq); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *PGRepository) Append(ctx context.Context, t *model.Transaction) error {
	return InsertTx(ctx, r.DB, t)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	err := r.DB.GetContext(ctx, &t, `SELECT `+transactionColumns+` FROM inventory_transactions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) List(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, error) {
	items := []model.Transaction{}

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = string(f.Type)
	}
	if f.StoreID != 0 {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.ProductID != 0 {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from_ts")
		args["from_ts"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at <= :to_ts")
		args["to_ts"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT " + transactionColumns + " FROM inventory_transactions" + whereClause + " ORDER BY created_at DESC, seq DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, err
}
