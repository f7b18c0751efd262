package repository

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `
        SELECT category AS name, count(*) AS product_count
        FROM products
        WHERE category <> ''
        GROUP BY category
        ORDER BY category ASC
    `
	err := r.DB.SelectContext(ctx, &categories, query)
	return categories, err
}
