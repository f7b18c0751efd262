package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is the per (store, product) stock row. Version increases on every
// accepted mutation and is the optimistic concurrency token.
type Inventory struct {
	StoreID   int64     `db:"store_id" json:"storeId"`
	ProductID int64     `db:"product_id" json:"productId"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	Version   int64     `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// InventoryItem is an inventory row enriched with catalog details for listings.
type InventoryItem struct {
	Inventory
	ProductName string          `json:"productName,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
}
