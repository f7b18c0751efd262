package model

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	SKU         string          `db:"sku" json:"sku"`
}

// ProductDetails is the subset of a product used to enrich inventory listings.
type ProductDetails struct {
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
}

func (p *Product) Details() *ProductDetails {
	return &ProductDetails{Name: p.Name, SKU: p.SKU, Price: p.Price}
}
