package model

// Category is derived from products; there is no categories table.
type Category struct {
	Name         string `db:"name" json:"name"`
	ProductCount int    `db:"product_count" json:"productCount"`
}
