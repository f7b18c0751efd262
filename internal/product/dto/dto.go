package dto

type ProductFilters struct {
	Category string
	SKU      string
	Limit    int
}
