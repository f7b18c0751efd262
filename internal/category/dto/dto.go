package dto

type CategoryFilters struct {
	// MinProducts hides categories with fewer products.
	MinProducts int
}
