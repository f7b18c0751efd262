package dto

type InventoryFilters struct {
	StoreID   int64
	ProductID int64
	// LowStockThreshold keeps rows with quantity strictly below it. Zero
	// disables the filter.
	LowStockThreshold int64
}

// MovementResult confirms an accepted movement.
type MovementResult struct {
	Message           string `json:"message"`
	ResultingQuantity int64  `json:"resultingQuantity"`
	Version           int64  `json:"version"`
	TransactionID     string `json:"transactionId"`
}

type TransferResult struct {
	Message     string          `json:"message"`
	ReferenceID string          `json:"referenceId"`
	Source      *MovementResult `json:"source"`
	Destination *MovementResult `json:"destination"`
}
