package dto

// MovementInput is shared by stock-in, stock-out, reserve and release.
// Identity and quantity checks happen in the use case so reference errors
// are reported before quantity errors.
type MovementInput struct {
	StoreID     int64  `json:"storeId"`
	ProductID   int64  `json:"productId"`
	Quantity    int64  `json:"quantity"`
	ReferenceID string `json:"referenceId" validate:"omitempty,max=128"`
	Notes       string `json:"notes" validate:"omitempty,max=1000"`
}

type AdjustInput struct {
	StoreID   int64 `json:"storeId"`
	ProductID int64 `json:"productId"`
	Delta     int64 `json:"delta"`
	// ExpectedVersion makes the adjustment conditional. A mismatch is
	// reported immediately rather than retried.
	ExpectedVersion *int64 `json:"expectedVersion" validate:"omitempty,gte=0"`
	ReferenceID     string `json:"referenceId" validate:"omitempty,max=128"`
	Notes           string `json:"notes" validate:"omitempty,max=1000"`
}

type TransferInput struct {
	SourceStoreID int64  `json:"sourceStoreId"`
	DestStoreID   int64  `json:"destStoreId"`
	ProductID     int64  `json:"productId"`
	Quantity      int64  `json:"quantity"`
	ReferenceID   string `json:"referenceId" validate:"omitempty,max=128"`
	Notes         string `json:"notes" validate:"omitempty,max=1000"`
}
