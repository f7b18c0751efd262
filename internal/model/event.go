package model

import "time"

// InventoryEvent is published once per accepted movement.
type InventoryEvent struct {
	EventID           string          `json:"eventId"`
	Type              TransactionType `json:"type"`
	StoreID           int64           `json:"storeId"`
	ProductID         int64           `json:"productId"`
	Quantity          int64           `json:"quantity"`
	QuantityChange    int64           `json:"quantityChange"`
	ReferenceID       string          `json:"referenceId,omitempty"`
	TransactionID     string          `json:"transactionId"`
	ResultingQuantity int64           `json:"resultingQuantity"`
	Version           int64           `json:"version"`
	Timestamp         time.Time       `json:"timestamp"`
}
