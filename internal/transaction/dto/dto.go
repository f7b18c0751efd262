package dto

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// TransactionFilters narrows a ledger query. Zero values do not filter.
type TransactionFilters struct {
	Type        model.TransactionType
	StoreID     int64
	ProductID   int64
	ReferenceID string
	From        *time.Time
	To          *time.Time
	Limit       int
}
