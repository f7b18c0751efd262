package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionStockIn     TransactionType = "STOCK_IN"
	TransactionStockOut    TransactionType = "STOCK_OUT"
	TransactionAdjustment  TransactionType = "ADJUSTMENT"
	TransactionTransfer    TransactionType = "TRANSFER"
	TransactionReservation TransactionType = "RESERVATION"
	TransactionRelease     TransactionType = "RELEASE"
)

var transactionTypes = map[TransactionType]struct{}{
	TransactionStockIn:     {},
	TransactionStockOut:    {},
	TransactionAdjustment:  {},
	TransactionTransfer:    {},
	TransactionReservation: {},
	TransactionRelease:     {},
}

func (t TransactionType) Valid() bool {
	_, ok := transactionTypes[t]
	return ok
}

// Transaction is an immutable ledger entry. Quantity is always positive;
// QuantityChange carries the signed delta that was applied.
type Transaction struct {
	ID                string          `db:"id" json:"id"`
	Seq               int64           `db:"seq" json:"-"`
	Type              TransactionType `db:"type" json:"type"`
	StoreID           int64           `db:"store_id" json:"storeId"`
	ProductID         int64           `db:"product_id" json:"productId"`
	Quantity          int64           `db:"quantity" json:"quantity"`
	QuantityChange    int64           `db:"quantity_change" json:"quantityChange"`
	ReferenceID       *string         `db:"reference_id" json:"referenceId,omitempty"`
	Notes             *string         `db:"notes" json:"notes,omitempty"`
	ResultingQuantity int64           `db:"resulting_quantity" json:"resultingQuantity"`
	CreatedAt         time.Time       `db:"created_at" json:"timestamp"`
}

// NewTransaction builds a ledger entry for a signed delta. Empty reference and
// notes are stored as NULL.
func NewTransaction(typ TransactionType, storeID, productID, delta int64, referenceID, notes string) *Transaction {
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	t := &Transaction{
		ID:             uuid.New().String(),
		Type:           typ,
		StoreID:        storeID,
		ProductID:      productID,
		Quantity:       qty,
		QuantityChange: delta,
	}
	if referenceID != "" {
		t.ReferenceID = &referenceID
	}
	if notes != "" {
		t.Notes = &notes
	}
	return t
}

func (t *Transaction) Reference() string {
	if t.ReferenceID == nil {
		return ""
	}
	return *t.ReferenceID
}
