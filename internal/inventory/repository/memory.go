package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
)

type rowKey struct {
	storeID   int64
	productID int64
}

// MemoryRepository keeps rows in a map guarded by one mutex. The ledger
// append happens under the same lock, so a row and its entries never
// disagree.
type MemoryRepository struct {
	mu     sync.Mutex
	rows   map[rowKey]*model.Inventory
	ledger transaction.Repository
	now    func() time.Time
}

func NewMemoryRepository(ledger transaction.Repository) *MemoryRepository {
	return &MemoryRepository{
		rows:   map[rowKey]*model.Inventory{},
		ledger: ledger,
		now:    time.Now,
	}
}

func (r *MemoryRepository) row(storeID, productID int64) *model.Inventory {
	k := rowKey{storeID, productID}
	inv, ok := r.rows[k]
	if !ok {
		inv = &model.Inventory{StoreID: storeID, ProductID: productID, UpdatedAt: r.now().UTC()}
		r.rows[k] = inv
	}
	return inv
}

func (r *MemoryRepository) Get(_ context.Context, storeID, productID int64) (*model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv := *r.row(storeID, productID)
	return &inv, nil
}

func (r *MemoryRepository) List(_ context.Context, f *dto.InventoryFilters) ([]model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Inventory{}
	for _, inv := range r.rows {
		if f.StoreID != 0 && inv.StoreID != f.StoreID {
			continue
		}
		if f.ProductID != 0 && inv.ProductID != f.ProductID {
			continue
		}
		if f.LowStockThreshold > 0 && inv.Quantity >= f.LowStockThreshold {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StoreID != out[j].StoreID {
			return out[i].StoreID < out[j].StoreID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (r *MemoryRepository) ApplyDelta(ctx context.Context, entry *model.Transaction, expectedVersion int64) (*model.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv := r.row(entry.StoreID, entry.ProductID)
	if inv.Version != expectedVersion {
		return nil, apperror.VersionConflict()
	}
	next := inv.Quantity + entry.QuantityChange
	if next < 0 {
		return nil, apperror.InsufficientStock()
	}

	now := r.now().UTC()
	entry.ResultingQuantity = next
	entry.CreatedAt = now
	if err := r.ledger.Append(ctx, entry); err != nil {
		return nil, err
	}

	inv.Quantity = next
	inv.Version++
	inv.UpdatedAt = now
	updated := *inv
	return &updated, nil
}
