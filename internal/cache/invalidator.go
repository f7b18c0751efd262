package cache

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Invalidator evicts inventory keys for every published movement. Deleting a
// key twice is harmless, so duplicate deliveries need no bookkeeping.
type Invalidator struct {
	layer *Layer
}

func NewInvalidator(layer *Layer) *Invalidator {
	return &Invalidator{layer: layer}
}

func (i *Invalidator) Name() string {
	return "cache-invalidator"
}

func (i *Invalidator) Handle(ctx context.Context, ev model.InventoryEvent) error {
	return i.layer.Invalidate(ctx, MovementKeys(ev.StoreID, ev.ProductID)...)
}
