package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Store is a key/value cache with a per-key generation counter. Invalidate
// advances the generation, and SetIfGeneration only writes when the caller's
// generation is still current and the key is absent, so a value loaded before
// an invalidation can never be written after it.
type Store interface {
	// Get returns the value and the key's current generation. On a miss the
	// error is ErrCacheMiss and the generation is still valid.
	Get(ctx context.Context, key string) ([]byte, uint64, error)
	SetIfGeneration(ctx context.Context, key string, value []byte, generation uint64, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
}

type Class string

const (
	ClassCatalog    Class = "catalog"
	ClassCategories Class = "categories"
	ClassInventory  Class = "inventory"
	ClassLowStock   Class = "low_stock"
)

type TTLs struct {
	Catalog    time.Duration
	Categories time.Duration
	Inventory  time.Duration
	LowStock   time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Catalog:    60 * time.Minute,
		Categories: 30 * time.Minute,
		Inventory:  5 * time.Minute,
		LowStock:   2 * time.Minute,
	}
}

func (t TTLs) For(class Class) time.Duration {
	switch class {
	case ClassCatalog:
		return t.Catalog
	case ClassCategories:
		return t.Categories
	case ClassLowStock:
		return t.LowStock
	default:
		return t.Inventory
	}
}
