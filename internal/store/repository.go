package store

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	// FindByID returns nil, nil when the store does not exist.
	FindByID(ctx context.Context, id int64) (*model.Store, error)
	FindAll(ctx context.Context) ([]model.Store, error)
}
