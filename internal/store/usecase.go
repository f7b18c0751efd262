package store

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	GetStore(ctx context.Context, id int64) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
}
