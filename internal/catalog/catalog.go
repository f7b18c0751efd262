// Package catalog answers the reference questions inventory movements ask
// about stores and products.
package catalog

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/store"
)

type Catalog struct {
	stores   store.UseCase
	products product.UseCase
}

func New(stores store.UseCase, products product.UseCase) *Catalog {
	return &Catalog{stores: stores, products: products}
}

func (c *Catalog) StoreExists(ctx context.Context, id int64) (bool, error) {
	_, err := c.stores.GetStore(ctx, id)
	return exists(err)
}

func (c *Catalog) ProductExists(ctx context.Context, id int64) (bool, error) {
	_, err := c.products.GetProduct(ctx, id)
	return exists(err)
}

// ProductDetails returns nil, nil for unknown products.
func (c *Catalog) ProductDetails(ctx context.Context, id int64) (*model.ProductDetails, error) {
	p, err := c.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p.Details(), nil
}

func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperror.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
