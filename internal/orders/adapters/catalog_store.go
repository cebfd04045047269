package adapters

import (
	"context"

	catalogdomain "go-shop/internal/catalog/domain"
	catalogports "go-shop/internal/catalog/ports"
	"go-shop/internal/orders/ports"
)

// CatalogStoreAdapter implements the order processor's CatalogStore against
// the in-process catalog repository. Atomicity of DeductStock comes from the
// repository's conditional update, not from this adapter.
type CatalogStoreAdapter struct {
	products catalogports.ProductRepository
}

// NewCatalogStoreAdapter creates a new catalog store adapter
func NewCatalogStoreAdapter(products catalogports.ProductRepository) *CatalogStoreAdapter {
	return &CatalogStoreAdapter{products: products}
}

// GetProduct retrieves a product including soft-deleted ones, since orders
// keep referencing products removed from sale.
func (a *CatalogStoreAdapter) GetProduct(ctx context.Context, id uint) (*ports.ProductSnapshot, error) {
	product, err := a.products.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSnapshot(product), nil
}

// DeductStock atomically decrements stock by quantity
func (a *CatalogStoreAdapter) DeductStock(ctx context.Context, id uint, quantity int) (*ports.ProductSnapshot, error) {
	product, err := a.products.AdjustStock(ctx, id, -quantity)
	if err != nil {
		return nil, err
	}
	return toSnapshot(product), nil
}

// RestoreStock adds quantity back to stock
func (a *CatalogStoreAdapter) RestoreStock(ctx context.Context, id uint, quantity int) error {
	_, err := a.products.AdjustStock(ctx, id, quantity)
	return err
}

func toSnapshot(product *catalogdomain.Product) *ports.ProductSnapshot {
	return &ports.ProductSnapshot{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}
}
