package ports

import (
	"context"

	"go-shop/internal/catalog/domain"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a live product by ID
	GetByID(ctx context.Context, id uint) (*domain.Product, error)

	// GetByIDAny retrieves a product by ID including soft-deleted ones.
	// Historical orders keep resolving products that were removed from sale.
	GetByIDAny(ctx context.Context, id uint) (*domain.Product, error)

	// List retrieves all live products
	List(ctx context.Context) ([]*domain.Product, error)

	// Update overwrites product fields (administrative path)
	Update(ctx context.Context, product *domain.Product) error

	// Delete soft-deletes a product by ID
	Delete(ctx context.Context, id uint) error

	// AdjustStock atomically applies a stock delta (negative to decrement,
	// positive to restock/roll back). The call fails with a conflict rather
	// than letting stock go below zero, and is linearizable per product ID.
	// Returns the product as of immediately after the adjustment, so the
	// caller gets the unit price and new stock captured at decrement time.
	AdjustStock(ctx context.Context, id uint, delta int) (*domain.Product, error)

	// SetStock sets the absolute stock value (administrative path)
	SetStock(ctx context.Context, id uint, stock int) (*domain.Product, error)
}

// StockNotifier publishes best-effort stock change notifications
type StockNotifier interface {
	// PublishStockUpdated publishes the new stock level for a product
	PublishStockUpdated(ctx context.Context, productID uint, stock int) error
}
