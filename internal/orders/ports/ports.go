package ports

import (
	"context"

	"go-shop/internal/orders/domain"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create persists a new order with its items, assigning ID and timestamp
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id uint) (*domain.Order, error)

	// GetByUserID retrieves orders for a user
	GetByUserID(ctx context.Context, userID uint) ([]*domain.Order, error)

	// List retrieves all orders (admin view)
	List(ctx context.Context) ([]*domain.Order, error)
}

// ProductSnapshot is the product state as of a stock adjustment: the unit
// price and stock captured at decrement time.
type ProductSnapshot struct {
	ID    uint
	Name  string
	Price float64
	Stock int
}

// CatalogStore is the order processor's view of the catalog. DeductStock and
// RestoreStock must be linearizable per product ID and must never let stock
// go negative.
type CatalogStore interface {
	// GetProduct retrieves a product for display purposes, including ones
	// removed from sale after the order was placed.
	GetProduct(ctx context.Context, id uint) (*ProductSnapshot, error)

	// DeductStock atomically decrements stock by quantity, failing with a
	// conflict if the remaining stock is insufficient. Returns the snapshot
	// taken immediately after the decrement.
	DeductStock(ctx context.Context, id uint, quantity int) (*ProductSnapshot, error)

	// RestoreStock adds quantity back to stock (compensating action)
	RestoreStock(ctx context.Context, id uint, quantity int) error
}

// CouponStore resolves coupon codes to discount percentages
type CouponStore interface {
	// FindByCode returns the discount for a code, or a not found error
	FindByCode(ctx context.Context, code string) (float64, error)
}

// StockPublisher publishes best-effort stock change notifications
type StockPublisher interface {
	// PublishStockUpdated publishes the new stock level for a product
	PublishStockUpdated(ctx context.Context, productID uint, stock int) error
}

// UserDirectory resolves user IDs for the admin order view
type UserDirectory interface {
	// GetUser retrieves user information by ID
	GetUser(ctx context.Context, userID uint) (*UserInfo, error)
}

// UserInfo represents user information joined onto an order
type UserInfo struct {
	ID    uint
	Name  string
	Email string
}

// ResolvedItem is a line item joined with the current product record
type ResolvedItem struct {
	domain.OrderItem
	Product *ProductSnapshot
}

// ResolvedOrder is an order with products (and optionally the user) joined
type ResolvedOrder struct {
	Order *domain.Order
	Items []ResolvedItem
	User  *UserInfo
}

// InvoiceRenderer serializes a resolved order to a document byte stream.
// Pure function of its input, no state.
type InvoiceRenderer interface {
	Render(order *ResolvedOrder) ([]byte, error)
}
