package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-shop/internal/orders/domain"
	apperrors "go-shop/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID         uint             `gorm:"primaryKey"`
	UserID     uint             `gorm:"index;not null"`
	Total      float64          `gorm:"not null"`
	CouponCode string           `gorm:"size:64"`
	Items      []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM model for order line items
type OrderItemModel struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// Create persists a new order with its items in one transaction
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toModel(order)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewUnavailable("failed to create order", result.Error)
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt

	return nil
}

// GetByID retrieves an order by ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).Preload("Items").First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewUnavailable("failed to get order", result.Error)
	}

	return toDomain(&model), nil
}

// GetByUserID retrieves orders for a user, newest first
func (r *PostgresOrderRepository) GetByUserID(ctx context.Context, userID uint) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewUnavailable("failed to get orders by user", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i, model := range models {
		orders[i] = toDomain(&model)
	}

	return orders, nil
}

// List retrieves all orders, newest first (admin view)
func (r *PostgresOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).Preload("Items").
		Order("created_at desc").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewUnavailable("failed to list orders", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i, model := range models {
		orders[i] = toDomain(&model)
	}

	return orders, nil
}

// toModel converts a domain entity to a GORM model
func toModel(order *domain.Order) *OrderModel {
	items := make([]OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemModel{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &OrderModel{
		ID:         order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		CouponCode: order.CouponCode,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &domain.Order{
		ID:         model.ID,
		UserID:     model.UserID,
		Total:      model.Total,
		CouponCode: model.CouponCode,
		Items:      items,
		CreatedAt:  model.CreatedAt,
	}
}
