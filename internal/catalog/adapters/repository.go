package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-shop/internal/catalog/domain"
	apperrors "go-shop/pkg/errors"
)

// ProductModel is the GORM model for products (persistence layer)
type ProductModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"size:255;not null"`
	Price     float64        `gorm:"not null"`
	Stock     int            `gorm:"not null;default:0;check:stock >= 0"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate runs auto-migration for the product model
func (r *PostgresProductRepository) Migrate() error {
	return r.db.AutoMigrate(&ProductModel{})
}

// Create creates a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toModel(product)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create product", result.Error)
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a live product by ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewUnavailable("failed to get product", result.Error)
	}

	return toDomain(&model), nil
}

// GetByIDAny retrieves a product by ID including soft-deleted ones
func (r *PostgresProductRepository) GetByIDAny(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).Unscoped().First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewUnavailable("failed to get product", result.Error)
	}

	return toDomain(&model), nil
}

// List retrieves all live products
func (r *PostgresProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel

	result := r.db.WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewUnavailable("failed to list products", result.Error)
	}

	products := make([]*domain.Product, len(models))
	for i, model := range models {
		products[i] = toDomain(&model)
	}

	return products, nil
}

// Update overwrites product fields
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	model := toModel(product)

	result := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":  model.Name,
			"price": model.Price,
			"stock": model.Stock,
		})
	if result.Error != nil {
		return apperrors.NewUnavailable("failed to update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewProductNotFound(product.ID)
	}

	return nil
}

// Delete soft-deletes a product by ID
func (r *PostgresProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.NewUnavailable("failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewProductNotFound(id)
	}
	return nil
}

// AdjustStock atomically applies a stock delta. A negative delta carries a
// floor guard in the WHERE clause, so concurrent decrements serialize at the
// database row and can never jointly drive stock below zero.
func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id uint, delta int) (*domain.Product, error) {
	var model ProductModel

	tx := r.db.WithContext(ctx).Model(&model).
		Clauses(clause.Returning{}).
		Where("id = ?", id)
	if delta < 0 {
		tx = tx.Where("stock >= ?", -delta)
	}

	result := tx.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return nil, apperrors.NewUnavailable("failed to adjust stock", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the product does not exist or the guard rejected the
		// decrement. Read the row to tell the two apart.
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, domain.NewInsufficientStock(id, -delta, current.Stock)
	}

	return toDomain(&model), nil
}

// SetStock sets the absolute stock value
func (r *PostgresProductRepository) SetStock(ctx context.Context, id uint, stock int) (*domain.Product, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).Model(&model).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumn("stock", stock)
	if result.Error != nil {
		return nil, apperrors.NewUnavailable("failed to set stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewProductNotFound(id)
	}

	return toDomain(&model), nil
}

// toModel converts a domain entity to a GORM model
func toModel(product *domain.Product) *ProductModel {
	return &ProductModel{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		Stock:     model.Stock,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
