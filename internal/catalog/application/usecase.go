package application

import (
	"context"

	"go.uber.org/zap"

	"go-shop/internal/catalog/domain"
	"go-shop/internal/catalog/ports"
	"go-shop/pkg/logger"
)

// ProductUseCase handles catalog business logic
type ProductUseCase struct {
	repo     ports.ProductRepository
	notifier ports.StockNotifier
	log      *logger.Logger
}

// NewProductUseCase creates a new product use case
func NewProductUseCase(repo ports.ProductRepository, notifier ports.StockNotifier, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// CreateProductInput represents the input for creating a product
type CreateProductInput struct {
	Name  string
	Price float64
	Stock int
}

// CreateProduct creates a new product
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Float64("price", product.Price),
		zap.Int("stock", product.Stock),
	)

	return product, nil
}

// GetProduct retrieves a product by ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListProducts retrieves all live products
func (uc *ProductUseCase) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return uc.repo.List(ctx)
}

// UpdateProductInput represents the input for overwriting a product
type UpdateProductInput struct {
	ID    uint
	Name  string
	Price float64
	Stock int
}

// UpdateProduct overwrites product fields (administrative path)
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, input UpdateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:    input.ID,
		Name:  input.Name,
		Price: input.Price,
		Stock: input.Stock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, input.ID)
}

// DeleteProduct soft-deletes a product so historical orders keep resolving it
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.WithContext(ctx).Info("product deleted", zap.Uint("product_id", id))
	return nil
}

// SetStockInput represents the input for setting a product's stock
type SetStockInput struct {
	ID    uint
	Stock int
}

// SetStock sets the absolute stock value and broadcasts the change to the
// product's topic. The notification is best-effort and never fails the update.
func (uc *ProductUseCase) SetStock(ctx context.Context, input SetStockInput) (*domain.Product, error) {
	if input.Stock < 0 {
		return nil, domain.ErrNegativeStock
	}

	product, err := uc.repo.SetStock(ctx, input.ID, input.Stock)
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.PublishStockUpdated(ctx, product.ID, product.Stock); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish stock update",
				zap.Error(err),
				zap.Uint("product_id", product.ID),
			)
		}
	}

	uc.log.WithContext(ctx).Info("stock updated",
		zap.Uint("product_id", product.ID),
		zap.Int("stock", product.Stock),
	)

	return product, nil
}
