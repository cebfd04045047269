package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-shop/internal/coupons/domain"
	apperrors "go-shop/pkg/errors"
)

// CouponModel is the GORM model for coupons (persistence layer)
type CouponModel struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:64;uniqueIndex;not null"`
	Discount  float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// PostgresCouponRepository implements CouponRepository using PostgreSQL
type PostgresCouponRepository struct {
	db *gorm.DB
}

// NewPostgresCouponRepository creates a new PostgreSQL coupon repository
func NewPostgresCouponRepository(db *gorm.DB) *PostgresCouponRepository {
	return &PostgresCouponRepository{db: db}
}

// Migrate runs auto-migration for the coupon model
func (r *PostgresCouponRepository) Migrate() error {
	return r.db.AutoMigrate(&CouponModel{})
}

// Create creates a new coupon
func (r *PostgresCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	model := &CouponModel{
		Code:     coupon.Code,
		Discount: coupon.Discount,
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewCouponExists(coupon.Code)
		}
		return apperrors.NewInternal("failed to create coupon", result.Error)
	}

	coupon.ID = model.ID
	coupon.CreatedAt = model.CreatedAt

	return nil
}

// GetByCode retrieves a coupon by its code
func (r *PostgresCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var model CouponModel

	result := r.db.WithContext(ctx).Where("code = ?", code).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewCouponNotFound(code)
		}
		return nil, apperrors.NewUnavailable("failed to get coupon", result.Error)
	}

	return &domain.Coupon{
		ID:        model.ID,
		Code:      model.Code,
		Discount:  model.Discount,
		CreatedAt: model.CreatedAt,
	}, nil
}

// List retrieves all coupons
func (r *PostgresCouponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	var models []CouponModel

	result := r.db.WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewUnavailable("failed to list coupons", result.Error)
	}

	coupons := make([]*domain.Coupon, len(models))
	for i, model := range models {
		coupons[i] = &domain.Coupon{
			ID:        model.ID,
			Code:      model.Code,
			Discount:  model.Discount,
			CreatedAt: model.CreatedAt,
		}
	}

	return coupons, nil
}

// DeleteByCode deletes a coupon by its code
func (r *PostgresCouponRepository) DeleteByCode(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&CouponModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete coupon", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewCouponNotFound(code)
	}
	return nil
}
