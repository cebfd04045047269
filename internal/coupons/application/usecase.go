package application

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-shop/internal/coupons/domain"
	"go-shop/internal/coupons/ports"
	"go-shop/pkg/logger"
)

// CouponUseCase handles coupon business logic
type CouponUseCase struct {
	repo ports.CouponRepository
	log  *logger.Logger
}

// NewCouponUseCase creates a new coupon use case
func NewCouponUseCase(repo ports.CouponRepository, log *logger.Logger) *CouponUseCase {
	return &CouponUseCase{
		repo: repo,
		log:  log,
	}
}

// CreateCouponInput represents the input for creating a coupon
type CreateCouponInput struct {
	Code     string
	Discount float64
}

// CreateCoupon creates a new coupon
func (uc *CouponUseCase) CreateCoupon(ctx context.Context, input CreateCouponInput) (*domain.Coupon, error) {
	coupon, err := domain.NewCoupon(input.Code, input.Discount)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("coupon created",
		zap.String("code", coupon.Code),
		zap.Float64("discount", coupon.Discount),
	)

	return coupon, nil
}

// GetCoupon retrieves a coupon by code
func (uc *CouponUseCase) GetCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	return uc.repo.GetByCode(ctx, normalize(code))
}

// ListCoupons retrieves all coupons
func (uc *CouponUseCase) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	return uc.repo.List(ctx)
}

// DeleteCoupon deletes a coupon by code
func (uc *CouponUseCase) DeleteCoupon(ctx context.Context, code string) error {
	if err := uc.repo.DeleteByCode(ctx, normalize(code)); err != nil {
		return err
	}

	uc.log.WithContext(ctx).Info("coupon deleted", zap.String("code", normalize(code)))
	return nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
