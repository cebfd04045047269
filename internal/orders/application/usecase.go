package application

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"go-shop/internal/orders/domain"
	"go-shop/internal/orders/ports"
	"go-shop/pkg/errors"
	"go-shop/pkg/logger"
	"go-shop/pkg/metrics"
)

// OrderUseCase coordinates order placement: stock validation and decrement,
// price aggregation, coupon discounting, persistence and stock broadcast.
type OrderUseCase struct {
	repo       ports.OrderRepository
	catalog    ports.CatalogStore
	coupons    ports.CouponStore
	publisher  ports.StockPublisher
	users      ports.UserDirectory
	renderer   ports.InvoiceRenderer
	metrics    *metrics.ShopMetrics
	retries    int
	retryDelay time.Duration
	log        *logger.Logger
}

// NewOrderUseCase creates a new order use case. retries bounds the number of
// attempts per stock adjustment when the catalog store is unavailable.
func NewOrderUseCase(
	repo ports.OrderRepository,
	catalog ports.CatalogStore,
	coupons ports.CouponStore,
	publisher ports.StockPublisher,
	users ports.UserDirectory,
	renderer ports.InvoiceRenderer,
	m *metrics.ShopMetrics,
	retries int,
	retryDelay time.Duration,
	log *logger.Logger,
) *OrderUseCase {
	if retries < 1 {
		retries = 1
	}
	return &OrderUseCase{
		repo:       repo,
		catalog:    catalog,
		coupons:    coupons,
		publisher:  publisher,
		users:      users,
		renderer:   renderer,
		metrics:    m,
		retries:    retries,
		retryDelay: retryDelay,
		log:        log,
	}
}

// PlaceOrderInput represents an order placement request
type PlaceOrderInput struct {
	UserID     uint
	Items      []domain.LineItem
	CouponCode string
}

// deduction is one entry of the rollback log: a stock decrement already
// applied in this request, with the product snapshot taken at decrement time.
type deduction struct {
	productID uint
	quantity  int
	snapshot  *ports.ProductSnapshot
}

// PlaceOrder validates and decrements stock per line item, computes the
// total from prices captured at decrement time, applies the coupon, persists
// the order and broadcasts the new stock levels.
//
// There is no cross-store transaction: decrements already applied are undone
// with compensating increments when a later step fails, so either the whole
// order takes effect or the catalog is restored to its pre-call values.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if err := domain.ValidateLineItems(input.Items); err != nil {
		uc.countFailure(err)
		return nil, err
	}

	// Step 1: sequential check-and-decrement per line item, keeping an
	// explicit rollback log.
	applied := make([]deduction, 0, len(input.Items))
	for _, item := range input.Items {
		snapshot, err := uc.deductWithRetry(ctx, item.ProductID, item.Quantity)
		if err != nil {
			if rbErr := uc.rollback(ctx, applied); rbErr != nil {
				uc.countFailure(rbErr)
				return nil, rbErr
			}
			uc.countFailure(err)
			return nil, err
		}
		applied = append(applied, deduction{
			productID: item.ProductID,
			quantity:  item.Quantity,
			snapshot:  snapshot,
		})
	}

	// Step 2: aggregate the total from prices captured at decrement time.
	items := make([]domain.OrderItem, len(applied))
	total := 0.0
	for i, d := range applied {
		items[i] = domain.OrderItem{
			ProductID: d.productID,
			Quantity:  d.quantity,
			UnitPrice: d.snapshot.Price,
		}
		total += items[i].Subtotal()
	}

	// Step 3: resolve the coupon. An unknown code is not an error: the
	// order proceeds without a discount and with an empty coupon field.
	couponCode := ""
	if input.CouponCode != "" {
		discount, err := uc.coupons.FindByCode(ctx, input.CouponCode)
		switch {
		case err == nil:
			total = domain.ApplyDiscount(total, discount)
			couponCode = input.CouponCode
		case errors.Is(err, errors.CodeNotFound):
			uc.log.WithContext(ctx).Info("coupon code did not resolve, order proceeds without discount",
				zap.String("code", input.CouponCode),
			)
		default:
			if rbErr := uc.rollback(ctx, applied); rbErr != nil {
				uc.countFailure(rbErr)
				return nil, rbErr
			}
			uc.countFailure(err)
			return nil, err
		}
	}

	// Step 4: persist. A failed write also compensates the decrements.
	order := &domain.Order{
		UserID:     input.UserID,
		Items:      items,
		Total:      total,
		CouponCode: couponCode,
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		if rbErr := uc.rollback(ctx, applied); rbErr != nil {
			uc.countFailure(rbErr)
			return nil, rbErr
		}
		wrapped := errors.Wrap(err, "failed to persist order")
		uc.countFailure(wrapped)
		return nil, wrapped
	}

	// Step 5: best-effort stock notifications, one per line item. Failures
	// are logged and never roll back the order.
	for _, d := range applied {
		if uc.publisher == nil {
			break
		}
		if err := uc.publisher.PublishStockUpdated(ctx, d.productID, d.snapshot.Stock); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish stock update",
				zap.Error(err),
				zap.Uint("product_id", d.productID),
				zap.Uint("order_id", order.ID),
			)
			if uc.metrics != nil {
				uc.metrics.StockNotifyFailed()
			}
		} else if uc.metrics != nil {
			uc.metrics.StockNotified()
		}
	}

	if uc.metrics != nil {
		uc.metrics.OrderPlaced()
	}
	uc.log.WithContext(ctx).Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", order.UserID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)),
		zap.String("coupon", order.CouponCode),
	)

	return order, nil
}

// deductWithRetry retries a stock decrement a bounded number of times while
// the catalog store reports itself unavailable. Validation outcomes (not
// found, insufficient stock) are returned immediately.
func (uc *OrderUseCase) deductWithRetry(ctx context.Context, productID uint, quantity int) (*ports.ProductSnapshot, error) {
	var lastErr error
	for attempt := 0; attempt < uc.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.NewUnavailable("stock adjustment cancelled", ctx.Err())
			case <-time.After(uc.retryDelay):
			}
		}

		snapshot, err := uc.catalog.DeductStock(ctx, productID, quantity)
		if err == nil {
			return snapshot, nil
		}
		if !errors.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		uc.log.WithContext(ctx).Warn("stock decrement failed, retrying",
			zap.Error(err),
			zap.Uint("product_id", productID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

// rollback compensates every decrement in the log, newest first. Each
// restore is retried to completion within the bounded policy; if any cannot
// complete the caller gets a fatal aborted error, since the catalog is left
// inconsistent and needs manual reconciliation.
func (uc *OrderUseCase) rollback(ctx context.Context, applied []deduction) error {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]

		var lastErr error
		restored := false
		for attempt := 0; attempt < uc.retries; attempt++ {
			if attempt > 0 {
				time.Sleep(uc.retryDelay)
			}
			if err := uc.catalog.RestoreStock(ctx, d.productID, d.quantity); err != nil {
				lastErr = err
				continue
			}
			restored = true
			break
		}

		if !restored {
			uc.log.WithContext(ctx).Error("stock rollback could not complete",
				zap.Error(lastErr),
				zap.Uint("product_id", d.productID),
				zap.Int("quantity", d.quantity),
			)
			return domain.NewOrderAborted(d.productID, d.quantity)
		}
	}

	if len(applied) > 0 && uc.metrics != nil {
		uc.metrics.OrderRolledBack()
	}
	return nil
}

// GetUserOrders retrieves the caller's orders with products resolved
func (uc *OrderUseCase) GetUserOrders(ctx context.Context, userID uint) ([]*ports.ResolvedOrder, error) {
	orders, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*ports.ResolvedOrder, len(orders))
	for i, order := range orders {
		resolved[i] = uc.resolve(ctx, order, false)
	}
	return resolved, nil
}

// ListAllOrders retrieves every order with products and users resolved
// (admin view).
func (uc *OrderUseCase) ListAllOrders(ctx context.Context) ([]*ports.ResolvedOrder, error) {
	orders, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]*ports.ResolvedOrder, len(orders))
	for i, order := range orders {
		resolved[i] = uc.resolve(ctx, order, true)
	}
	return resolved, nil
}

// InvoiceInput identifies the order and the caller requesting the invoice
type InvoiceInput struct {
	OrderID uint
	UserID  uint
	Admin   bool
}

// GetInvoice renders the invoice for an order the caller owns (or any order
// for an admin).
func (uc *OrderUseCase) GetInvoice(ctx context.Context, input InvoiceInput) ([]byte, error) {
	order, err := uc.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != input.UserID && !input.Admin {
		return nil, domain.NewNotOrderOwner(order.ID)
	}

	resolved := uc.resolve(ctx, order, true)
	return uc.renderer.Render(resolved)
}

// resolve joins the order's items with current product records. Product data
// may have changed since placement; the join is for display only, the
// recorded unit prices stay authoritative. A product that fails to resolve
// leaves a nil Product rather than failing the whole view.
func (uc *OrderUseCase) resolve(ctx context.Context, order *domain.Order, withUser bool) *ports.ResolvedOrder {
	resolved := &ports.ResolvedOrder{Order: order}

	resolved.Items = make([]ports.ResolvedItem, len(order.Items))
	for i, item := range order.Items {
		resolved.Items[i] = ports.ResolvedItem{OrderItem: item}
		product, err := uc.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			uc.log.WithContext(ctx).Warn("failed to resolve product for order",
				zap.Error(err),
				zap.Uint("order_id", order.ID),
				zap.Uint("product_id", item.ProductID),
			)
			continue
		}
		resolved.Items[i].Product = product
	}

	if withUser && uc.users != nil {
		user, err := uc.users.GetUser(ctx, order.UserID)
		if err != nil {
			uc.log.WithContext(ctx).Warn("failed to resolve user for order",
				zap.Error(err),
				zap.Uint("order_id", order.ID),
				zap.Uint("user_id", order.UserID),
			)
		} else {
			resolved.User = user
		}
	}

	return resolved
}

func (uc *OrderUseCase) countFailure(err error) {
	if uc.metrics == nil {
		return
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		uc.metrics.OrderFailed(appErr.Code)
		return
	}
	uc.metrics.OrderFailed(errors.CodeInternal)
}
