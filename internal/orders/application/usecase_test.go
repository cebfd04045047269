package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-shop/internal/orders/domain"
	"go-shop/internal/orders/ports"
	"go-shop/pkg/errors"
	"go-shop/pkg/logger"
)

// MockCatalogStore is a mock implementation of CatalogStore. The mutex gives
// per-product adjustments the same linearizability the real conditional
// update provides.
type MockCatalogStore struct {
	mu       sync.Mutex
	products map[uint]*ports.ProductSnapshot

	// failDeducts makes the next N DeductStock calls fail as unavailable
	failDeducts int
	// failRestores makes every RestoreStock call fail as unavailable
	failRestores bool
	restoreCalls int
}

func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{
		products: make(map[uint]*ports.ProductSnapshot),
	}
}

func (m *MockCatalogStore) AddProduct(id uint, name string, price float64, stock int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id] = &ports.ProductSnapshot{ID: id, Name: name, Price: price, Stock: stock}
}

func (m *MockCatalogStore) Stock(id uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *MockCatalogStore) GetProduct(ctx context.Context, id uint) (*ports.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, errors.NewNotFound("product", id)
	}
	snapshot := *product
	return &snapshot, nil
}

func (m *MockCatalogStore) DeductStock(ctx context.Context, id uint, quantity int) (*ports.ProductSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDeducts > 0 {
		m.failDeducts--
		return nil, errors.NewUnavailable("catalog store timeout", nil)
	}

	product, ok := m.products[id]
	if !ok {
		return nil, errors.NewNotFound("product", id)
	}
	if product.Stock < quantity {
		return nil, errors.NewConflict("insufficient stock", map[string]interface{}{
			"product_id": id,
		})
	}

	product.Stock -= quantity
	snapshot := *product
	return &snapshot, nil
}

func (m *MockCatalogStore) RestoreStock(ctx context.Context, id uint, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.restoreCalls++
	if m.failRestores {
		return errors.NewUnavailable("catalog store timeout", nil)
	}

	product, ok := m.products[id]
	if !ok {
		return errors.NewNotFound("product", id)
	}
	product.Stock += quantity
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mu         sync.Mutex
	orders     map[uint]*domain.Order
	nextID     uint
	failCreate bool
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]*domain.Order),
		nextID: 1,
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate {
		return errors.NewUnavailable("order store timeout", nil)
	}

	order.ID = m.nextID
	order.CreatedAt = time.Now()
	m.nextID++
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	return order, nil
}

func (m *MockOrderRepository) GetByUserID(ctx context.Context, userID uint) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.Order
	for _, order := range m.orders {
		result = append(result, order)
	}
	return result, nil
}

func (m *MockOrderRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// MockCouponStore is a mock implementation of CouponStore
type MockCouponStore struct {
	coupons map[string]float64
}

func NewMockCouponStore() *MockCouponStore {
	return &MockCouponStore{coupons: map[string]float64{
		"SAVE10": 10,
	}}
}

func (m *MockCouponStore) FindByCode(ctx context.Context, code string) (float64, error) {
	discount, ok := m.coupons[code]
	if !ok {
		return 0, errors.NewNotFound("coupon", code)
	}
	return discount, nil
}

// MockStockPublisher is a mock implementation of StockPublisher
type MockStockPublisher struct {
	mu          sync.Mutex
	published   []publishedStock
	failPublish bool
}

type publishedStock struct {
	productID uint
	stock     int
}

func (m *MockStockPublisher) PublishStockUpdated(ctx context.Context, productID uint, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPublish {
		return errors.NewInternal("broker down", nil)
	}
	m.published = append(m.published, publishedStock{productID: productID, stock: stock})
	return nil
}

func (m *MockStockPublisher) Published() []publishedStock {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedStock(nil), m.published...)
}

// MockUserDirectory is a mock implementation of UserDirectory
type MockUserDirectory struct {
	users map[uint]*ports.UserInfo
}

func NewMockUserDirectory() *MockUserDirectory {
	return &MockUserDirectory{
		users: map[uint]*ports.UserInfo{
			1: {ID: 1, Name: "John Doe", Email: "john@example.com"},
		},
	}
}

func (m *MockUserDirectory) GetUser(ctx context.Context, userID uint) (*ports.UserInfo, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, errors.NewNotFound("user", userID)
	}
	return user, nil
}

// MockInvoiceRenderer is a mock implementation of InvoiceRenderer
type MockInvoiceRenderer struct {
	rendered *ports.ResolvedOrder
}

func (m *MockInvoiceRenderer) Render(order *ports.ResolvedOrder) ([]byte, error) {
	m.rendered = order
	return []byte("%PDF-1.4 stub"), nil
}

type fixture struct {
	catalog   *MockCatalogStore
	repo      *MockOrderRepository
	coupons   *MockCouponStore
	publisher *MockStockPublisher
	users     *MockUserDirectory
	renderer  *MockInvoiceRenderer
	useCase   *OrderUseCase
}

func newFixture() *fixture {
	f := &fixture{
		catalog:   NewMockCatalogStore(),
		repo:      NewMockOrderRepository(),
		coupons:   NewMockCouponStore(),
		publisher: &MockStockPublisher{},
		users:     NewMockUserDirectory(),
		renderer:  &MockInvoiceRenderer{},
	}
	log := logger.New("test", "error", "json")
	f.useCase = NewOrderUseCase(
		f.repo, f.catalog, f.coupons, f.publisher, f.users, f.renderer,
		nil, 3, time.Millisecond, log,
	)
	return f
}

func TestPlaceOrder_Success(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)

	// Act
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 3}},
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.Total != 300 {
		t.Errorf("expected total 300, got %f", order.Total)
	}
	if order.ID == 0 {
		t.Error("expected an assigned order ID")
	}
	if len(order.Items) != 1 || order.Items[0].UnitPrice != 100 {
		t.Errorf("expected captured unit price 100, got %+v", order.Items)
	}
	if got := f.catalog.Stock(1); got != 2 {
		t.Errorf("expected stock 2 after order, got %d", got)
	}

	published := f.publisher.Published()
	if len(published) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(published))
	}
	if published[0].productID != 1 || published[0].stock != 2 {
		t.Errorf("expected notification (1, stock=2), got %+v", published[0])
	}
}

func TestPlaceOrder_CouponDiscount(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)

	// Act
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:     1,
		Items:      []domain.LineItem{{ProductID: 1, Quantity: 3}},
		CouponCode: "SAVE10",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if order.Total != 270 {
		t.Errorf("expected total 270 after 10%% discount, got %f", order.Total)
	}
	if order.CouponCode != "SAVE10" {
		t.Errorf("expected coupon code recorded, got %q", order.CouponCode)
	}
}

func TestPlaceOrder_UnknownCouponIgnored(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)

	// Act
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:     1,
		Items:      []domain.LineItem{{ProductID: 1, Quantity: 3}},
		CouponCode: "NOPE",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error for unknown coupon, got %v", err)
	}
	if order.Total != 300 {
		t.Errorf("expected full total 300, got %f", order.Total)
	}
	if order.CouponCode != "" {
		t.Errorf("expected empty coupon field, got %q", order.CouponCode)
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 2)

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 5}},
	})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if got := f.catalog.Stock(1); got != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got)
	}
	if f.repo.Count() != 0 {
		t.Errorf("expected no order persisted, got %d", f.repo.Count())
	}
	if len(f.publisher.Published()) != 0 {
		t.Error("expected no notifications for failed order")
	}
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 99, Quantity: 1}},
	})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestPlaceOrder_PartialFailureRollsBack(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	f.catalog.AddProduct(2, "Gadget", 50, 4)
	f.catalog.AddProduct(3, "Gizmo", 25, 1)

	// Act: third item is out of stock
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items: []domain.LineItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
			{ProductID: 3, Quantity: 2},
		},
	})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if got := f.catalog.Stock(1); got != 5 {
		t.Errorf("expected product 1 stock restored to 5, got %d", got)
	}
	if got := f.catalog.Stock(2); got != 4 {
		t.Errorf("expected product 2 stock restored to 4, got %d", got)
	}
	if got := f.catalog.Stock(3); got != 1 {
		t.Errorf("expected product 3 stock unchanged at 1, got %d", got)
	}
	if f.repo.Count() != 0 {
		t.Errorf("expected no order persisted, got %d", f.repo.Count())
	}
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  nil,
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPlaceOrder_NonPositiveQuantity(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 0}},
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if got := f.catalog.Stock(1); got != 5 {
		t.Errorf("expected stock untouched at 5, got %d", got)
	}
}

func TestPlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	f.publisher.failPublish = true

	// Act
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 3}},
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error despite publish failure, got %v", err)
	}
	if order.ID == 0 {
		t.Error("expected order persisted")
	}
	if got := f.catalog.Stock(1); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}
}

func TestPlaceOrder_RetriesUnavailable(t *testing.T) {
	// Arrange: store fails twice, succeeds on the third attempt
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	f.catalog.failDeducts = 2

	// Act
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 3}},
	})

	// Assert
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if order.Total != 300 {
		t.Errorf("expected total 300, got %f", order.Total)
	}
}

func TestPlaceOrder_UnavailableExhaustsRetries(t *testing.T) {
	// Arrange: store never recovers
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	f.catalog.failDeducts = 100

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 3}},
	})

	// Assert
	if !errors.Is(err, errors.CodeUnavailable) {
		t.Errorf("expected unavailable error, got %v", err)
	}
	if f.repo.Count() != 0 {
		t.Errorf("expected no order persisted, got %d", f.repo.Count())
	}
}

func TestPlaceOrder_RollbackFailureAborts(t *testing.T) {
	// Arrange: second item fails and the compensating restore cannot complete
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	f.catalog.AddProduct(2, "Gadget", 50, 0)
	f.catalog.failRestores = true

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items: []domain.LineItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})

	// Assert
	if !errors.Is(err, errors.CodeAborted) {
		t.Errorf("expected aborted error, got %v", err)
	}
	if f.catalog.restoreCalls == 0 {
		t.Error("expected restore attempts before aborting")
	}
	if f.repo.Count() != 0 {
		t.Errorf("expected no order persisted, got %d", f.repo.Count())
	}
}

func TestPlaceOrder_CreateFailureRollsBack(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	f.repo.failCreate = true

	// Act
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 3}},
	})

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := f.catalog.Stock(1); got != 5 {
		t.Errorf("expected stock restored to 5, got %d", got)
	}
	if len(f.publisher.Published()) != 0 {
		t.Error("expected no notifications after persistence failure")
	}
}

func TestPlaceOrder_ConcurrentOversubscription(t *testing.T) {
	// Arrange: 8 concurrent orders of 3 units against a stock of 10. Only a
	// valid sequential subset (3 orders, 9 units) can succeed.
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 10)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	// Act
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
				UserID: 1,
				Items:  []domain.LineItem{{ProductID: 1, Quantity: 3}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	// Assert
	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 3 {
		t.Errorf("expected exactly 3 successful orders, got %d", successes)
	}
	if conflicts != workers-3 {
		t.Errorf("expected %d insufficient-stock rejections, got %d", workers-3, conflicts)
	}
	if got := f.catalog.Stock(1); got != 1 {
		t.Errorf("expected final stock 1, got %d", got)
	}
	if got := f.repo.Count(); got != 3 {
		t.Errorf("expected 3 persisted orders, got %d", got)
	}
}

func TestGetUserOrders_ResolvesProducts(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	_, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	resolved, err := f.useCase.GetUserOrders(context.Background(), 1)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 order, got %d", len(resolved))
	}
	if resolved[0].Items[0].Product == nil {
		t.Fatal("expected product resolved on line item")
	}
	if resolved[0].Items[0].Product.Name != "Widget" {
		t.Errorf("expected product name Widget, got %q", resolved[0].Items[0].Product.Name)
	}
}

func TestGetInvoice_Forbidden(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act: a different, non-admin caller requests the invoice
	_, err = f.useCase.GetInvoice(context.Background(), InvoiceInput{
		OrderID: order.ID,
		UserID:  2,
		Admin:   false,
	})

	// Assert
	if !errors.Is(err, errors.CodeForbidden) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestGetInvoice_OwnerAndAdmin(t *testing.T) {
	// Arrange
	f := newFixture()
	f.catalog.AddProduct(1, "Widget", 100, 5)
	order, err := f.useCase.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: 1,
		Items:  []domain.LineItem{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act / Assert: owner
	data, err := f.useCase.GetInvoice(context.Background(), InvoiceInput{
		OrderID: order.ID,
		UserID:  1,
	})
	if err != nil {
		t.Fatalf("expected no error for owner, got %v", err)
	}
	if len(data) == 0 {
		t.Error("expected invoice bytes")
	}

	// Act / Assert: admin who does not own the order
	_, err = f.useCase.GetInvoice(context.Background(), InvoiceInput{
		OrderID: order.ID,
		UserID:  2,
		Admin:   true,
	})
	if err != nil {
		t.Fatalf("expected no error for admin, got %v", err)
	}
}

func TestGetInvoice_OrderNotFound(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	_, err := f.useCase.GetInvoice(context.Background(), InvoiceInput{
		OrderID: 42,
		UserID:  1,
	})

	// Assert
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
