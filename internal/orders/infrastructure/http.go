package infrastructure

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-shop/internal/orders/application"
	"go-shop/internal/orders/domain"
	"go-shop/internal/orders/ports"
	"go-shop/pkg/errors"
	"go-shop/pkg/middleware"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the order routes. All routes require auth; the
// admin listing additionally requires the admin role.
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.GetMyOrders)
		orders.GET("/:id/invoice", h.GetInvoice)
	}
	r.GET("/admin/orders", admin, h.ListAllOrders)
}

// OrderItemRequest is one line item of a placement request
type OrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// PlaceOrderRequest is the request body for placing an order
type PlaceOrderRequest struct {
	Products   []OrderItemRequest `json:"products" binding:"required"`
	CouponCode string             `json:"couponCode"`
}

// OrderItemResponse is one line item of an order response
type OrderItemResponse struct {
	ProductID uint             `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice float64          `json:"unitPrice"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// ProductResponse is the resolved product view joined onto a line item
type ProductResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// UserResponse is the resolved user view joined onto an order (admin only)
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID         uint                `json:"id"`
	UserID     uint                `json:"userId"`
	Items      []OrderItemResponse `json:"items"`
	Total      float64             `json:"total"`
	CouponCode string              `json:"couponCode,omitempty"`
	CreatedAt  string              `json:"createdAt"`
	User       *UserResponse       `json:"user,omitempty"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return OrderResponse{
		ID:         order.ID,
		UserID:     order.UserID,
		Items:      items,
		Total:      order.Total,
		CouponCode: order.CouponCode,
		CreatedAt:  order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toResolvedResponse(resolved *ports.ResolvedOrder) OrderResponse {
	response := toOrderResponse(resolved.Order)
	for i, item := range resolved.Items {
		if item.Product == nil {
			continue
		}
		response.Items[i].Product = &ProductResponse{
			ID:    item.Product.ID,
			Name:  item.Product.Name,
			Price: item.Product.Price,
			Stock: item.Product.Stock,
		}
	}
	if resolved.User != nil {
		response.User = &UserResponse{
			ID:    resolved.User.ID,
			Name:  resolved.User.Name,
			Email: resolved.User.Email,
		}
	}
	return response
}

// PlaceOrder handles POST /orders
func (h *HTTPHandler) PlaceOrder(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Error(errors.NewUnauthorized("authentication required"))
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	items := make([]domain.LineItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = domain.LineItem{ProductID: p.ProductID, Quantity: p.Quantity}
	}

	order, err := h.useCase.PlaceOrder(c.Request.Context(), application.PlaceOrderInput{
		UserID:     principal.UserID,
		Items:      items,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "order placed",
		"order":    toOrderResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetMyOrders handles GET /orders
func (h *HTTPHandler) GetMyOrders(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Error(errors.NewUnauthorized("authentication required"))
		return
	}

	resolved, err := h.useCase.GetUserOrders(c.Request.Context(), principal.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]OrderResponse, len(resolved))
	for i, order := range resolved {
		responses[i] = toResolvedResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListAllOrders handles GET /admin/orders
func (h *HTTPHandler) ListAllOrders(c *gin.Context) {
	resolved, err := h.useCase.ListAllOrders(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]OrderResponse, len(resolved))
	for i, order := range resolved {
		responses[i] = toResolvedResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetInvoice handles GET /orders/:id/invoice
func (h *HTTPHandler) GetInvoice(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Error(errors.NewUnauthorized("authentication required"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return
	}

	data, err := h.useCase.GetInvoice(c.Request.Context(), application.InvoiceInput{
		OrderID: uint(id),
		UserID:  principal.UserID,
		Admin:   principal.IsAdmin(),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
