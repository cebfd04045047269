package infrastructure

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-shop/internal/catalog/application"
	"go-shop/internal/catalog/domain"
	"go-shop/pkg/errors"
	"go-shop/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the catalog
type HTTPHandler struct {
	useCase *application.ProductUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ProductUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the catalog routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", admin, h.CreateProduct)
		products.PUT("/:id", admin, h.UpdateProduct)
		products.PUT("/:id/stock", admin, h.SetStock)
		products.DELETE("/:id", admin, h.DeleteProduct)
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
	Stock int     `json:"stock" binding:"min=0"`
}

// UpdateProductRequest is the request body for overwriting a product
type UpdateProductRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
	Stock int     `json:"stock" binding:"min=0"`
}

// SetStockRequest is the request body for PUT /products/:id/stock
type SetStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// ProductResponse is the response body for product operations
type ProductResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func toResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}
}

// CreateProduct handles POST /products
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), application.CreateProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListProducts handles GET /products
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = toResponse(product)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetProduct handles GET /products/:id
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	product, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateProduct handles PUT /products/:id
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), application.UpdateProductInput{
		ID:    id,
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// SetStock handles PUT /products/:id/stock
func (h *HTTPHandler) SetStock(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	product, err := h.useCase.SetStock(c.Request.Context(), application.SetStockInput{
		ID:    id,
		Stock: *req.Stock,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteProduct handles DELETE /products/:id
func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "product deleted",
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func (h *HTTPHandler) productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid product id", nil))
		return 0, false
	}
	return uint(id), true
}
