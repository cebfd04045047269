package infrastructure

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-shop/internal/coupons/application"
	"go-shop/internal/coupons/domain"
	"go-shop/pkg/errors"
	"go-shop/pkg/middleware"
)

// HTTPHandler handles HTTP requests for coupons
type HTTPHandler struct {
	useCase *application.CouponUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.CouponUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the coupon routes (all admin-only)
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	coupons := r.Group("/coupons", admin)
	{
		coupons.POST("", h.CreateCoupon)
		coupons.GET("", h.ListCoupons)
		coupons.GET("/:code", h.GetCoupon)
		coupons.DELETE("/:code", h.DeleteCoupon)
	}
}

// CreateCouponRequest is the request body for creating a coupon
type CreateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Discount float64 `json:"discount" binding:"min=0,max=100"`
}

// CouponResponse is the response body for coupon operations
type CouponResponse struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

func toResponse(coupon *domain.Coupon) CouponResponse {
	return CouponResponse{
		Code:     coupon.Code,
		Discount: coupon.Discount,
	}
}

// CreateCoupon handles POST /coupons
func (h *HTTPHandler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	coupon, err := h.useCase.CreateCoupon(c.Request.Context(), application.CreateCouponInput{
		Code:     req.Code,
		Discount: req.Discount,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(coupon),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListCoupons handles GET /coupons
func (h *HTTPHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.useCase.ListCoupons(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]CouponResponse, len(coupons))
	for i, coupon := range coupons {
		responses[i] = toResponse(coupon)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetCoupon handles GET /coupons/:code
func (h *HTTPHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.useCase.GetCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(coupon),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteCoupon handles DELETE /coupons/:code
func (h *HTTPHandler) DeleteCoupon(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.Error(errors.NewValidation("coupon code required", nil))
		return
	}

	if err := h.useCase.DeleteCoupon(c.Request.Context(), code); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "coupon deleted",
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
