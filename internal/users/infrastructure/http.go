package infrastructure

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-shop/internal/users/application"
	"go-shop/internal/users/domain"
	"go-shop/pkg/errors"
	"go-shop/pkg/middleware"
)

// HTTPHandler handles HTTP requests for authentication
type HTTPHandler struct {
	useCase *application.UserUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.UserUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the auth routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", auth, h.Logout)
		authGroup.GET("/me", auth, h.Me)
	}
}

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the response body for user operations
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register handles POST /auth/register. Self-registration always gets the
// user role; admins are provisioned out of band.
func (h *HTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.RoleUser,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  string(user.Role),
		},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Login handles POST /auth/login
func (h *HTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.Login(c.Request.Context(), application.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      output.Token,
		"expires_at": output.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		"user": UserResponse{
			ID:    output.User.ID,
			Name:  output.User.Name,
			Email: output.User.Email,
			Role:  string(output.User.Role),
		},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Me handles GET /auth/me
func (h *HTTPHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Error(errors.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.useCase.GetUser(c.Request.Context(), principal.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  string(user.Role),
		},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Logout handles POST /auth/logout
func (h *HTTPHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		c.Error(errors.NewUnauthorized("authorization header required"))
		return
	}

	if err := h.useCase.Logout(c.Request.Context(), parts[1]); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "logged out",
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}
