package domain

import "go-shop/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired     = errors.NewValidation("name is required", nil)
	ErrNameLength       = errors.NewValidation("name must be between 2 and 100 characters", nil)
	ErrEmailRequired    = errors.NewValidation("email is required", nil)
	ErrEmailInvalid     = errors.NewValidation("email is invalid", nil)
	ErrInvalidRole      = errors.NewValidation("role must be 'user' or 'admin'", nil)
	ErrPasswordTooShort = errors.NewValidation("password must be at least 8 characters", nil)
	ErrEmailExists      = errors.NewConflict("email already registered", nil)
	ErrBadCredentials   = errors.NewUnauthorized("invalid email or password")
	ErrSessionInvalid   = errors.NewUnauthorized("invalid or expired session")
)

// NewUserNotFound creates a not found error with the user ID
func NewUserNotFound(id uint) error {
	return errors.NewNotFound("user", id)
}
