package adapters

import (
	"context"

	"go-shop/internal/orders/ports"
	userports "go-shop/internal/users/ports"
)

// UserDirectoryAdapter implements the order processor's UserDirectory
// against the in-process user repository.
type UserDirectoryAdapter struct {
	users userports.UserRepository
}

// NewUserDirectoryAdapter creates a new user directory adapter
func NewUserDirectoryAdapter(users userports.UserRepository) *UserDirectoryAdapter {
	return &UserDirectoryAdapter{users: users}
}

// GetUser retrieves user information by ID
func (a *UserDirectoryAdapter) GetUser(ctx context.Context, userID uint) (*ports.UserInfo, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ports.UserInfo{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
