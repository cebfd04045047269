package ports

import (
	"context"

	"go-shop/internal/users/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uint) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionRepository defines the interface for session token persistence
type SessionRepository interface {
	// Create persists a new session
	Create(ctx context.Context, session *domain.Session) error

	// GetByToken retrieves a session by its token
	GetByToken(ctx context.Context, token string) (*domain.Session, error)

	// DeleteByToken removes a session (logout)
	DeleteByToken(ctx context.Context, token string) error
}
