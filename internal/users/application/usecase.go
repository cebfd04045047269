package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-shop/internal/users/domain"
	"go-shop/internal/users/ports"
	"go-shop/pkg/errors"
	"go-shop/pkg/logger"
	"go-shop/pkg/middleware"
)

// UserUseCase handles registration, login and session verification
type UserUseCase struct {
	repo     ports.UserRepository
	sessions ports.SessionRepository
	tokenTTL time.Duration
	log      *logger.Logger
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(
	repo ports.UserRepository,
	sessions ports.SessionRepository,
	tokenTTL time.Duration,
	log *logger.Logger,
) *UserUseCase {
	return &UserUseCase{
		repo:     repo,
		sessions: sessions,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// RegisterInput represents the input for registering a user
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new user with a hashed password
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if len(input.Password) < 8 {
		return nil, domain.ErrPasswordTooShort
	}

	user, err := domain.NewUser(input.Name, input.Email, input.Role)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.Wrap(err, "failed to check email existence")
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternal("failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	uc.log.WithContext(ctx).Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// LoginInput represents the input for logging in
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the issued session token
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies credentials and issues an opaque bearer token
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := uc.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrBadCredentials
	}

	session := &domain.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(uc.tokenTTL),
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to persist session")
	}

	uc.log.WithContext(ctx).Info("user logged in",
		zap.Uint("user_id", user.ID),
	)

	return &LoginOutput{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// Logout revokes a session token
func (uc *UserUseCase) Logout(ctx context.Context, token string) error {
	return uc.sessions.DeleteByToken(ctx, token)
}

// Verify resolves a bearer token to a principal. Satisfies the
// middleware.TokenVerifier interface.
func (uc *UserUseCase) Verify(ctx context.Context, token string) (*middleware.Principal, error) {
	session, err := uc.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}
	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionInvalid
	}

	user, err := uc.repo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	return &middleware.Principal{
		UserID: user.ID,
		Role:   string(user.Role),
	}, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return uc.repo.GetByID(ctx, id)
}
