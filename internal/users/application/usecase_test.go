package application

import (
	"context"
	"testing"
	"time"

	"go-shop/internal/users/domain"
	"go-shop/pkg/errors"
	"go-shop/pkg/logger"
)

// MockUserRepository is an in-memory mock implementation of UserRepository
type MockUserRepository struct {
	users  map[uint]*domain.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errors.NewNotFound("user", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NewNotFound("user", email)
}

// MockSessionRepository is an in-memory mock implementation of SessionRepository
type MockSessionRepository struct {
	sessions map[string]*domain.Session
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session, ok := m.sessions[token]
	if !ok {
		return nil, errors.NewNotFound("session", token)
	}
	return session, nil
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func newUserUseCase() (*UserUseCase, *MockUserRepository, *MockSessionRepository) {
	repo := NewMockUserRepository()
	sessions := NewMockSessionRepository()
	log := logger.New("test", "error", "json")
	return NewUserUseCase(repo, sessions, time.Hour, log), repo, sessions
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()

	// Act
	user, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "supersecret",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected default role user, got %q", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "supersecret" {
		t.Error("expected password stored as a hash")
	}
}

func TestRegister_PasswordTooShort(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()

	// Act
	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "short",
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()

	// Act
	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "not-an-email",
		Password: "supersecret",
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()
	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	_, err = uc.Register(context.Background(), RegisterInput{
		Name:     "Jane Doe",
		Email:    "john@example.com",
		Password: "supersecret",
	})

	// Assert
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()
	user, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "supersecret",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	out, err := uc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "supersecret",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected a session token")
	}

	principal, err := uc.Verify(context.Background(), out.Token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if principal.UserID != user.ID {
		t.Errorf("expected principal user %d, got %d", user.ID, principal.UserID)
	}
	if !principal.IsAdmin() {
		t.Error("expected admin principal")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()
	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	_, err = uc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "wrongpassword",
	})

	// Assert
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()

	// Act
	_, err := uc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})

	// Assert
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestVerify_ExpiredSession(t *testing.T) {
	// Arrange
	uc, _, sessions := newUserUseCase()
	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	sessions.Create(context.Background(), &domain.Session{
		Token:     "stale-token",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	// Act
	_, err = uc.Verify(context.Background(), "stale-token")

	// Assert
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	// Arrange
	uc, _, _ := newUserUseCase()
	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out, err := uc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	if err := uc.Logout(context.Background(), out.Token); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if _, err := uc.Verify(context.Background(), out.Token); err == nil {
		t.Error("expected revoked token to fail verification")
	}
}
