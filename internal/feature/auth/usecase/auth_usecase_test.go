package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"stock_insight/internal/feature/auth/domain/entity"
)

// mockUserRepository はUserRepositoryのモック実装です。
type mockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

// mockTokenIssuer はTokenIssuerのモック実装です。
type mockTokenIssuer struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockTokenIssuer) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "mock-token", nil
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Run("successful signup", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				// 平文のまま保存されていないこと
				if len(user.Password) == 0 || user.Password == "password123" {
					t.Errorf("password is not hashed")
				}
				if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
					t.Errorf("invalid bcrypt hash: %v", err)
				}
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		if err := uc.Signup(context.Background(), "test@example.com", "password123"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("email is normalized before storage", func(t *testing.T) {
		var stored string
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				stored = user.Email
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		if err := uc.Signup(context.Background(), "  Test@Example.COM ", "password123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored != "test@example.com" {
			t.Errorf("expected normalized email, got %q", stored)
		}
	})

	t.Run("password too short", func(t *testing.T) {
		called := false
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				called = true
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		if err := uc.Signup(context.Background(), "test@example.com", "short"); err == nil {
			t.Error("expected error for short password")
		}
		if called {
			t.Error("repository must not be called for an invalid password")
		}
	})

	t.Run("password exceeding bcrypt limit", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockTokenIssuer{})
		long := strings.Repeat("a", 73)
		if err := uc.Signup(context.Background(), "test@example.com", long); err == nil {
			t.Error("expected error for over-long password")
		}
	})

	t.Run("repository create failure", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrEmailAlreadyExists
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		err := uc.Signup(context.Background(), "test@example.com", "password123")
		if !errors.Is(err, ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got: %v", err)
		}
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &entity.User{
		ID:       1,
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	t.Run("successful login", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email == testUser.Email {
					return testUser, nil
				}
				return nil, ErrUserNotFound
			},
		}
		mockTokens := &mockTokenIssuer{
			GenerateTokenFunc: func(userID uint, email string) (string, error) {
				if userID != testUser.ID || email != testUser.Email {
					t.Errorf("unexpected userID or email: got userID=%d, email=%s", userID, email)
				}
				return "mock-token", nil
			},
		}

		uc := NewAuthUsecase(mockRepo, mockTokens)
		token, err := uc.Login(context.Background(), "test@example.com", "password123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "mock-token" {
			t.Errorf("expected token 'mock-token', got: %q", token)
		}
	})

	t.Run("email lookup uses the normalized form", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email != "test@example.com" {
					t.Errorf("expected normalized email lookup, got %q", email)
				}
				return testUser, nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		if _, err := uc.Login(context.Background(), " TEST@example.com", "password123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("user not found", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, ErrUserNotFound
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		_, err := uc.Login(context.Background(), "wrong@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("incorrect password", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return testUser, nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{})
		_, err := uc.Login(context.Background(), "test@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("token issuing failure", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return testUser, nil
			},
		}
		signErr := errors.New("failed to sign token")
		mockTokens := &mockTokenIssuer{
			GenerateTokenFunc: func(userID uint, email string) (string, error) {
				return "", signErr
			},
		}

		uc := NewAuthUsecase(mockRepo, mockTokens)
		_, err := uc.Login(context.Background(), "test@example.com", "password123")
		if !errors.Is(err, signErr) {
			t.Errorf("expected wrapped signing error, got: %v", err)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			t.Error("signing failure must not read as bad credentials")
		}
	})
}
