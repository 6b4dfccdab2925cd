package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"splitbook/internal/models"
)

type fakeUserStorage struct {
	users map[string]*models.User
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{users: make(map[string]*models.User)}
}

func (f *fakeUserStorage) CreateUser(_ context.Context, user *models.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, username)
	}
	return user, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	authenticator := NewPasswordAuthenticator(newFakeUserStorage())

	t.Run("register and authenticate round trip", func(t *testing.T) {
		user, err := authenticator.Register(ctx, "alice", "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be set")
		}
		if user.PasswordHash == "correct-horse" {
			t.Error("Password stored in plain text")
		}

		got, err := authenticator.Authenticate(ctx, "alice", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("Authenticated wrong user: %s", got.ID)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "alice", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "nobody", "whatever-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "alice", "another-password")
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("error = %v, want ErrUsernameTaken", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "bob", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("empty username rejected", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "   ", "long-enough-password")
		if !errors.Is(err, ErrEmptyUsername) {
			t.Errorf("error = %v, want ErrEmptyUsername", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-for-jwt-signing", time.Hour)
	user := &models.User{ID: "user-1", Username: "alice"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %s, want alice", claims.Username)
	}

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token from another secret rejected", func(t *testing.T) {
		other := NewJWTManager("a-completely-different-secret-key", time.Hour)
		otherToken, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(otherToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-for-jwt-signing", -time.Minute)
		expiredToken, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(expiredToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}
