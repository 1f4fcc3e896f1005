package ports

import (
	"context"
	"time"

	"github.com/traymate/backend/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by register and login. Role is only set on login.
type AuthResult struct {
	Token string
	Role  domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenCodec issues and verifies signed, time-bounded identity assertions.
type TokenCodec interface {
	Issue(subject string, claims map[string]any, now time.Time) (string, error)
	Parse(token string) (*domain.Assertion, error)
}

// PasswordHasher produces salted one-way hashes and verifies them in
// constant time.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(hash, raw string) bool
}
