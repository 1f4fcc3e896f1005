package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/ports"
	"github.com/traymate/backend/internal/pkg/metrics"
)

// DefaultEmailDomain is the suffix every staff email must carry.
const DefaultEmailDomain = "@traymate.com"

// AuthService implements registration and login.
type AuthService struct {
	repo        ports.UserRepository
	hasher      ports.PasswordHasher
	codec       ports.TokenCodec
	audit       ports.AuditRecorder
	emailDomain string
	now         func() time.Time
	log         zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	audit ports.AuditRecorder,
	emailDomain string,
	log zerolog.Logger,
) *AuthService {
	if emailDomain == "" {
		emailDomain = DefaultEmailDomain
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		codec:       codec,
		audit:       audit,
		emailDomain: strings.ToLower(emailDomain),
		now:         time.Now,
		log:         log,
	}
}

// Register creates a staff account and returns a token carrying the role claim.
// The domain check runs before any other validation.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if !strings.HasSuffix(email, s.emailDomain) || len(email) == len(s.emailDomain) {
		metrics.RegistrationsTotal.WithLabelValues("invalid_domain").Inc()
		return nil, domain.ErrInvalidDomain
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_role").Inc()
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_password").Inc()
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	user, err := s.repo.Save(ctx, &domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.codec.Issue(user.Email, map[string]any{"role": string(user.Role)}, now)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.record(ctx, domain.AuditUserRegistered, user.Email, map[string]string{"role": string(user.Role)})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return &ports.AuthResult{Token: token}, nil
}

// Login verifies credentials and returns a token plus the user's role. An
// unknown email and a wrong password yield the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		// Burn a comparison so a missing account costs the same as a bad password.
		s.hasher.Verify(s.placeholderHash(), password)
		return nil, s.loginFailed(ctx, email)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, s.loginFailed(ctx, email)
	}

	// The role is returned alongside the token, not embedded as a claim.
	token, err := s.codec.Issue(user.Email, nil, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.record(ctx, domain.AuditLoginSucceeded, user.Email, nil)

	return &ports.AuthResult{Token: token, Role: user.Role}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
	s.record(ctx, domain.AuditLoginFailed, email, nil)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("placeholder-password")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build placeholder hash")
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) record(ctx context.Context, action domain.AuditAction, target string, details map[string]string) {
	if s.audit == nil {
		return
	}
	actor := target
	if id, ok := identityEmail(ctx); ok {
		actor = id
	}
	s.audit.Record(domain.AuditEvent{
		Action:     action,
		Actor:      actor,
		Target:     target,
		OccurredAt: s.now().UTC(),
		Details:    details,
	})
}
