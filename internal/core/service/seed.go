package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/ports"
)

// SeedAccount is a user created on first boot.
type SeedAccount struct {
	FullName string
	Email    string
	Password string
	Role     domain.Role
}

// DefaultSeedAccounts are the development accounts created on an empty store.
var DefaultSeedAccounts = []SeedAccount{
	{FullName: "System Admin", Email: "admin@traymate.com", Password: "admin123", Role: domain.RoleAdmin},
	{FullName: "Test Caregiver", Email: "caregiver@traymate.com", Password: "care123", Role: domain.RoleCaregiver},
	{FullName: "Kitchen Staff", Email: "kitchen@traymate.com", Password: "kitchen123", Role: domain.RoleKitchenStaff},
}

// SeedUsers creates accounts only when the user store is empty. It returns
// the number of users created.
func SeedUsers(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, accounts []SeedAccount, log zerolog.Logger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		log.Info().Int64("users", count).Msg("users exist, skipping seed")
		return 0, nil
	}

	now := time.Now().UTC()
	for i, acc := range accounts {
		hash, err := hasher.Hash(acc.Password)
		if err != nil {
			return i, fmt.Errorf("hashing seed password: %w", err)
		}
		_, err = repo.Save(ctx, &domain.User{
			FullName:     acc.FullName,
			Email:        domain.NormalizeEmail(acc.Email),
			PasswordHash: hash,
			Role:         acc.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return i, fmt.Errorf("saving seed user %s: %w", acc.Email, err)
		}
	}

	log.Info().Int("users", len(accounts)).Msg("default users seeded")
	return len(accounts), nil
}
