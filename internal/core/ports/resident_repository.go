package ports

import (
	"context"
	"time"

	"github.com/traymate/backend/internal/core/domain"
)

// ResidentRepository defines persistence operations for residents.
type ResidentRepository interface {
	// Create inserts the resident and sets its ID.
	Create(ctx context.Context, r *domain.Resident) error
	// FindByID returns domain.ErrResidentNotFound when no resident matches.
	FindByID(ctx context.Context, id string) (*domain.Resident, error)
	List(ctx context.Context) ([]*domain.Resident, error)
	ListByCaregiver(ctx context.Context, caregiverID string) ([]*domain.Resident, error)
	Update(ctx context.Context, r *domain.Resident) error
	// SetCaregiver assigns caregiverID to the resident; an empty caregiverID unassigns.
	SetCaregiver(ctx context.Context, residentID, caregiverID string) error
	// UnassignCaregiver clears caregiverID from every resident and reports how many changed.
	UnassignCaregiver(ctx context.Context, caregiverID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore maps client-supplied idempotency keys to created resource IDs.
type IdempotencyStore interface {
	// Lookup returns the stored resource ID, or "" when the key is unknown.
	Lookup(ctx context.Context, key string) (string, error)
	Remember(ctx context.Context, key, resourceID string, ttl time.Duration) error
}
