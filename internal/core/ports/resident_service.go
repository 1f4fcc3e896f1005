package ports

import (
	"context"

	"github.com/traymate/backend/internal/core/domain"
)

// CreateResidentInput carries all data needed to admit a new resident.
type CreateResidentInput struct {
	FirstName         string
	MiddleName        string
	LastName          string
	DOB               string
	Gender            string
	Phone             string
	EmergencyContact  string
	EmergencyPhone    string
	Doctor            string
	DoctorPhone       string
	MedicalConditions string
	FoodAllergies     string
	Medications       string
	RoomNumber        string
	IdempotencyKey    string
}

// UpdateResidentInput holds the editable resident fields. Empty fields are left unchanged.
type UpdateResidentInput struct {
	Name              string
	RoomNumber        string
	FoodAllergies     string
	MedicalConditions string
}

// CreateResidentResult is returned by CreateResident.
type CreateResidentResult struct {
	Resident *domain.Resident
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// ResidentCard is the summary shown in the admin resident list.
type ResidentCard struct {
	ID            string
	FullName      string
	RoomNumber    string
	FoodAllergies string
}

// ResidentService defines use-case operations on residents.
type ResidentService interface {
	CreateResident(ctx context.Context, in CreateResidentInput) (*CreateResidentResult, error)
	UpdateResident(ctx context.Context, id string, in UpdateResidentInput) (*domain.Resident, error)
	ListResidents(ctx context.Context) ([]ResidentCard, error)
	// AssignCaregiver links a caregiver to the resident; a nil caregiverID unassigns.
	AssignCaregiver(ctx context.Context, residentID string, caregiverID *string) (*domain.Resident, error)
	// ResidentsForCaregiver lists the residents assigned to the identity in ctx.
	ResidentsForCaregiver(ctx context.Context) ([]*domain.Resident, error)
}

// StaffMember is the summary of a caregiver or kitchen staff account.
type StaffMember struct {
	ID    string
	Name  string
	Email string
}

// StaffService lists staff accounts and removes entities.
type StaffService interface {
	ListByRole(ctx context.Context, role domain.Role) ([]StaffMember, error)
	// DeleteEntity removes a "resident" or a "user"; a deleted user is first
	// unassigned from every resident.
	DeleteEntity(ctx context.Context, entityType, id string) error
}
