package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/identity"
	"github.com/traymate/backend/internal/core/ports"
	"github.com/traymate/backend/internal/pkg/metrics"
)

const defaultIdempotencyTTL = 24 * time.Hour

type ResidentService struct {
	residents      ports.ResidentRepository
	users          ports.UserRepository
	idempotency    ports.IdempotencyStore
	idempotencyTTL time.Duration
	now            func() time.Time
	logger         zerolog.Logger
}

// NewResidentService wires the resident use cases. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewResidentService(
	residents ports.ResidentRepository,
	users ports.UserRepository,
	idempotency ports.IdempotencyStore,
	idempotencyTTL time.Duration,
	logger zerolog.Logger,
) *ResidentService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = defaultIdempotencyTTL
	}
	return &ResidentService{
		residents:      residents,
		users:          users,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		now:            time.Now,
		logger:         logger,
	}
}

// CreateResident admits a new resident. If an idempotency key is provided and
// already seen, the previously created resident is returned without side effects.
func (s *ResidentService) CreateResident(ctx context.Context, in ports.CreateResidentInput) (*ports.CreateResidentResult, error) {
	if in.IdempotencyKey != "" && s.idempotency != nil {
		existingID, err := s.idempotency.Lookup(ctx, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed, creating anyway")
		} else if existingID != "" {
			existing, err := s.residents.FindByID(ctx, existingID)
			if err == nil {
				s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("resident_id", existingID).Msg("idempotent replay")
				return &ports.CreateResidentResult{Resident: existing, AlreadyExisted: true}, nil
			}
			if !errors.Is(err, domain.ErrResidentNotFound) {
				return nil, err
			}
		}
	}

	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("%w: firstName and lastName are required", domain.ErrInvalidInput)
	}
	gender, err := domain.ParseGender(in.Gender)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDOB(in.DOB); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	resident := &domain.Resident{
		FirstName:         strings.TrimSpace(in.FirstName),
		MiddleName:        strings.TrimSpace(in.MiddleName),
		LastName:          strings.TrimSpace(in.LastName),
		DOB:               in.DOB,
		Gender:            gender,
		Phone:             in.Phone,
		EmergencyContact:  in.EmergencyContact,
		EmergencyPhone:    in.EmergencyPhone,
		Doctor:            in.Doctor,
		DoctorPhone:       in.DoctorPhone,
		MedicalConditions: in.MedicalConditions,
		FoodAllergies:     in.FoodAllergies,
		Medications:       in.Medications,
		RoomNumber:        in.RoomNumber,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.residents.Create(ctx, resident); err != nil {
		s.logger.Error().Err(err).Msg("failed to create resident")
		return nil, err
	}
	metrics.ResidentsCreatedTotal.Inc()

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, in.IdempotencyKey, resident.ID, s.idempotencyTTL); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("resident_id", resident.ID).Str("room", resident.RoomNumber).Msg("resident created")
	return &ports.CreateResidentResult{Resident: resident}, nil
}

// UpdateResident overwrites the non-empty fields of in.
func (s *ResidentService) UpdateResident(ctx context.Context, id string, in ports.UpdateResidentInput) (*domain.Resident, error) {
	resident, err := s.residents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) != "" {
		resident.SetName(in.Name)
	}
	if in.RoomNumber != "" {
		resident.RoomNumber = in.RoomNumber
	}
	if in.FoodAllergies != "" {
		resident.FoodAllergies = in.FoodAllergies
	}
	if in.MedicalConditions != "" {
		resident.MedicalConditions = in.MedicalConditions
	}
	resident.UpdatedAt = s.now().UTC()

	if err := s.residents.Update(ctx, resident); err != nil {
		return nil, err
	}
	return resident, nil
}

func (s *ResidentService) ListResidents(ctx context.Context) ([]ports.ResidentCard, error) {
	residents, err := s.residents.List(ctx)
	if err != nil {
		return nil, err
	}
	cards := make([]ports.ResidentCard, 0, len(residents))
	for _, r := range residents {
		cards = append(cards, ports.ResidentCard{
			ID:            r.ID,
			FullName:      r.FullName(),
			RoomNumber:    r.RoomNumber,
			FoodAllergies: r.FoodAllergies,
		})
	}
	return cards, nil
}

// AssignCaregiver links a caregiver to a resident, or unassigns when
// caregiverID is nil. The target user must hold the caregiver role.
func (s *ResidentService) AssignCaregiver(ctx context.Context, residentID string, caregiverID *string) (*domain.Resident, error) {
	resident, err := s.residents.FindByID(ctx, residentID)
	if err != nil {
		return nil, err
	}

	target := ""
	if caregiverID != nil {
		caregiver, err := s.users.FindByID(ctx, *caregiverID)
		if err != nil {
			return nil, err
		}
		if caregiver.Role != domain.RoleCaregiver {
			return nil, domain.ErrNotCaregiver
		}
		target = caregiver.ID
	}

	if err := s.residents.SetCaregiver(ctx, resident.ID, target); err != nil {
		return nil, err
	}
	resident.CaregiverID = target

	s.logger.Info().Str("resident_id", resident.ID).Str("caregiver_id", target).Msg("caregiver assignment changed")
	return resident, nil
}

// ResidentsForCaregiver returns the residents assigned to the calling caregiver.
func (s *ResidentService) ResidentsForCaregiver(ctx context.Context) ([]*domain.Resident, error) {
	id, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	return s.residents.ListByCaregiver(ctx, id.ID)
}
