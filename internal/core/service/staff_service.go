package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/ports"
)

const (
	entityResident = "resident"
	entityUser     = "user"
)

type StaffService struct {
	users     ports.UserRepository
	residents ports.ResidentRepository
	audit     ports.AuditRecorder
	now       func() time.Time
	logger    zerolog.Logger
}

func NewStaffService(users ports.UserRepository, residents ports.ResidentRepository, audit ports.AuditRecorder, logger zerolog.Logger) *StaffService {
	return &StaffService{users: users, residents: residents, audit: audit, now: time.Now, logger: logger}
}

func (s *StaffService) ListByRole(ctx context.Context, role domain.Role) ([]ports.StaffMember, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	users, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]ports.StaffMember, 0, len(users))
	for _, u := range users {
		out = append(out, ports.StaffMember{ID: u.ID, Name: u.FullName, Email: u.Email})
	}
	return out, nil
}

// DeleteEntity removes a resident or a user. A user is unassigned from every
// resident before it is deleted so no resident points at a missing caregiver.
func (s *StaffService) DeleteEntity(ctx context.Context, entityType, id string) error {
	switch strings.ToLower(strings.TrimSpace(entityType)) {
	case entityResident:
		if err := s.residents.Delete(ctx, id); err != nil {
			return err
		}
		s.record(ctx, domain.AuditResidentDeleted, id)
		s.logger.Info().Str("resident_id", id).Msg("resident deleted")
		return nil

	case entityUser:
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := s.residents.UnassignCaregiver(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("unassign residents: %w", err)
		}
		if err := s.users.Delete(ctx, user.ID); err != nil {
			return err
		}
		s.record(ctx, domain.AuditUserDeleted, user.Email)
		s.logger.Info().Str("user_id", user.ID).Int64("residents_unassigned", n).Msg("user deleted")
		return nil
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidDeleteType, entityType)
}

func (s *StaffService) record(ctx context.Context, action domain.AuditAction, target string) {
	if s.audit == nil {
		return
	}
	actor, _ := identityEmail(ctx)
	s.audit.Record(domain.AuditEvent{Action: action, Actor: actor, Target: target, OccurredAt: s.now().UTC()})
}
