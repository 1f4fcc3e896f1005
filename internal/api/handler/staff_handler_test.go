package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/ports"
)

type stubStaffService struct {
	listFn   func(ctx context.Context, role domain.Role) ([]ports.StaffMember, error)
	deleteFn func(ctx context.Context, entityType, id string) error
}

func (s *stubStaffService) ListByRole(ctx context.Context, role domain.Role) ([]ports.StaffMember, error) {
	return s.listFn(ctx, role)
}

func (s *stubStaffService) DeleteEntity(ctx context.Context, entityType, id string) error {
	return s.deleteFn(ctx, entityType, id)
}

func TestStaffHandler_ListsByRole(t *testing.T) {
	var asked []domain.Role
	stub := &stubStaffService{
		listFn: func(ctx context.Context, role domain.Role) ([]ports.StaffMember, error) {
			asked = append(asked, role)
			return []ports.StaffMember{{ID: "u2", Name: "Carol Care", Email: "carol@traymate.com"}}, nil
		},
	}
	h := NewStaffHandler(stub)
	e := newTestEcho()

	rec := httptest.NewRecorder()
	if err := h.Caregivers(e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/caregivers", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []staffResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Name != "Carol Care" || resp[0].Email != "carol@traymate.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	if err := h.Kitchen(e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/kitchen", nil), httptest.NewRecorder())); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if len(asked) != 2 || asked[0] != domain.RoleCaregiver || asked[1] != domain.RoleKitchenStaff {
		t.Fatalf("unexpected roles requested: %v", asked)
	}
}

func TestStaffHandler_Delete(t *testing.T) {
	stub := &stubStaffService{
		deleteFn: func(ctx context.Context, entityType, id string) error {
			if entityType != "User" || id != "u2" {
				t.Fatalf("unexpected args: %s %s", entityType, id)
			}
			return nil
		},
	}
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/admin/delete/User/u2", nil), rec)
	c.SetParamNames("type", "id")
	c.SetParamValues("User", "u2")

	if err := NewStaffHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStaffHandler_DeleteInvalidType(t *testing.T) {
	stub := &stubStaffService{
		deleteFn: func(ctx context.Context, entityType, id string) error {
			return domain.ErrInvalidDeleteType
		},
	}
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/admin/delete/room/1", nil), httptest.NewRecorder())
	c.SetParamNames("type", "id")
	c.SetParamValues("room", "1")

	if err := NewStaffHandler(stub).Delete(c); !errors.Is(err, domain.ErrInvalidDeleteType) {
		t.Fatalf("expected ErrInvalidDeleteType, got %v", err)
	}
}
