package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/traymate/backend/internal/core/domain"
)

func TestWith_AttachesIdentity(t *testing.T) {
	want := domain.Identity{ID: "u1", Email: "a@traymate.com", Role: domain.RoleAdmin}
	ctx := With(context.Background(), want)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatalf("expected identity in context")
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestWith_DoesNotOverwrite(t *testing.T) {
	first := domain.Identity{ID: "u1", Role: domain.RoleAdmin}
	second := domain.Identity{ID: "u2", Role: domain.RoleCaregiver}

	ctx := With(With(context.Background(), first), second)

	got, _ := FromContext(ctx)
	if got.ID != "u1" {
		t.Fatalf("identity was overwritten: %+v", got)
	}
}

func TestRequire_Missing(t *testing.T) {
	if _, err := Require(context.Background()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
