package service

import (
	"context"

	"github.com/traymate/backend/internal/core/identity"
)

// identityEmail returns the email of the principal acting in ctx.
func identityEmail(ctx context.Context) (string, bool) {
	id, ok := identity.FromContext(ctx)
	if !ok || id.Email == "" {
		return "", false
	}
	return id.Email, true
}
