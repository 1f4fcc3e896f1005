// Package identity carries the resolved principal of a request through its
// context.Context. An identity is bound to a single request and never shared.
package identity

import (
	"context"

	"github.com/traymate/backend/internal/core/domain"
)

type contextKey struct{}

// With returns a copy of ctx carrying id. If ctx already carries an identity
// it is returned unchanged.
func With(ctx context.Context, id domain.Identity) context.Context {
	if _, ok := FromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity attached to ctx, if any.
func FromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(domain.Identity)
	return id, ok
}

// Require returns the identity attached to ctx or domain.ErrUnauthenticated.
func Require(ctx context.Context) (domain.Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
