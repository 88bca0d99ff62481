package authctx

import (
	"context"

	"github.com/lsandon/fertiviltro-app/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

func WithIdentity(ctx context.Context, who domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, who)
}

// FromContext returns the verified caller, or nil on unauthenticated routes.
func FromContext(ctx context.Context) *domain.Identity {
	val, ok := ctx.Value(identityContextKey).(domain.Identity)
	if !ok {
		return nil
	}
	return &val
}
