package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// Identity is the authenticated user the request acts for. It is stamped by
// the upstream gateway; this service only reads it.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext returns the identity stored by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

// ParseIdentity reads the identity headers. A missing or malformed user id
// is rejected; the email is informational.
func ParseIdentity(userID, email string) (Identity, bool) {
	id, err := uuid.FromString(userID)
	if err != nil || id == uuid.Nil {
		return Identity{}, false
	}
	return Identity{UserID: id, Email: email}, true
}

// Middleware rejects requests without a valid identity with 401 and stores
// the identity on the context for handlers.
func Middleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		identity, ok := ParseIdentity(ctx.Header(HeaderUserID), ctx.Header(HeaderUserEmail))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid "+HeaderUserID+" header")
			return
		}
		next(huma.WithContext(ctx, WithIdentity(ctx.Context(), identity)))
	}
}
