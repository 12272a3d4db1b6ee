package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/padelhq/padel-data/internal/domain"
)

type contextKey string

const playerKey contextKey = "auth.player"
const identityKey contextKey = "auth.identity"

// WithPlayer returns a context carrying the authenticated player.
func WithPlayer(ctx context.Context, p *domain.Player) context.Context {
	return context.WithValue(ctx, playerKey, p)
}

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// PlayerFromContext returns the authenticated player set by Middleware.
func PlayerFromContext(ctx context.Context) (*domain.Player, bool) {
	p, ok := ctx.Value(playerKey).(*domain.Player)
	return p, ok
}

// IdentityFromContext returns the verified identity set by VerifyMiddleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}

// Middleware authenticates the request and stores the resolved Player in the
// request context. Requests without a valid token or registered account get
// 401/403 from the onError callback.
func (g *Gate) Middleware(onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				onError(w, r, ErrUnauthenticated)
				return
			}
			p, err := g.Authenticate(r.Context(), token)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), p)))
		})
	}
}

// VerifyMiddleware checks the token but does not require a Player record.
// The registration handler uses it to create the account for a verified
// identity.
func (g *Gate) VerifyMiddleware(onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				onError(w, r, ErrUnauthenticated)
				return
			}
			identity, err := g.VerifyOnly(r.Context(), token)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
