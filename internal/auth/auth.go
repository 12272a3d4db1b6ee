// Package auth is the access/identity gate. Token verification belongs to
// the external identity provider; this package only maps a verified identity
// to a Player record and makes it available to handlers.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
)

// ErrUnauthenticated signals a missing or unverifiable bearer token.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the verified subject extracted from a bearer token.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// TokenVerifier verifies a raw bearer token and returns the identity it
// carries. Implementations wrap the identity provider's SDK.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// JWTVerifier validates HS256-signed tokens with a shared secret. Used in
// development and tests; production swaps in the provider's verifier behind
// the same interface.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token and extracts subject, email, name.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrUnauthenticated)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &Identity{Subject: sub, Email: email, Name: name}, nil
}

// Gate resolves verified identities to Player records.
type Gate struct {
	verifier TokenVerifier
	players  store.PlayerStore
}

// NewGate creates the gate.
func NewGate(verifier TokenVerifier, players store.PlayerStore) *Gate {
	return &Gate{verifier: verifier, players: players}
}

// Authenticate verifies the token and loads the matching Player. A verified
// identity without a Player record yields domain.ErrPlayerNotFound; the
// caller decides whether that means "register first" or "reject".
func (g *Gate) Authenticate(ctx context.Context, token string) (*domain.Player, error) {
	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return g.players.GetByID(ctx, identity.Subject)
}

// VerifyOnly verifies the token without requiring a Player record. Used by
// the registration endpoint, where the account does not exist yet.
func (g *Gate) VerifyOnly(ctx context.Context, token string) (*Identity, error) {
	return g.verifier.Verify(ctx, token)
}
