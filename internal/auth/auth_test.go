package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store/memory"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	ctx := context.Background()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "auth0|abc",
		"email": "ana@example.com",
		"name":  "Ana",
	})
	id, err := v.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", id.Subject)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "Ana", id.Name)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	ctx := context.Background()

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "auth0|abc"})
		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Verify(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"email": "ana@example.com"})
		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestGateAuthenticate(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	g := NewGate(NewJWTVerifier(testSecret), st.Players())

	token := signToken(t, testSecret, jwt.MapClaims{"sub": "auth0|abc"})

	// Valid identity, no account yet.
	_, err := g.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)

	// VerifyOnly works regardless.
	id, err := g.VerifyOnly(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", id.Subject)

	_, err = st.Players().Create(ctx, &domain.Player{ID: "auth0|abc", Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	p, err := g.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc", p.ID)
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	g := NewGate(NewJWTVerifier(testSecret), st.Players())
	_, err := st.Players().Create(ctx, &domain.Player{ID: "auth0|abc", Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	var seen *domain.Player
	h := g.Middleware(onError)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PlayerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": "auth0|abc"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "auth0|abc", seen.ID)
	})

	t.Run("no header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", BearerToken(req))

	req.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", BearerToken(req), "scheme is case-insensitive")

	req.Header.Set("Authorization", "Basic abc123")
	assert.Empty(t, BearerToken(req))
}
