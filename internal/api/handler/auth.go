package handler

import (
	"encoding/json"
	"net/http"

	"github.com/padelhq/padel-data/internal/api/respond"
	"github.com/padelhq/padel-data/internal/auth"
)

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates the Player record for a verified identity. The identity
// gate has already checked the token; the subject becomes the player ID.
// @Summary Register the authenticated identity as a player
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	// Token claims fill anything the body leaves out.
	if req.Name == "" {
		req.Name = identity.Name
	}
	if req.Email == "" {
		req.Email = identity.Email
	}

	p, err := h.players.Create(r.Context(), identity.Subject, req.Name, req.Email, "player")
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"id":    p.ID,
		"name":  p.Name,
		"email": p.Email,
		"role":  p.Role,
	})
}

// Me returns the authenticated player's profile.
// @Summary Get the authenticated player
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} respond.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.PlayerFromContext(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"id":         current.ID,
		"name":       current.Name,
		"email":      current.Email,
		"role":       current.Role,
		"created_at": current.CreatedAt,
	})
}
