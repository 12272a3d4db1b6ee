package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/padelhq/padel-data/internal/api/respond"
)

// GetMatchOverview returns a match with per-player hit counts.
// @Summary Get match overview with player statistics
// @Description Match summary with total hit counts per slot. Returns 503 while analysis data is not available yet.
// @Tags matches
// @Produce json
// @Success 200 {object} stats.Overview
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /matches/{matchID}/overview [get]
func (h *Handler) GetMatchOverview(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid match id")
		return
	}

	overview, err := h.stats.MatchOverview(r.Context(), matchID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, overview)
}

// GetMatchStatisticsBySet returns match statistics tagged with a set number.
// @Summary Get match statistics by set
// @Description Aggregate match statistics tagged with the requested set number. Set numbers start at 1.
// @Tags matches
// @Produce json
// @Success 200 {object} stats.SetStatistics
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /matches/{matchID}/sets/{setNumber} [get]
func (h *Handler) GetMatchStatisticsBySet(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid match id")
		return
	}
	setNumber, err := strconv.Atoi(chi.URLParam(r, "setNumber"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid set number")
		return
	}

	setStats, err := h.stats.MatchStatisticsBySet(r.Context(), matchID, setNumber)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, setStats)
}

// GetHitComparisonChart returns chart-ready hit counts.
// @Summary Get hit comparison chart data
// @Description Per-player hit counts shaped for a bar chart, sorted by hits descending.
// @Tags matches
// @Produce json
// @Success 200 {object} stats.ChartData
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /matches/{matchID}/chart/hits [get]
func (h *Handler) GetHitComparisonChart(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid match id")
		return
	}

	chart, err := h.stats.HitComparisonChartData(r.Context(), matchID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, chart)
}

// GetPlayerHitCount returns total hits for one slot of a match.
// @Summary Get hit count for one player slot
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /matches/{matchID}/players/{playerIdentifier}/hits [get]
func (h *Handler) GetPlayerHitCount(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid match id")
		return
	}
	identifier := chi.URLParam(r, "playerIdentifier")

	hits, err := h.stats.PlayerHitCount(r.Context(), matchID, identifier)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"match_id":          matchID,
		"player_identifier": identifier,
		"total_hits":        hits,
	})
}
