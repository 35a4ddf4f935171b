package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/courtday/courtday/internal/eligibility"
	"github.com/courtday/courtday/internal/leagues"
	"github.com/courtday/courtday/internal/matches"
	"github.com/courtday/courtday/internal/memberships"
	"github.com/courtday/courtday/internal/participation"
	"github.com/courtday/courtday/internal/schedule"
)

// Handler exposes the league scheduling apps over HTTP JSON.
type Handler struct {
	leagues       *leagues.App
	schedule      *schedule.App
	eligibility   *eligibility.App
	participation *participation.App
	matches       *matches.App
}

// NewHandler creates the HTTP handler over the app layer.
func NewHandler(
	leaguesApp *leagues.App,
	scheduleApp *schedule.App,
	eligibilityApp *eligibility.App,
	participationApp *participation.App,
	matchesApp *matches.App,
) *Handler {
	return &Handler{
		leagues:       leaguesApp,
		schedule:      scheduleApp,
		eligibility:   eligibilityApp,
		participation: participationApp,
		matches:       matchesApp,
	}
}

// RegisterRoutes registers all JSON endpoints on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /leagues", h.createLeague)
	mux.HandleFunc("GET /leagues/{id}", h.getLeague)
	mux.HandleFunc("PUT /leagues/{id}", h.updateLeague)
	mux.HandleFunc("DELETE /leagues/{id}", h.deleteLeague)
	mux.HandleFunc("POST /leagues/{id}/status", h.setLeagueStatus)
	mux.HandleFunc("GET /clubs/{id}/leagues", h.listClubLeagues)
	mux.HandleFunc("POST /leagues/{id}/join", h.joinLeague)
	mux.HandleFunc("GET /leagues/{id}/can-join", h.canJoinLeague)

	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("PUT /sessions/{id}", h.updateSession)
	mux.HandleFunc("POST /sessions/{id}/expand", h.expandSession)
	mux.HandleFunc("POST /sessions/{id}/cancellations", h.addCancellation)

	mux.HandleFunc("GET /occurrences/{id}/should-run", h.shouldRun)
	mux.HandleFunc("POST /occurrences/{id}/cancel", h.cancelOccurrence)
	mux.HandleFunc("POST /occurrences/{id}/join", h.joinOccurrence)
	mux.HandleFunc("GET /occurrences/{id}/matches", h.listMatches)

	mux.HandleFunc("POST /participations/{id}/status", h.setParticipationStatus)

	mux.HandleFunc("POST /attendance/{id}/cancel", h.cancelAttendance)
	mux.HandleFunc("POST /attendance/{id}/checkin", h.checkIn)
	mux.HandleFunc("POST /attendance/{id}/leave", h.leaveEarly)
	mux.HandleFunc("POST /attendance/{id}/arrive", h.arriveLate)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, leagues.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, participation.ErrNotFound),
		errors.Is(err, memberships.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, leagues.ErrValidation),
		errors.Is(err, schedule.ErrValidation),
		errors.Is(err, participation.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, participation.ErrInvalidRound):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
