package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/leagues"
	"github.com/courtday/courtday/internal/models"
)

func (h *Handler) createLeague(w http.ResponseWriter, r *http.Request) {
	var req leagues.CreateLeagueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	league, err := h.leagues.CreateLeague(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, league)
}

func (h *Handler) getLeague(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid league ID")
		return
	}

	league, err := h.leagues.GetLeague(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

func (h *Handler) updateLeague(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid league ID")
		return
	}

	var req leagues.UpdateLeagueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	league, err := h.leagues.UpdateLeague(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

type leagueStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setLeagueStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid league ID")
		return
	}

	var req leagueStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		writeBadRequest(w, "status is required")
		return
	}

	if err := h.leagues.SetLeagueStatus(r.Context(), id, models.LeagueStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteLeague(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid league ID")
		return
	}

	if err := h.leagues.DeleteLeague(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listClubLeagues(w http.ResponseWriter, r *http.Request) {
	clubID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid club ID")
		return
	}

	list, err := h.leagues.ListLeaguesByClub(r.Context(), clubID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type joinRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *Handler) joinLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid league ID")
		return
	}

	var req joinRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID == uuid.Nil {
		writeBadRequest(w, "user_id is required")
		return
	}

	decision, p, err := h.eligibility.JoinLeague(r.Context(), leagueID, req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"decision":      decision,
		"participation": p,
	})
}

func (h *Handler) canJoinLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid league ID")
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeBadRequest(w, "user_id is required")
		return
	}

	decision, err := h.eligibility.CanJoinLeague(r.Context(), leagueID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
