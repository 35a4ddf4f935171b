package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/courtday/courtday/internal/schedule"
)

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	session, err := h.schedule.CreateSession(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid session ID")
		return
	}

	var req schedule.UpdateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	session, err := h.schedule.UpdateSession(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) expandSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid session ID")
		return
	}

	count, err := h.schedule.ExpandSession(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"occurrences": count})
}

func (h *Handler) addCancellation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid session ID")
		return
	}

	var req schedule.AddCancellationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	req.SessionID = id

	c, err := h.schedule.AddCancellation(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) shouldRun(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid occurrence ID")
		return
	}

	decision, err := h.schedule.ShouldRun(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

type cancelOccurrenceRequest struct {
	Reason          string `json:"reason"`
	NotifyAttendees bool   `json:"notify_attendees"`
}

func (h *Handler) cancelOccurrence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid occurrence ID")
		return
	}

	var req cancelOccurrenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Reason == "" {
		writeBadRequest(w, "reason is required")
		return
	}

	if err := h.schedule.CancelOccurrence(r.Context(), id, req.Reason, req.NotifyAttendees); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) joinOccurrence(w http.ResponseWriter, r *http.Request) {
	occurrenceID, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid occurrence ID")
		return
	}

	var req joinRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID == uuid.Nil {
		writeBadRequest(w, "user_id is required")
		return
	}

	decision, att, err := h.eligibility.JoinOccurrence(r.Context(), occurrenceID, req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"decision":   decision,
		"attendance": att,
	})
}

func (h *Handler) listMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid occurrence ID")
		return
	}

	list, err := h.matches.ListByOccurrence(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
