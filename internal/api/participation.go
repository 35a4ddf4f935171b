package api

import (
	"net/http"

	"github.com/courtday/courtday/internal/models"
)

type statusChangeRequest struct {
	Status models.ParticipationStatus `json:"status"`
}

func (h *Handler) setParticipationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid participation ID")
		return
	}

	var req statusChangeRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		writeBadRequest(w, "status is required")
		return
	}

	p, err := h.participation.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type cancelAttendanceRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) cancelAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid attendance ID")
		return
	}

	var req cancelAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.participation.CancelAttendance(r.Context(), id, req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid attendance ID")
		return
	}

	if err := h.participation.CheckIn(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roundRequest struct {
	Round int `json:"round"`
}

func (h *Handler) leaveEarly(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid attendance ID")
		return
	}

	var req roundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.participation.LeaveEarly(r.Context(), id, req.Round); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) arriveLate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid attendance ID")
		return
	}

	var req roundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.participation.ArriveLate(r.Context(), id, req.Round); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
