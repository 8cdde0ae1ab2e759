package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mobypark/internal/http/middleware"
	"mobypark/internal/repository"
	"mobypark/internal/service"
)

// SessionHandlers exposes the parking session lifecycle.
type SessionHandlers struct {
	parking *service.ParkingService
}

// NewSessionHandlers builds SessionHandlers.
func NewSessionHandlers(parking *service.ParkingService) *SessionHandlers {
	return &SessionHandlers{parking: parking}
}

type sessionRequest struct {
	LicensePlate string `json:"license_plate"`
}

// Start handles POST /parking-lots/{lot_id}/sessions/start.
func (h *SessionHandlers) Start(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	lotID, err := pathID(r, "lot_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LicensePlate == "" {
		writeError(w, http.StatusBadRequest, "license_plate is required")
		return
	}

	session, err := h.parking.StartSession(r.Context(), identity, lotID, req.LicensePlate)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		switch {
		case errors.Is(err, repository.ErrLotNotFound):
			writeError(w, http.StatusNotFound, "parking lot not found")
		case errors.Is(err, repository.ErrVehicleNotFound):
			writeError(w, http.StatusBadRequest, "vehicle not registered")
		case errors.Is(err, service.ErrActiveSessionExists):
			writeError(w, http.StatusBadRequest, "cannot start a session when another session for this license plate is already started")
		default:
			writeError(w, http.StatusInternalServerError, "failed to start session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Session started for: %s", req.LicensePlate),
		"id":      session.ID,
		"session": session,
	})
}

// Stop handles POST /parking-lots/{lot_id}/sessions/stop.
func (h *SessionHandlers) Stop(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	lotID, err := pathID(r, "lot_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LicensePlate == "" {
		writeError(w, http.StatusBadRequest, "license_plate is required")
		return
	}

	session, err := h.parking.StopSession(r.Context(), identity, lotID, req.LicensePlate)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, service.ErrNoActiveSession) {
			writeError(w, http.StatusBadRequest, "cannot stop a session when there is no active session for this license plate")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to stop session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Session stopped for: %s", req.LicensePlate),
		"id":      session.ID,
		"session": session,
	})
}

// List handles GET /parking-lots/{lot_id}/sessions.
func (h *SessionHandlers) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	lotID, err := pathID(r, "lot_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	sessions, err := h.parking.ListSessions(r.Context(), identity, lotID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Get handles GET /parking-lots/{lot_id}/sessions/{session_id}.
func (h *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	sessionID, err := pathID(r, "session_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := h.parking.GetSession(r.Context(), identity, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrAccessDenied):
			writeError(w, http.StatusForbidden, "access denied")
		default:
			writeError(w, http.StatusInternalServerError, "failed to fetch session")
		}
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Delete handles DELETE /parking-lots/{lot_id}/sessions/{session_id} (admin).
func (h *SessionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathID(r, "session_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.parking.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}
