package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mobypark/internal/http/middleware"
	"mobypark/internal/models"
	"mobypark/internal/repository"
)

// ReservationHandlers exposes reservation CRUD. Creating or deleting a
// reservation moves the lot's reserved counter.
type ReservationHandlers struct {
	reservations *repository.ReservationRepository
	lots         *repository.ParkingLotRepository
	users        *repository.UserRepository
}

// NewReservationHandlers builds ReservationHandlers.
func NewReservationHandlers(
	reservations *repository.ReservationRepository,
	lots *repository.ParkingLotRepository,
	users *repository.UserRepository,
) *ReservationHandlers {
	return &ReservationHandlers{reservations: reservations, lots: lots, users: users}
}

type reservationRequest struct {
	LicensePlate string    `json:"license_plate"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	ParkingLotID int64     `json:"parking_lot_id"`
	Username     string    `json:"user,omitempty"`
}

func (req *reservationRequest) validate() (string, bool) {
	switch {
	case req.LicensePlate == "":
		return "license_plate", false
	case req.StartTime.IsZero():
		return "start_time", false
	case req.EndTime.IsZero():
		return "end_time", false
	case req.ParkingLotID == 0:
		return "parking_lot_id", false
	}
	return "", true
}

// resolveOwner picks the reservation owner: admins may book for another
// user, everyone else books for themselves.
func (h *ReservationHandlers) resolveOwner(r *http.Request, req *reservationRequest) (int64, int, string) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	if identity.Role != models.RoleAdmin || req.Username == "" {
		return identity.UserID, 0, ""
	}
	owner, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, http.StatusNotFound, "user not found"
		}
		return 0, http.StatusInternalServerError, "failed to resolve user"
	}
	return owner.ID, 0, ""
}

// Create handles POST /reservations.
func (h *ReservationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if field, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, "required field missing: "+field)
		return
	}

	if _, err := h.lots.GetByID(r.Context(), req.ParkingLotID); err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			writeError(w, http.StatusNotFound, "parking lot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve parking lot")
		return
	}

	ownerID, status, msg := h.resolveOwner(r, &req)
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	reservation := &models.Reservation{
		UserID:       ownerID,
		ParkingLotID: req.ParkingLotID,
		LicensePlate: req.LicensePlate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Status:       models.ReservationActive,
	}
	if err := h.reservations.Create(r.Context(), reservation); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create reservation")
		return
	}

	if err := h.lots.AdjustReserved(r.Context(), req.ParkingLotID, 1); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update parking lot")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":      "Success",
		"reservation": reservation,
	})
}

// Get handles GET /reservations/{reservation_id}.
func (h *ReservationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	reservationID, err := pathID(r, "reservation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, err := h.reservations.GetByID(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch reservation")
		return
	}
	if identity.Role != models.RoleAdmin && reservation.UserID != identity.UserID {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Update handles PUT /reservations/{reservation_id}.
func (h *ReservationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	reservationID, err := pathID(r, "reservation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if field, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, "required field missing: "+field)
		return
	}

	reservation, err := h.reservations.GetByID(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch reservation")
		return
	}
	if identity.Role != models.RoleAdmin && reservation.UserID != identity.UserID {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	reservation.LicensePlate = req.LicensePlate
	reservation.StartTime = req.StartTime
	reservation.EndTime = req.EndTime
	if err := h.reservations.Update(r.Context(), reservation); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update reservation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "Updated",
		"reservation": reservation,
	})
}

// Delete handles DELETE /reservations/{reservation_id}.
func (h *ReservationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	reservationID, err := pathID(r, "reservation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, err := h.reservations.GetByID(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch reservation")
		return
	}
	if identity.Role != models.RoleAdmin && reservation.UserID != identity.UserID {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := h.reservations.Delete(r.Context(), reservationID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete reservation")
		return
	}
	if err := h.lots.AdjustReserved(r.Context(), reservation.ParkingLotID, -1); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update parking lot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "Deleted"})
}
