package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mobypark/internal/http/middleware"
	"mobypark/internal/models"
	"mobypark/internal/repository"
)

// VehicleHandlers exposes vehicle CRUD over the vehicle repository.
type VehicleHandlers struct {
	vehicles *repository.VehicleRepository
	users    *repository.UserRepository
}

// NewVehicleHandlers builds VehicleHandlers.
func NewVehicleHandlers(vehicles *repository.VehicleRepository, users *repository.UserRepository) *VehicleHandlers {
	return &VehicleHandlers{vehicles: vehicles, users: users}
}

type vehicleRequest struct {
	LicensePlate string `json:"license_plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	Year         int    `json:"year"`
}

// Create handles POST /vehicles.
func (h *VehicleHandlers) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.LicensePlate == "" {
		writeError(w, http.StatusBadRequest, "license_plate is required")
		return
	}

	vehicle := &models.Vehicle{
		UserID:       identity.UserID,
		LicensePlate: req.LicensePlate,
		Make:         req.Make,
		Model:        req.Model,
		Color:        req.Color,
		Year:         req.Year,
	}
	if err := h.vehicles.Create(r.Context(), vehicle); err != nil {
		if errors.Is(err, repository.ErrVehicleExists) {
			writeError(w, http.StatusBadRequest, "vehicle already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create vehicle")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "Success",
		"vehicle": vehicle,
	})
}

// ListOwn handles GET /vehicles.
func (h *VehicleHandlers) ListOwn(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	vehicles, err := h.vehicles.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// ListForUser handles GET /vehicles/user/{username} (admin).
func (h *VehicleHandlers) ListForUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve user")
		return
	}

	vehicles, err := h.vehicles.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Update handles PUT /vehicles/{vehicle_id}.
func (h *VehicleHandlers) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	vehicleID, err := pathID(r, "vehicle_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vehicle := &models.Vehicle{
		ID:     vehicleID,
		UserID: identity.UserID,
		Make:   req.Make,
		Model:  req.Model,
		Color:  req.Color,
		Year:   req.Year,
	}
	if err := h.vehicles.Update(r.Context(), vehicle); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update vehicle")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "Success",
		"vehicle": vehicle,
	})
}

// Delete handles DELETE /vehicles/{vehicle_id}.
func (h *VehicleHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	vehicleID, err := pathID(r, "vehicle_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	if err := h.vehicles.Delete(r.Context(), identity.UserID, vehicleID); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "Deleted"})
}
