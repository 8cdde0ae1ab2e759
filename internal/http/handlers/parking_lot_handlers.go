package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"mobypark/internal/models"
	"mobypark/internal/repository"
)

// ParkingLotHandlers exposes lot CRUD over the lot repository. Listing is
// public; mutations are admin-only at the route level.
type ParkingLotHandlers struct {
	lots *repository.ParkingLotRepository
}

// NewParkingLotHandlers builds ParkingLotHandlers.
func NewParkingLotHandlers(lots *repository.ParkingLotRepository) *ParkingLotHandlers {
	return &ParkingLotHandlers{lots: lots}
}

type parkingLotRequest struct {
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Address   string          `json:"address"`
	Capacity  int64           `json:"capacity"`
	Reserved  int64           `json:"reserved"`
	Tariff    decimal.Decimal `json:"tariff"`
	DayTariff decimal.Decimal `json:"day_tariff"`
}

// List handles GET /parking-lots.
func (h *ParkingLotHandlers) List(w http.ResponseWriter, r *http.Request) {
	lots, err := h.lots.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list parking lots")
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

// Get handles GET /parking-lots/{lot_id}.
func (h *ParkingLotHandlers) Get(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "lot_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	lot, err := h.lots.GetByID(r.Context(), lotID)
	if err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			writeError(w, http.StatusNotFound, "parking lot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch parking lot")
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

// Create handles POST /parking-lots (admin).
func (h *ParkingLotHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req parkingLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	lot := &models.ParkingLot{
		Name:      req.Name,
		Location:  req.Location,
		Address:   req.Address,
		Capacity:  req.Capacity,
		Reserved:  req.Reserved,
		Tariff:    req.Tariff,
		DayTariff: req.DayTariff,
	}
	if err := h.lots.Create(r.Context(), lot); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create parking lot")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Parking lot created",
		"id":      lot.ID,
	})
}

// Update handles PUT /parking-lots/{lot_id} (admin).
func (h *ParkingLotHandlers) Update(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "lot_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	var req parkingLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lot := &models.ParkingLot{
		ID:        lotID,
		Name:      req.Name,
		Location:  req.Location,
		Address:   req.Address,
		Capacity:  req.Capacity,
		Reserved:  req.Reserved,
		Tariff:    req.Tariff,
		DayTariff: req.DayTariff,
	}
	if err := h.lots.Update(r.Context(), lot); err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			writeError(w, http.StatusNotFound, "parking lot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update parking lot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Parking lot modified"})
}

// Delete handles DELETE /parking-lots/{lot_id} (admin).
func (h *ParkingLotHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "lot_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parking lot id")
		return
	}

	if err := h.lots.Delete(r.Context(), lotID); err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			writeError(w, http.StatusNotFound, "parking lot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete parking lot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Parking lot deleted"})
}
