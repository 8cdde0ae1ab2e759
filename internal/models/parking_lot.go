package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParkingLot holds static lot data plus the live reserved counter.
// Tariff is the hourly rate, DayTariff the per-day cap.
type ParkingLot struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Address   string          `json:"address,omitempty"`
	Capacity  int64           `json:"capacity"`
	Reserved  int64           `json:"reserved"`
	Tariff    decimal.Decimal `json:"tariff"`
	DayTariff decimal.Decimal `json:"day_tariff"`
	CreatedAt time.Time       `json:"created_at"`
}
