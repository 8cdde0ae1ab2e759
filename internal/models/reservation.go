package models

import "time"

// Reservation statuses.
const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
)

// Reservation claims a spot in a lot for a plate and time window.
type Reservation struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ParkingLotID int64     `json:"parking_lot_id"`
	LicensePlate string    `json:"license_plate"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
