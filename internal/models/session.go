package models

import "time"

// Session is a parking occupancy record. Stopped is nil while the vehicle
// is still in the lot; the only lifecycle transition is active to
// completed.
type Session struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	VehicleID    int64      `json:"vehicle_id"`
	ParkingLotID int64      `json:"parking_lot_id"`
	Started      time.Time  `json:"started"`
	Stopped      *time.Time `json:"stopped"`
}

// Active reports whether the session is still running.
func (s *Session) Active() bool {
	return s.Stopped == nil
}
