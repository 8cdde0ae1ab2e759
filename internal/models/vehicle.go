package models

import "time"

// Vehicle belongs to one user, identified by license plate.
type Vehicle struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	LicensePlate string    `json:"license_plate"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Color        string    `json:"color,omitempty"`
	Year         int       `json:"year,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
