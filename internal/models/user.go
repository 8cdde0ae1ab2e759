package models

import "time"

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is an account row. Password carries the stored hash and never
// serializes.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	BirthYear int       `json:"birth_year"`
	Active    bool      `json:"active"`
}
