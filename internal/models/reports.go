package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report shapes returned by the admin endpoints. These are derived,
// transient values; nothing here is persisted.

// UserCounts aggregates the users table.
type UserCounts struct {
	Total  int64
	Admins int64
	Recent int64
}

// LotTotals aggregates capacity over all lots.
type LotTotals struct {
	Lots     int64
	Capacity int64
	Reserved int64
}

// SessionCounts splits sessions by lifecycle state.
type SessionCounts struct {
	Total  int64
	Active int64
}

// PaymentTotals aggregates the payments table with exact decimal sums.
type PaymentTotals struct {
	Count            int64
	Revenue          decimal.Decimal
	Refunds          decimal.Decimal
	CompletedRevenue decimal.Decimal
	Pending          int64
}

// RecentSession is a dashboard activity row.
type RecentSession struct {
	SessionID      int64      `json:"session_id"`
	Started        time.Time  `json:"started"`
	Stopped        *time.Time `json:"stopped"`
	Username       string     `json:"username"`
	ParkingLotName string     `json:"parking_lot_name"`
	LicensePlate   string     `json:"license_plate"`
}

// RecentPayment is a dashboard activity row.
type RecentPayment struct {
	TransactionID  string          `json:"transaction_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	Username       string          `json:"username"`
	ParkingLotName *string         `json:"parking_lot_name"`
}

// Dashboard is the full /admin/dashboard document.
type Dashboard struct {
	Users          DashboardUsers    `json:"users"`
	ParkingLots    DashboardLots     `json:"parking_lots"`
	Sessions       DashboardSessions `json:"sessions"`
	Vehicles       DashboardVehicles `json:"vehicles"`
	Payments       DashboardPayments `json:"payments"`
	RecentSessions []RecentSession   `json:"recent_sessions"`
	RecentPayments []RecentPayment   `json:"recent_payments"`
}

type DashboardUsers struct {
	Total          int64 `json:"total"`
	Admins         int64 `json:"admins"`
	RegularUsers   int64 `json:"regular_users"`
	RecentNewUsers int64 `json:"recent_new_users"`
}

type DashboardLots struct {
	Total          int64   `json:"total"`
	TotalCapacity  int64   `json:"total_capacity"`
	TotalReserved  int64   `json:"total_reserved"`
	AvailableSpots int64   `json:"available_spots"`
	OccupancyRate  float64 `json:"occupancy_rate"`
}

type DashboardSessions struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}

type DashboardVehicles struct {
	Total int64 `json:"total"`
}

type DashboardPayments struct {
	TotalPayments    int64           `json:"total_payments"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	NetRevenue       decimal.Decimal `json:"net_revenue"`
	CompletedRevenue decimal.Decimal `json:"completed_revenue"`
	PendingPayments  int64           `json:"pending_payments"`
}

// AdminUser is the password-free user row for admin listings.
type AdminUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	BirthYear int       `json:"birth_year"`
	Active    bool      `json:"active"`
}

// UserSession is a session row enriched for the user-detail view.
type UserSession struct {
	ID             int64      `json:"id"`
	ParkingLotID   int64      `json:"parking_lot_id"`
	ParkingLotName string     `json:"parking_lot_name"`
	LicensePlate   string     `json:"license_plate"`
	Started        time.Time  `json:"started"`
	Stopped        *time.Time `json:"stopped"`
}

// UserPayment is a payment row enriched for the user-detail view.
type UserPayment struct {
	ID             int64           `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	ParkingLotName *string         `json:"parking_lot_name"`
}

// UserDetail is the /admin/users/{user_id} document.
type UserDetail struct {
	AdminUser
	Vehicles []Vehicle     `json:"vehicles"`
	Sessions []UserSession `json:"sessions"`
	Payments []UserPayment `json:"payments"`
}

// LotStats is a /admin/parking-lots/stats row.
type LotStats struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	Capacity       int64           `json:"capacity"`
	Reserved       int64           `json:"reserved"`
	TotalSessions  int64           `json:"total_sessions"`
	ActiveSessions int64           `json:"active_sessions"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	OccupancyRate  float64         `json:"occupancy_rate"`
}

// ActiveSessionRow is a /admin/sessions/active row with display joins.
type ActiveSessionRow struct {
	SessionID          int64      `json:"session_id"`
	Started            time.Time  `json:"started"`
	Stopped            *time.Time `json:"stopped"`
	Username           string     `json:"username"`
	UserName           string     `json:"user_name"`
	ParkingLotName     string     `json:"parking_lot_name"`
	ParkingLotLocation string     `json:"parking_lot_location"`
	LicensePlate       string     `json:"license_plate"`
	Make               string     `json:"make"`
	Model              string     `json:"model"`
}

// LotRevenue is a per-lot revenue summary row.
type LotRevenue struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Location     string          `json:"location"`
	Revenue      decimal.Decimal `json:"revenue"`
	Refunds      decimal.Decimal `json:"refunds"`
	PaymentCount int64           `json:"payment_count"`
}

// TopUser is a top-paying-users row.
type TopUser struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	Name         string          `json:"name"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	PaymentCount int64           `json:"payment_count"`
}

// RevenueSummary is the /admin/revenue/summary document.
type RevenueSummary struct {
	RevenueByParkingLot []LotRevenue `json:"revenue_by_parking_lot"`
	TopPayingUsers      []TopUser    `json:"top_paying_users"`
}

// HealthCounts are the four system-health counters.
type HealthCounts struct {
	UnpaidCompletedSessions int64 `json:"unpaid_completed_sessions"`
	LongActiveSessions      int64 `json:"long_active_sessions"`
	PendingPayments         int64 `json:"pending_payments"`
	InactiveUsers           int64 `json:"inactive_users"`
}

// HealthReport is the /admin/system/health document.
type HealthReport struct {
	HealthCounts
	HealthStatus string `json:"health_status"`
}
