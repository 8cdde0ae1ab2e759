package httpserver

import (
	"net/http"

	"mobypark/internal/http/handlers"
	"mobypark/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Health       http.HandlerFunc
	Register     http.HandlerFunc
	Login        http.HandlerFunc
	Profile      http.HandlerFunc
	ProfileSave  http.HandlerFunc
	Logout       http.HandlerFunc
	Vehicles     *handlers.VehicleHandlers
	ParkingLots  *handlers.ParkingLotHandlers
	Sessions     *handlers.SessionHandlers
	Reservations *handlers.ReservationHandlers
	Payments     *handlers.PaymentHandlers
	Admin        *handlers.AdminHandlers
}

// NewRouter wires routes with the session and admin guards. Every /admin
// route passes through the same RequireAdmin chain; the check is never
// duplicated per handler.
func NewRouter(deps RouterDeps, sessionGuard middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, sessionGuard)
	}
	adminOnly := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, sessionGuard, middleware.RequireAdmin)
	}

	mux.Handle("GET /{$}", deps.Health)

	mux.Handle("POST /register", deps.Register)
	mux.Handle("POST /login", deps.Login)
	mux.Handle("GET /profile", authenticated(deps.Profile))
	mux.Handle("PUT /profile", authenticated(deps.ProfileSave))
	mux.Handle("GET /logout", deps.Logout)

	mux.Handle("POST /vehicles", authenticated(deps.Vehicles.Create))
	mux.Handle("GET /vehicles", authenticated(deps.Vehicles.ListOwn))
	mux.Handle("GET /vehicles/user/{username}", adminOnly(deps.Vehicles.ListForUser))
	mux.Handle("PUT /vehicles/{vehicle_id}", authenticated(deps.Vehicles.Update))
	mux.Handle("DELETE /vehicles/{vehicle_id}", authenticated(deps.Vehicles.Delete))

	mux.Handle("GET /parking-lots", http.HandlerFunc(deps.ParkingLots.List))
	mux.Handle("GET /parking-lots/{lot_id}", http.HandlerFunc(deps.ParkingLots.Get))
	mux.Handle("POST /parking-lots", adminOnly(deps.ParkingLots.Create))
	mux.Handle("PUT /parking-lots/{lot_id}", adminOnly(deps.ParkingLots.Update))
	mux.Handle("DELETE /parking-lots/{lot_id}", adminOnly(deps.ParkingLots.Delete))

	mux.Handle("POST /parking-lots/{lot_id}/sessions/start", authenticated(deps.Sessions.Start))
	mux.Handle("POST /parking-lots/{lot_id}/sessions/stop", authenticated(deps.Sessions.Stop))
	mux.Handle("GET /parking-lots/{lot_id}/sessions", authenticated(deps.Sessions.List))
	mux.Handle("GET /parking-lots/{lot_id}/sessions/{session_id}", authenticated(deps.Sessions.Get))
	mux.Handle("DELETE /parking-lots/{lot_id}/sessions/{session_id}", adminOnly(deps.Sessions.Delete))

	mux.Handle("POST /reservations", authenticated(deps.Reservations.Create))
	mux.Handle("GET /reservations/{reservation_id}", authenticated(deps.Reservations.Get))
	mux.Handle("PUT /reservations/{reservation_id}", authenticated(deps.Reservations.Update))
	mux.Handle("DELETE /reservations/{reservation_id}", authenticated(deps.Reservations.Delete))

	mux.Handle("POST /payments", authenticated(deps.Payments.Create))
	mux.Handle("POST /payments/refund", adminOnly(deps.Payments.Refund))
	mux.Handle("PUT /payments/{transaction_id}", authenticated(deps.Payments.Complete))
	mux.Handle("GET /payments", authenticated(deps.Payments.ListOwn))
	mux.Handle("GET /payments/user/{username}", adminOnly(deps.Payments.ListForUser))
	mux.Handle("GET /billing", authenticated(deps.Payments.BillingOwn))
	mux.Handle("GET /billing/{username}", adminOnly(deps.Payments.BillingForUser))

	mux.Handle("GET /admin/dashboard", adminOnly(deps.Admin.Dashboard))
	mux.Handle("GET /admin/users", adminOnly(deps.Admin.ListUsers))
	mux.Handle("GET /admin/users/{user_id}", adminOnly(deps.Admin.UserDetail))
	mux.Handle("GET /admin/parking-lots/stats", adminOnly(deps.Admin.LotStats))
	mux.Handle("GET /admin/sessions/active", adminOnly(deps.Admin.ActiveSessions))
	mux.Handle("GET /admin/revenue/summary", adminOnly(deps.Admin.RevenueSummary))
	mux.Handle("GET /admin/system/health", adminOnly(deps.Admin.SystemHealth))

	return mux
}
