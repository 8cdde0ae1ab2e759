package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mobypark/internal/repository"
	"mobypark/internal/service"
)

// AdminHandlers exposes the seven reporting endpoints. Route-level
// middleware already guarantees the caller is an authenticated admin. A
// failed aggregation aborts the whole report; no partial documents.
type AdminHandlers struct {
	admin  *service.AdminService
	logger *zap.Logger
}

// NewAdminHandlers builds AdminHandlers.
func NewAdminHandlers(admin *service.AdminService, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{admin: admin, logger: logger}
}

// reportError hides store detail behind a generic 503.
func (h *AdminHandlers) reportError(w http.ResponseWriter, report string, err error) {
	h.logger.Error("admin report failed", zap.String("report", report), zap.Error(err))
	writeError(w, http.StatusServiceUnavailable, "statistics temporarily unavailable")
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.admin.Dashboard(r.Context())
	if err != nil {
		h.reportError(w, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// ListUsers handles GET /admin/users.
func (h *AdminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.reportError(w, "users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UserDetail handles GET /admin/users/{user_id}.
func (h *AdminHandlers) UserDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	detail, err := h.admin.UserDetail(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.reportError(w, "user detail", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// LotStats handles GET /admin/parking-lots/stats.
func (h *AdminHandlers) LotStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.LotStats(r.Context())
	if err != nil {
		h.reportError(w, "parking lot stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ActiveSessions handles GET /admin/sessions/active.
func (h *AdminHandlers) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.admin.ActiveSessions(r.Context())
	if err != nil {
		h.reportError(w, "active sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// RevenueSummary handles GET /admin/revenue/summary.
func (h *AdminHandlers) RevenueSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.admin.RevenueSummary(r.Context())
	if err != nil {
		h.reportError(w, "revenue summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SystemHealth handles GET /admin/system/health.
func (h *AdminHandlers) SystemHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.admin.SystemHealth(r.Context())
	if err != nil {
		h.reportError(w, "system health", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
