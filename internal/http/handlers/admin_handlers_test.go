package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/repository"
	"mobypark/internal/service"
)

// stubStats satisfies service.StatsRepository with canned values. A
// non-nil err fails every aggregate.
type stubStats struct {
	err    error
	user   *models.AdminUser
	health models.HealthCounts
}

func (s *stubStats) CountUsers(context.Context, int) (models.UserCounts, error) {
	return models.UserCounts{Total: 3, Admins: 1}, s.err
}

func (s *stubStats) LotTotals(context.Context) (models.LotTotals, error) {
	return models.LotTotals{Lots: 1, Capacity: 10, Reserved: 6}, s.err
}

func (s *stubStats) SessionCounts(context.Context) (models.SessionCounts, error) {
	return models.SessionCounts{Total: 4, Active: 1}, s.err
}

func (s *stubStats) CountVehicles(context.Context) (int64, error) { return 2, s.err }

func (s *stubStats) PaymentTotals(context.Context) (models.PaymentTotals, error) {
	return models.PaymentTotals{Count: 2}, s.err
}

func (s *stubStats) RecentSessions(context.Context, int) ([]models.RecentSession, error) {
	return nil, s.err
}

func (s *stubStats) RecentPayments(context.Context, int) ([]models.RecentPayment, error) {
	return nil, s.err
}

func (s *stubStats) ListUsers(context.Context) ([]models.AdminUser, error) { return nil, s.err }

func (s *stubStats) UserByID(context.Context, int64) (*models.AdminUser, error) {
	if s.user == nil {
		return nil, repository.ErrUserNotFound
	}
	return s.user, s.err
}

func (s *stubStats) UserVehicles(context.Context, int64) ([]models.Vehicle, error) {
	return nil, s.err
}

func (s *stubStats) UserSessions(context.Context, int64) ([]models.UserSession, error) {
	return nil, s.err
}

func (s *stubStats) UserPayments(context.Context, int64) ([]models.UserPayment, error) {
	return nil, s.err
}

func (s *stubStats) LotStats(context.Context) ([]models.LotStats, error) { return nil, s.err }

func (s *stubStats) ActiveSessions(context.Context) ([]models.ActiveSessionRow, error) {
	return nil, s.err
}

func (s *stubStats) RevenueByLot(context.Context) ([]models.LotRevenue, error) { return nil, s.err }

func (s *stubStats) TopPayingUsers(context.Context, int) ([]models.TopUser, error) {
	return nil, s.err
}

func (s *stubStats) HealthCounts(context.Context, int, int) (models.HealthCounts, error) {
	return s.health, s.err
}

func adminHandlers(stats *stubStats) *AdminHandlers {
	return NewAdminHandlers(service.NewAdminService(stats, zap.NewNop()), zap.NewNop())
}

func TestDashboardHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

	adminHandlers(&stubStats{}).Dashboard(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"users", "parking_lots", "sessions", "vehicles", "payments", "recent_sessions", "recent_payments"} {
		assert.Contains(t, body, key)
	}
}

func TestDashboardHandlerHidesStoreFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)

	adminHandlers(&stubStats{err: errors.New("pq: connection reset")}).Dashboard(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "statistics temporarily unavailable")
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestUserDetailHandlerUnknownUser(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/users/999", nil)
	req.SetPathValue("user_id", "999")

	adminHandlers(&stubStats{}).UserDetail(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestUserDetailHandlerBadID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/users/abc", nil)
	req.SetPathValue("user_id", "abc")

	adminHandlers(&stubStats{}).UserDetail(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserDetailHandlerFound(t *testing.T) {
	stats := &stubStats{user: &models.AdminUser{ID: 7, Username: "daily_user"}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/users/7", nil)
	req.SetPathValue("user_id", "7")

	adminHandlers(stats).UserDetail(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.UserDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "daily_user", detail.Username)
}

func TestSystemHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/system/health", nil)

	adminHandlers(&stubStats{}).SystemHealth(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, service.HealthHealthy, report.HealthStatus)
}
