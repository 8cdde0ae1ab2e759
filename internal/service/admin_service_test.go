package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/repository"
)

// fakeStats returns canned aggregates and lets tests fail single calls.
type fakeStats struct {
	users     models.UserCounts
	lots      models.LotTotals
	sessions  models.SessionCounts
	vehicles  int64
	payments  models.PaymentTotals
	recentS   []models.RecentSession
	recentP   []models.RecentPayment
	allUsers  []models.AdminUser
	user      *models.AdminUser
	userErr   error
	lotStats  []models.LotStats
	active    []models.ActiveSessionRow
	byLot     []models.LotRevenue
	topUsers  []models.TopUser
	health    models.HealthCounts
	failCall  string
	gotLimits map[string]int
}

var errStoreDown = errors.New("store down")

func (f *fakeStats) fail(call string) error {
	if f.failCall == call {
		return errStoreDown
	}
	return nil
}

func (f *fakeStats) note(call string, n int) {
	if f.gotLimits == nil {
		f.gotLimits = map[string]int{}
	}
	f.gotLimits[call] = n
}

func (f *fakeStats) CountUsers(_ context.Context, recentDays int) (models.UserCounts, error) {
	f.note("CountUsers", recentDays)
	return f.users, f.fail("CountUsers")
}

func (f *fakeStats) LotTotals(context.Context) (models.LotTotals, error) {
	return f.lots, f.fail("LotTotals")
}

func (f *fakeStats) SessionCounts(context.Context) (models.SessionCounts, error) {
	return f.sessions, f.fail("SessionCounts")
}

func (f *fakeStats) CountVehicles(context.Context) (int64, error) {
	return f.vehicles, f.fail("CountVehicles")
}

func (f *fakeStats) PaymentTotals(context.Context) (models.PaymentTotals, error) {
	return f.payments, f.fail("PaymentTotals")
}

func (f *fakeStats) RecentSessions(_ context.Context, n int) ([]models.RecentSession, error) {
	f.note("RecentSessions", n)
	return f.recentS, f.fail("RecentSessions")
}

func (f *fakeStats) RecentPayments(_ context.Context, n int) ([]models.RecentPayment, error) {
	f.note("RecentPayments", n)
	return f.recentP, f.fail("RecentPayments")
}

func (f *fakeStats) ListUsers(context.Context) ([]models.AdminUser, error) {
	return f.allUsers, f.fail("ListUsers")
}

func (f *fakeStats) UserByID(context.Context, int64) (*models.AdminUser, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeStats) UserVehicles(context.Context, int64) ([]models.Vehicle, error) {
	return nil, f.fail("UserVehicles")
}

func (f *fakeStats) UserSessions(context.Context, int64) ([]models.UserSession, error) {
	return nil, f.fail("UserSessions")
}

func (f *fakeStats) UserPayments(context.Context, int64) ([]models.UserPayment, error) {
	return nil, f.fail("UserPayments")
}

func (f *fakeStats) LotStats(context.Context) ([]models.LotStats, error) {
	return f.lotStats, f.fail("LotStats")
}

func (f *fakeStats) ActiveSessions(context.Context) ([]models.ActiveSessionRow, error) {
	return f.active, f.fail("ActiveSessions")
}

func (f *fakeStats) RevenueByLot(context.Context) ([]models.LotRevenue, error) {
	return f.byLot, f.fail("RevenueByLot")
}

func (f *fakeStats) TopPayingUsers(_ context.Context, k int) ([]models.TopUser, error) {
	f.note("TopPayingUsers", k)
	return f.topUsers, f.fail("TopPayingUsers")
}

func (f *fakeStats) HealthCounts(_ context.Context, longDays, inactiveDays int) (models.HealthCounts, error) {
	f.note("HealthCountsLong", longDays)
	f.note("HealthCountsInactive", inactiveDays)
	return f.health, f.fail("HealthCounts")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOccupancyRate(t *testing.T) {
	cases := []struct {
		name     string
		reserved int64
		capacity int64
		want     float64
	}{
		{"zero capacity reports zero", 5, 0, 0},
		{"empty lot", 0, 10, 0},
		{"plain percentage", 6, 10, 60.0},
		{"rounds to one decimal", 1, 3, 33.3},
		{"rounds half up", 1, 16, 6.3},
		{"just below half stays down", 10000, 160001, 6.2},
		{"full lot", 10, 10, 100.0},
		{"overbooked exceeds hundred", 12, 10, 120.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, OccupancyRate(tc.reserved, tc.capacity), 1e-9)
		})
	}
}

func TestDashboardComposesAggregates(t *testing.T) {
	stats := &fakeStats{
		users:    models.UserCounts{Total: 3, Admins: 1, Recent: 2},
		lots:     models.LotTotals{Lots: 1, Capacity: 10, Reserved: 6},
		sessions: models.SessionCounts{Total: 8, Active: 3},
		vehicles: 4,
		payments: models.PaymentTotals{
			Count:            5,
			Revenue:          dec("50.00"),
			Refunds:          dec("5.00"),
			CompletedRevenue: dec("50.00"),
			Pending:          1,
		},
	}
	svc := NewAdminService(stats, zap.NewNop())

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), dashboard.Users.Total)
	assert.Equal(t, int64(1), dashboard.Users.Admins)
	assert.Equal(t, int64(2), dashboard.Users.RegularUsers)
	assert.Equal(t, int64(2), dashboard.Users.RecentNewUsers)

	assert.Equal(t, int64(4), dashboard.ParkingLots.AvailableSpots)
	assert.InDelta(t, 60.0, dashboard.ParkingLots.OccupancyRate, 1e-9)

	assert.Equal(t, int64(5), dashboard.Sessions.Completed)
	assert.Equal(t, int64(4), dashboard.Vehicles.Total)

	assert.True(t, dashboard.Payments.NetRevenue.Equal(dec("45.00")),
		"net revenue must be exact: got %s", dashboard.Payments.NetRevenue)
	assert.Equal(t, int64(1), dashboard.Payments.PendingPayments)

	assert.Equal(t, 30, stats.gotLimits["CountUsers"])
	assert.Equal(t, 10, stats.gotLimits["RecentSessions"])
	assert.Equal(t, 10, stats.gotLimits["RecentPayments"])
}

func TestDashboardAbortsOnFailedAggregate(t *testing.T) {
	for _, call := range []string{
		"CountUsers", "LotTotals", "SessionCounts", "CountVehicles",
		"PaymentTotals", "RecentSessions", "RecentPayments",
	} {
		t.Run(call, func(t *testing.T) {
			svc := NewAdminService(&fakeStats{failCall: call}, zap.NewNop())

			dashboard, err := svc.Dashboard(context.Background())
			assert.Nil(t, dashboard)
			assert.ErrorIs(t, err, errStoreDown)
		})
	}
}

func TestUserDetailNotFoundPassesThrough(t *testing.T) {
	svc := NewAdminService(&fakeStats{userErr: repository.ErrUserNotFound}, zap.NewNop())

	detail, err := svc.UserDetail(context.Background(), 42)
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserDetailComposesRelatedRows(t *testing.T) {
	stats := &fakeStats{
		user: &models.AdminUser{ID: 7, Username: "daily_user", Role: models.RoleUser},
	}
	svc := NewAdminService(stats, zap.NewNop())

	detail, err := svc.UserDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.ID)
	assert.Equal(t, "daily_user", detail.Username)
}

func TestLotStatsAddsOccupancy(t *testing.T) {
	stats := &fakeStats{
		lotStats: []models.LotStats{
			{ID: 1, Capacity: 10, Reserved: 6},
			{ID: 2, Capacity: 0, Reserved: 0},
		},
	}
	svc := NewAdminService(stats, zap.NewNop())

	rows, err := svc.LotStats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 60.0, rows[0].OccupancyRate, 1e-9)
	assert.InDelta(t, 0.0, rows[1].OccupancyRate, 1e-9)
}

func TestRevenueSummaryUsesTopTen(t *testing.T) {
	stats := &fakeStats{
		byLot:    []models.LotRevenue{{ID: 1, Revenue: dec("120.50")}},
		topUsers: []models.TopUser{{ID: 3, TotalPaid: dec("99.99")}},
	}
	svc := NewAdminService(stats, zap.NewNop())

	summary, err := svc.RevenueSummary(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.RevenueByParkingLot, 1)
	assert.Len(t, summary.TopPayingUsers, 1)
	assert.Equal(t, 10, stats.gotLimits["TopPayingUsers"])
}

func TestRevenueSummaryAbortsOnFailure(t *testing.T) {
	svc := NewAdminService(&fakeStats{failCall: "TopPayingUsers"}, zap.NewNop())

	summary, err := svc.RevenueSummary(context.Background())
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestSystemHealthUsesContractWindows(t *testing.T) {
	stats := &fakeStats{health: models.HealthCounts{LongActiveSessions: 1}}
	svc := NewAdminService(stats, zap.NewNop())

	report, err := svc.SystemHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthNeedsAttention, report.HealthStatus)
	assert.Equal(t, 7, stats.gotLimits["HealthCountsLong"])
	assert.Equal(t, 90, stats.gotLimits["HealthCountsInactive"])
}
