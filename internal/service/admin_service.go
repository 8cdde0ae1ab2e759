package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mobypark/internal/models"
)

// Reporting constants. Fixed by contract, not caller-configurable.
const (
	recentUserWindowDays = 30
	recentActivityLimit  = 10
	topPayersLimit       = 10
	longSessionDays      = 7
	inactiveUserDays     = 90
)

// StatsRepository is the aggregation engine contract. Every method is
// read-only and idempotent.
type StatsRepository interface {
	CountUsers(ctx context.Context, recentDays int) (models.UserCounts, error)
	LotTotals(ctx context.Context) (models.LotTotals, error)
	SessionCounts(ctx context.Context) (models.SessionCounts, error)
	CountVehicles(ctx context.Context) (int64, error)
	PaymentTotals(ctx context.Context) (models.PaymentTotals, error)
	RecentSessions(ctx context.Context, n int) ([]models.RecentSession, error)
	RecentPayments(ctx context.Context, n int) ([]models.RecentPayment, error)
	ListUsers(ctx context.Context) ([]models.AdminUser, error)
	UserByID(ctx context.Context, userID int64) (*models.AdminUser, error)
	UserVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error)
	UserSessions(ctx context.Context, userID int64) ([]models.UserSession, error)
	UserPayments(ctx context.Context, userID int64) ([]models.UserPayment, error)
	LotStats(ctx context.Context) ([]models.LotStats, error)
	ActiveSessions(ctx context.Context) ([]models.ActiveSessionRow, error)
	RevenueByLot(ctx context.Context) ([]models.LotRevenue, error)
	TopPayingUsers(ctx context.Context, k int) ([]models.TopUser, error)
	HealthCounts(ctx context.Context, longDays, inactiveDays int) (models.HealthCounts, error)
}

// AdminService assembles the admin reports. Reports are best-effort
// point-in-time snapshots; a failed aggregation aborts the whole report
// rather than returning a partial document.
type AdminService struct {
	stats  StatsRepository
	logger *zap.Logger
}

// NewAdminService builds AdminService.
func NewAdminService(stats StatsRepository, logger *zap.Logger) *AdminService {
	return &AdminService{stats: stats, logger: logger}
}

// OccupancyRate returns reserved/capacity as a percentage rounded half-up
// to one decimal. Capacity zero reports zero, never a fault.
func OccupancyRate(reserved, capacity int64) float64 {
	if capacity <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(reserved * 100).
		DivRound(decimal.NewFromInt(capacity), 1)
	f, _ := rate.Float64()
	return f
}

// Dashboard composes the system overview.
func (s *AdminService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	users, err := s.stats.CountUsers(ctx, recentUserWindowDays)
	if err != nil {
		return nil, fmt.Errorf("dashboard: users: %w", err)
	}
	lots, err := s.stats.LotTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: parking lots: %w", err)
	}
	sessionCounts, err := s.stats.SessionCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: sessions: %w", err)
	}
	vehicles, err := s.stats.CountVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: vehicles: %w", err)
	}
	payments, err := s.stats.PaymentTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: payments: %w", err)
	}
	recentSessions, err := s.stats.RecentSessions(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: recent sessions: %w", err)
	}
	recentPayments, err := s.stats.RecentPayments(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: recent payments: %w", err)
	}

	return &models.Dashboard{
		Users: models.DashboardUsers{
			Total:          users.Total,
			Admins:         users.Admins,
			RegularUsers:   users.Total - users.Admins,
			RecentNewUsers: users.Recent,
		},
		ParkingLots: models.DashboardLots{
			Total:          lots.Lots,
			TotalCapacity:  lots.Capacity,
			TotalReserved:  lots.Reserved,
			AvailableSpots: lots.Capacity - lots.Reserved,
			OccupancyRate:  OccupancyRate(lots.Reserved, lots.Capacity),
		},
		Sessions: models.DashboardSessions{
			Total:     sessionCounts.Total,
			Active:    sessionCounts.Active,
			Completed: sessionCounts.Total - sessionCounts.Active,
		},
		Vehicles: models.DashboardVehicles{Total: vehicles},
		Payments: models.DashboardPayments{
			TotalPayments:    payments.Count,
			TotalRevenue:     payments.Revenue,
			TotalRefunds:     payments.Refunds,
			NetRevenue:       payments.Revenue.Sub(payments.Refunds),
			CompletedRevenue: payments.CompletedRevenue,
			PendingPayments:  payments.Pending,
		},
		RecentSessions: recentSessions,
		RecentPayments: recentPayments,
	}, nil
}

// ListUsers returns every account, passwords excluded.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	return s.stats.ListUsers(ctx)
}

// UserDetail returns one user with vehicles, sessions and payments.
func (s *AdminService) UserDetail(ctx context.Context, userID int64) (*models.UserDetail, error) {
	user, err := s.stats.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.stats.UserVehicles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user detail: vehicles: %w", err)
	}
	userSessions, err := s.stats.UserSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user detail: sessions: %w", err)
	}
	userPayments, err := s.stats.UserPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user detail: payments: %w", err)
	}

	return &models.UserDetail{
		AdminUser: *user,
		Vehicles:  vehicles,
		Sessions:  userSessions,
		Payments:  userPayments,
	}, nil
}

// LotStats returns per-lot statistics with occupancy rates.
func (s *AdminService) LotStats(ctx context.Context) ([]models.LotStats, error) {
	stats, err := s.stats.LotStats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].OccupancyRate = OccupancyRate(stats[i].Reserved, stats[i].Capacity)
	}
	return stats, nil
}

// ActiveSessions returns every running session with display joins.
func (s *AdminService) ActiveSessions(ctx context.Context) ([]models.ActiveSessionRow, error) {
	return s.stats.ActiveSessions(ctx)
}

// RevenueSummary composes per-lot revenue and the top paying users.
func (s *AdminService) RevenueSummary(ctx context.Context) (*models.RevenueSummary, error) {
	byLot, err := s.stats.RevenueByLot(ctx)
	if err != nil {
		return nil, fmt.Errorf("revenue summary: by lot: %w", err)
	}
	topUsers, err := s.stats.TopPayingUsers(ctx, topPayersLimit)
	if err != nil {
		return nil, fmt.Errorf("revenue summary: top users: %w", err)
	}
	return &models.RevenueSummary{
		RevenueByParkingLot: byLot,
		TopPayingUsers:      topUsers,
	}, nil
}

// SystemHealth gathers the four counters and classifies them.
func (s *AdminService) SystemHealth(ctx context.Context) (*models.HealthReport, error) {
	counts, err := s.stats.HealthCounts(ctx, longSessionDays, inactiveUserDays)
	if err != nil {
		return nil, err
	}
	return &models.HealthReport{
		HealthCounts: counts,
		HealthStatus: EvaluateHealth(counts),
	}, nil
}
