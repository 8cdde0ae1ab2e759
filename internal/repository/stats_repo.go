package repository

import (
	"context"
	"database/sql"

	"mobypark/internal/models"
)

// StatsRepository issues the read-only aggregate queries behind the admin
// reports. It never mutates entity rows.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository returns repository instance.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountUsers returns totals plus the subset created inside the recency
// window (days).
func (r *StatsRepository) CountUsers(ctx context.Context, recentDays int) (models.UserCounts, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'ADMIN'),
			COUNT(*) FILTER (WHERE created_at >= NOW() - make_interval(days => $1))
		FROM users
	`
	var counts models.UserCounts
	err := r.db.QueryRowContext(ctx, query, recentDays).
		Scan(&counts.Total, &counts.Admins, &counts.Recent)
	return counts, err
}

// LotTotals sums capacity and reservations over all lots.
func (r *StatsRepository) LotTotals(ctx context.Context) (models.LotTotals, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(capacity), 0), COALESCE(SUM(reserved), 0)
		FROM parking_lots
	`
	var totals models.LotTotals
	err := r.db.QueryRowContext(ctx, query).
		Scan(&totals.Lots, &totals.Capacity, &totals.Reserved)
	return totals, err
}

// SessionCounts splits sessions into active and completed.
func (r *StatsRepository) SessionCounts(ctx context.Context) (models.SessionCounts, error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE stopped IS NULL)
		FROM sessions
	`
	var counts models.SessionCounts
	err := r.db.QueryRowContext(ctx, query).Scan(&counts.Total, &counts.Active)
	return counts, err
}

// CountVehicles returns the vehicle total.
func (r *StatsRepository) CountVehicles(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM vehicles`
	var total int64
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}

// PaymentTotals aggregates payment amounts by status. Sums stay exact:
// numeric columns scan into decimals, never floats.
func (r *StatsRepository) PaymentTotals(ctx context.Context) (models.PaymentTotals, error) {
	const query = `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'refunded'), 0),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM payments
	`
	var totals models.PaymentTotals
	err := r.db.QueryRowContext(ctx, query).
		Scan(&totals.Count, &totals.Revenue, &totals.Refunds, &totals.Pending)
	if err != nil {
		return totals, err
	}
	totals.CompletedRevenue = totals.Revenue
	return totals, nil
}

// RecentSessions returns the n newest sessions with display joins. Ties on
// the timestamp break by id descending so repeated calls agree.
func (r *StatsRepository) RecentSessions(ctx context.Context, n int) ([]models.RecentSession, error) {
	const query = `
		SELECT s.id, s.started, s.stopped,
		       COALESCE(u.username, ''), COALESCE(pl.name, ''), COALESCE(v.license_plate, '')
		FROM sessions s
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN parking_lots pl ON pl.id = s.parking_lot_id
		LEFT JOIN vehicles v ON v.id = s.vehicle_id
		ORDER BY s.started DESC, s.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.RecentSession{}
	for rows.Next() {
		var row models.RecentSession
		if err := rows.Scan(
			&row.SessionID,
			&row.Started,
			&row.Stopped,
			&row.Username,
			&row.ParkingLotName,
			&row.LicensePlate,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// RecentPayments returns the n newest payments with display joins.
func (r *StatsRepository) RecentPayments(ctx context.Context, n int) ([]models.RecentPayment, error) {
	const query = `
		SELECT p.transaction_id, p.amount, p.status, p.created_at,
		       COALESCE(u.username, ''), pl.name
		FROM payments p
		LEFT JOIN users u ON u.id = p.user_id
		LEFT JOIN parking_lots pl ON pl.id = p.parking_lot_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.RecentPayment{}
	for rows.Next() {
		var row models.RecentPayment
		if err := rows.Scan(
			&row.TransactionID,
			&row.Amount,
			&row.Status,
			&row.CreatedAt,
			&row.Username,
			&row.ParkingLotName,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

const adminUserColumns = `id, username, name, email, phone, role, created_at, birth_year, active`

// ListUsers returns every account without password material.
func (r *StatsRepository) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	const query = `SELECT ` + adminUserColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.AdminUser{}
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone,
			&u.Role, &u.CreatedAt, &u.BirthYear, &u.Active,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserByID returns one password-free user row.
func (r *StatsRepository) UserByID(ctx context.Context, userID int64) (*models.AdminUser, error) {
	const query = `SELECT ` + adminUserColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var u models.AdminUser
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone,
		&u.Role, &u.CreatedAt, &u.BirthYear, &u.Active,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UserVehicles lists the vehicles owned by a user.
func (r *StatsRepository) UserVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	const query = `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

// UserSessions lists a user's sessions with display joins.
func (r *StatsRepository) UserSessions(ctx context.Context, userID int64) ([]models.UserSession, error) {
	const query = `
		SELECT s.id, s.parking_lot_id, COALESCE(pl.name, ''), COALESCE(v.license_plate, ''), s.started, s.stopped
		FROM sessions s
		LEFT JOIN parking_lots pl ON pl.id = s.parking_lot_id
		LEFT JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.user_id = $1
		ORDER BY s.started DESC, s.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.UserSession{}
	for rows.Next() {
		var row models.UserSession
		if err := rows.Scan(
			&row.ID,
			&row.ParkingLotID,
			&row.ParkingLotName,
			&row.LicensePlate,
			&row.Started,
			&row.Stopped,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// UserPayments lists a user's payments with display joins.
func (r *StatsRepository) UserPayments(ctx context.Context, userID int64) ([]models.UserPayment, error) {
	const query = `
		SELECT p.id, p.transaction_id, p.amount, p.status, p.created_at, pl.name
		FROM payments p
		LEFT JOIN parking_lots pl ON pl.id = p.parking_lot_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.UserPayment{}
	for rows.Next() {
		var row models.UserPayment
		if err := rows.Scan(
			&row.ID,
			&row.TransactionID,
			&row.Amount,
			&row.Status,
			&row.CreatedAt,
			&row.ParkingLotName,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// LotStats returns per-lot session totals and completed revenue. Payments
// and sessions aggregate in separate subqueries so the joins cannot fan
// out against each other.
func (r *StatsRepository) LotStats(ctx context.Context) ([]models.LotStats, error) {
	const query = `
		SELECT
			pl.id, pl.name, pl.location, pl.capacity, pl.reserved,
			COALESCE(s.total_sessions, 0),
			COALESCE(s.active_sessions, 0),
			COALESCE(p.total_revenue, 0)
		FROM parking_lots pl
		LEFT JOIN (
			SELECT parking_lot_id,
			       COUNT(*) AS total_sessions,
			       COUNT(*) FILTER (WHERE stopped IS NULL) AS active_sessions
			FROM sessions
			GROUP BY parking_lot_id
		) s ON s.parking_lot_id = pl.id
		LEFT JOIN (
			SELECT parking_lot_id, SUM(amount) AS total_revenue
			FROM payments
			WHERE status = 'completed'
			GROUP BY parking_lot_id
		) p ON p.parking_lot_id = pl.id
		ORDER BY COALESCE(p.total_revenue, 0) DESC, pl.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.LotStats{}
	for rows.Next() {
		var row models.LotStats
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Location,
			&row.Capacity,
			&row.Reserved,
			&row.TotalSessions,
			&row.ActiveSessions,
			&row.TotalRevenue,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ActiveSessions lists every running session with its display joins.
func (r *StatsRepository) ActiveSessions(ctx context.Context) ([]models.ActiveSessionRow, error) {
	const query = `
		SELECT s.id, s.started,
		       COALESCE(u.username, ''), COALESCE(u.name, ''),
		       COALESCE(pl.name, ''), COALESCE(pl.location, ''),
		       COALESCE(v.license_plate, ''), COALESCE(v.make, ''), COALESCE(v.model, '')
		FROM sessions s
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN parking_lots pl ON pl.id = s.parking_lot_id
		LEFT JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.stopped IS NULL
		ORDER BY s.started DESC, s.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.ActiveSessionRow{}
	for rows.Next() {
		var row models.ActiveSessionRow
		if err := rows.Scan(
			&row.SessionID,
			&row.Started,
			&row.Username,
			&row.UserName,
			&row.ParkingLotName,
			&row.ParkingLotLocation,
			&row.LicensePlate,
			&row.Make,
			&row.Model,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// RevenueByLot returns per-lot revenue, refunds and payment counts.
func (r *StatsRepository) RevenueByLot(ctx context.Context) ([]models.LotRevenue, error) {
	const query = `
		SELECT
			pl.id, pl.name, pl.location,
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'completed'), 0),
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'refunded'), 0),
			COUNT(p.id)
		FROM parking_lots pl
		LEFT JOIN payments p ON p.parking_lot_id = pl.id
		GROUP BY pl.id, pl.name, pl.location
		ORDER BY 4 DESC, pl.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.LotRevenue{}
	for rows.Next() {
		var row models.LotRevenue
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Location,
			&row.Revenue,
			&row.Refunds,
			&row.PaymentCount,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// TopPayingUsers ranks users by completed payment volume net of refunds,
// ties broken by ascending id, truncated to k.
func (r *StatsRepository) TopPayingUsers(ctx context.Context, k int) ([]models.TopUser, error) {
	const query = `
		SELECT u.id, u.username, u.name,
		       SUM(CASE WHEN p.status = 'completed' THEN p.amount ELSE -p.amount END) AS total_paid,
		       COUNT(p.id)
		FROM users u
		JOIN payments p ON p.user_id = u.id AND p.status IN ('completed', 'refunded')
		GROUP BY u.id, u.username, u.name
		HAVING SUM(CASE WHEN p.status = 'completed' THEN p.amount ELSE -p.amount END) > 0
		ORDER BY total_paid DESC, u.id ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.TopUser{}
	for rows.Next() {
		var row models.TopUser
		if err := rows.Scan(
			&row.ID,
			&row.Username,
			&row.Name,
			&row.TotalPaid,
			&row.PaymentCount,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// HealthCounts gathers the four system-health counters. Long-running means
// an active session older than longDays; inactive means a USER with no
// session inside inactiveDays.
func (r *StatsRepository) HealthCounts(ctx context.Context, longDays, inactiveDays int) (models.HealthCounts, error) {
	var counts models.HealthCounts

	const unpaidQuery = `
		SELECT COUNT(*)
		FROM sessions s
		LEFT JOIN payments p ON p.session_id = s.id
		WHERE s.stopped IS NOT NULL AND p.id IS NULL
	`
	if err := r.db.QueryRowContext(ctx, unpaidQuery).Scan(&counts.UnpaidCompletedSessions); err != nil {
		return counts, err
	}

	const longQuery = `
		SELECT COUNT(*)
		FROM sessions
		WHERE stopped IS NULL AND started < NOW() - make_interval(days => $1)
	`
	if err := r.db.QueryRowContext(ctx, longQuery, longDays).Scan(&counts.LongActiveSessions); err != nil {
		return counts, err
	}

	const pendingQuery = `SELECT COUNT(*) FROM payments WHERE status = 'pending'`
	if err := r.db.QueryRowContext(ctx, pendingQuery).Scan(&counts.PendingPayments); err != nil {
		return counts, err
	}

	const inactiveQuery = `
		SELECT COUNT(DISTINCT u.id)
		FROM users u
		LEFT JOIN sessions s ON s.user_id = u.id AND s.started >= NOW() - make_interval(days => $1)
		WHERE s.id IS NULL AND u.role = 'USER'
	`
	if err := r.db.QueryRowContext(ctx, inactiveQuery, inactiveDays).Scan(&counts.InactiveUsers); err != nil {
		return counts, err
	}

	return counts, nil
}
