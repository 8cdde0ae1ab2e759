package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mobypark/internal/models"
)

// ErrSessionNotFound represents missing session rows.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository handles persistence of parking sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Start creates a session row.
func (r *SessionRepository) Start(ctx context.Context, session *models.Session) error {
	const query = `
		INSERT INTO sessions (user_id, vehicle_id, parking_lot_id, started)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		session.UserID,
		session.VehicleID,
		session.ParkingLotID,
		session.Started,
	).Scan(&session.ID)
}

const sessionColumns = `id, user_id, vehicle_id, parking_lot_id, started, stopped`

func scanSession(scanner interface{ Scan(...any) error }) (*models.Session, error) {
	var s models.Session
	err := scanner.Scan(
		&s.ID,
		&s.UserID,
		&s.VehicleID,
		&s.ParkingLotID,
		&s.Started,
		&s.Stopped,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ActiveByPlate returns the running session for a plate in a lot, if any.
func (r *SessionRepository) ActiveByPlate(ctx context.Context, lotID int64, plate string) (*models.Session, error) {
	const query = `
		SELECT s.id, s.user_id, s.vehicle_id, s.parking_lot_id, s.started, s.stopped
		FROM sessions s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.parking_lot_id = $1 AND v.license_plate = $2 AND s.stopped IS NULL
		LIMIT 1
	`
	return scanSession(r.db.QueryRowContext(ctx, query, lotID, NormalizePlate(plate)))
}

// Stop finalizes a session. A stopped session never reopens.
func (r *SessionRepository) Stop(ctx context.Context, sessionID int64, stoppedAt time.Time) error {
	const query = `
		UPDATE sessions SET stopped = $2
		WHERE id = $1 AND stopped IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, sessionID, stoppedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetByID fetches one session.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 LIMIT 1`
	return scanSession(r.db.QueryRowContext(ctx, query, id))
}

// ListByLot returns sessions in a lot, newest first. userID 0 lists all.
func (r *SessionRepository) ListByLot(ctx context.Context, lotID, userID int64) ([]models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE parking_lot_id = $1 AND ($2 = 0 OR user_id = $2)
		ORDER BY started DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, lotID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByUser returns a user's sessions, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1
		ORDER BY started DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Delete removes a session row.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sessions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
