package repository

import (
	"context"
	"database/sql"
	"errors"

	"mobypark/internal/models"
)

// ErrReservationNotFound represents missing reservation rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepository handles CRUD for the reservations table.
type ReservationRepository struct {
	db *sql.DB
}

// NewReservationRepository returns repository instance.
func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, user_id, parking_lot_id, license_plate, start_time, end_time, status, created_at`

func scanReservation(scanner interface{ Scan(...any) error }) (*models.Reservation, error) {
	var res models.Reservation
	err := scanner.Scan(
		&res.ID,
		&res.UserID,
		&res.ParkingLotID,
		&res.LicensePlate,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Create inserts a reservation.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	const query = `
		INSERT INTO reservations (user_id, parking_lot_id, license_plate, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		res.UserID,
		res.ParkingLotID,
		NormalizePlate(res.LicensePlate),
		res.StartTime,
		res.EndTime,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt)
}

// GetByID fetches one reservation.
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 LIMIT 1`
	return scanReservation(r.db.QueryRowContext(ctx, query, id))
}

// Update rewrites the reservation window and plate.
func (r *ReservationRepository) Update(ctx context.Context, res *models.Reservation) error {
	const query = `
		UPDATE reservations
		SET license_plate = $2, start_time = $3, end_time = $4, status = $5, user_id = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		res.ID,
		NormalizePlate(res.LicensePlate),
		res.StartTime,
		res.EndTime,
		res.Status,
		res.UserID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// Delete removes a reservation.
func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM reservations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}
