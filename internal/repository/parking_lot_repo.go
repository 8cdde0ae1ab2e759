package repository

import (
	"context"
	"database/sql"
	"errors"

	"mobypark/internal/models"
)

// ErrLotNotFound represents missing parking lot rows.
var ErrLotNotFound = errors.New("parking lot not found")

// ParkingLotRepository handles CRUD for the parking_lots table.
type ParkingLotRepository struct {
	db *sql.DB
}

// NewParkingLotRepository returns repository instance.
func NewParkingLotRepository(db *sql.DB) *ParkingLotRepository {
	return &ParkingLotRepository{db: db}
}

const lotColumns = `id, name, location, address, capacity, reserved, tariff, day_tariff, created_at`

func scanLot(scanner interface{ Scan(...any) error }) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	err := scanner.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Location,
		&lot.Address,
		&lot.Capacity,
		&lot.Reserved,
		&lot.Tariff,
		&lot.DayTariff,
		&lot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// Create inserts a lot.
func (r *ParkingLotRepository) Create(ctx context.Context, lot *models.ParkingLot) error {
	const query = `
		INSERT INTO parking_lots (name, location, address, capacity, reserved, tariff, day_tariff)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		lot.Name,
		lot.Location,
		lot.Address,
		lot.Capacity,
		lot.Reserved,
		lot.Tariff,
		lot.DayTariff,
	).Scan(&lot.ID, &lot.CreatedAt)
}

// GetByID fetches one lot.
func (r *ParkingLotRepository) GetByID(ctx context.Context, id int64) (*models.ParkingLot, error) {
	const query = `SELECT ` + lotColumns + ` FROM parking_lots WHERE id = $1 LIMIT 1`
	return scanLot(r.db.QueryRowContext(ctx, query, id))
}

// List returns all lots.
func (r *ParkingLotRepository) List(ctx context.Context) ([]models.ParkingLot, error) {
	const query = `SELECT ` + lotColumns + ` FROM parking_lots ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := []models.ParkingLot{}
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// Update rewrites a lot's attributes.
func (r *ParkingLotRepository) Update(ctx context.Context, lot *models.ParkingLot) error {
	const query = `
		UPDATE parking_lots
		SET name = $2, location = $3, address = $4, capacity = $5, reserved = $6, tariff = $7, day_tariff = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		lot.ID,
		lot.Name,
		lot.Location,
		lot.Address,
		lot.Capacity,
		lot.Reserved,
		lot.Tariff,
		lot.DayTariff,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLotNotFound
	}
	return nil
}

// Delete removes a lot.
func (r *ParkingLotRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM parking_lots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLotNotFound
	}
	return nil
}

// AdjustReserved moves the reserved counter by delta, clamped at zero.
func (r *ParkingLotRepository) AdjustReserved(ctx context.Context, id int64, delta int64) error {
	const query = `
		UPDATE parking_lots
		SET reserved = GREATEST(reserved + $2, 0)
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLotNotFound
	}
	return nil
}
