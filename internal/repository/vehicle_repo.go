package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"mobypark/internal/models"
)

// Vehicle repo sentinels.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrVehicleExists   = errors.New("vehicle already registered")
)

// VehicleRepository handles CRUD for the vehicles table.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository instance.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// NormalizePlate strips separators so AB-12-CD and AB12CD collide.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), "-", ""))
}

// Create inserts a vehicle for its owner. Plates are unique per user.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	existing, err := r.GetByPlate(ctx, vehicle.UserID, vehicle.LicensePlate)
	if err != nil && !errors.Is(err, ErrVehicleNotFound) {
		return err
	}
	if existing != nil {
		return ErrVehicleExists
	}

	const query = `
		INSERT INTO vehicles (user_id, license_plate, make, model, color, year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		vehicle.UserID,
		NormalizePlate(vehicle.LicensePlate),
		vehicle.Make,
		vehicle.Model,
		vehicle.Color,
		vehicle.Year,
	).Scan(&vehicle.ID, &vehicle.CreatedAt)
}

const vehicleColumns = `id, user_id, license_plate, make, model, color, year, created_at`

func scanVehicle(scanner interface{ Scan(...any) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	err := scanner.Scan(
		&v.ID,
		&v.UserID,
		&v.LicensePlate,
		&v.Make,
		&v.Model,
		&v.Color,
		&v.Year,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetByPlate fetches a user's vehicle by normalized plate.
func (r *VehicleRepository) GetByPlate(ctx context.Context, userID int64, plate string) (*models.Vehicle, error) {
	const query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE user_id = $1 AND license_plate = $2 LIMIT 1`
	return scanVehicle(r.db.QueryRowContext(ctx, query, userID, NormalizePlate(plate)))
}

// GetByID fetches a vehicle by primary key.
func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	const query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 LIMIT 1`
	return scanVehicle(r.db.QueryRowContext(ctx, query, id))
}

// ListByUser returns all vehicles owned by a user.
func (r *VehicleRepository) ListByUser(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	const query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE user_id = $1 ORDER BY created_at DESC`
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update renames a vehicle's make/model/color.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	const query = `
		UPDATE vehicles SET make = $3, model = $4, color = $5, year = $6
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.UserID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Color,
		vehicle.Year,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// Delete removes a user's vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, userID, vehicleID int64) error {
	const query = `DELETE FROM vehicles WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, vehicleID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}
