package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"mobypark/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles CRUD for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	const query = `
		INSERT INTO users (username, password, name, email, phone, role, birth_year, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Password,
		user.Name,
		user.Email,
		user.Phone,
		user.Role,
		user.BirthYear,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)
}

const userColumns = `id, username, password, name, email, phone, role, created_at, birth_year, active`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.BirthYear,
		&user.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.TrimSpace(username)))
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Update writes the mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	const query = `
		UPDATE users
		SET name = $2, password = $3, role = $4, email = $5, phone = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Password,
		user.Role,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.Phone,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces only the stored hash, used for the legacy
// MD5-to-bcrypt upgrade on login.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	const query = `UPDATE users SET password = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, hash)
	return err
}
