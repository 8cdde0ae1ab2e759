package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"mobypark/internal/models"
)

// ErrPaymentNotFound represents missing payment rows.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository handles persistence of payments.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository returns repository instance.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	const query = `
		INSERT INTO payments (transaction_id, session_id, user_id, parking_lot_id, amount, status, validation_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		payment.TransactionID,
		payment.SessionID,
		payment.UserID,
		payment.ParkingLotID,
		payment.Amount,
		payment.Status,
		payment.ValidationHash,
	).Scan(&payment.ID, &payment.CreatedAt)
}

const paymentColumns = `id, transaction_id, session_id, user_id, parking_lot_id, amount, status, validation_hash, created_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	err := scanner.Scan(
		&p.ID,
		&p.TransactionID,
		&p.SessionID,
		&p.UserID,
		&p.ParkingLotID,
		&p.Amount,
		&p.Status,
		&p.ValidationHash,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByTransaction fetches a payment by its external transaction id.
func (r *PaymentRepository) GetByTransaction(ctx context.Context, transactionID string) (*models.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1 LIMIT 1`
	return scanPayment(r.db.QueryRowContext(ctx, query, transactionID))
}

// SetStatus moves a payment through its lifecycle.
func (r *PaymentRepository) SetStatus(ctx context.Context, transactionID, status string) error {
	const query = `UPDATE payments SET status = $2 WHERE transaction_id = $1`
	result, err := r.db.ExecContext(ctx, query, transactionID, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// ListByUser returns a user's payments, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	const query = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

// CompletedAmountForSession sums completed payments against one session.
func (r *PaymentRepository) CompletedAmountForSession(ctx context.Context, sessionID int64) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE session_id = $1 AND status = 'completed'
	`
	var paid decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&paid); err != nil {
		return decimal.Zero, err
	}
	return paid, nil
}
