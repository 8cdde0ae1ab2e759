package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/repository"
	"mobypark/internal/sessions"
)

// ErrHashMismatch rejects a payment completion with the wrong validation
// hash.
var ErrHashMismatch = errors.New("payments: validation hash mismatch")

// PaymentStore defines payment persistence used by the service.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByTransaction(ctx context.Context, transactionID string) (*models.Payment, error)
	SetStatus(ctx context.Context, transactionID, status string) error
	ListByUser(ctx context.Context, userID int64) ([]models.Payment, error)
	CompletedAmountForSession(ctx context.Context, sessionID int64) (decimal.Decimal, error)
}

// UserSessionLister lists a user's sessions for billing.
type UserSessionLister interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Session, error)
}

// PaymentsService implements payments and billing.
type PaymentsService struct {
	store        PaymentStore
	userSessions UserSessionLister
	lots         LotFinder
	logger       *zap.Logger
	now          func() time.Time
}

// NewPaymentsService builds PaymentsService.
func NewPaymentsService(store PaymentStore, userSessions UserSessionLister, lots LotFinder, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{
		store:        store,
		userSessions: userSessions,
		lots:         lots,
		logger:       logger,
		now:          time.Now,
	}
}

// PaymentInput carries a payment creation payload.
type PaymentInput struct {
	TransactionID string
	Amount        decimal.Decimal
	SessionID     *int64
	ParkingLotID  *int64
}

// CreatePayment records a pending payment for the caller. The returned
// payment carries the validation hash the payer must echo to complete it.
func (s *PaymentsService) CreatePayment(ctx context.Context, identity sessions.Identity, in PaymentInput) (*models.Payment, error) {
	if in.TransactionID == "" {
		return nil, validationErr("transaction is required")
	}
	if in.Amount.IsNegative() {
		return nil, validationErr("amount must not be negative")
	}

	payment := &models.Payment{
		TransactionID:  in.TransactionID,
		SessionID:      in.SessionID,
		UserID:         identity.UserID,
		ParkingLotID:   in.ParkingLotID,
		Amount:         in.Amount,
		Status:         models.PaymentPending,
		ValidationHash: uuid.NewString(),
	}
	if err := s.store.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		zap.String("transaction_id", payment.TransactionID),
		zap.Int64("user_id", identity.UserID))
	return payment, nil
}

// RefundInput carries a refund payload. CoupledTo optionally names the
// transaction being refunded; its user, session and lot carry over.
type RefundInput struct {
	TransactionID string
	Amount        decimal.Decimal
	CoupledTo     string
}

// Refund records a refunded payment. Admin-only (enforced at the route).
// Amounts stay positive; the refunded status marks the direction.
func (s *PaymentsService) Refund(ctx context.Context, admin sessions.Identity, in RefundInput) (*models.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, validationErr("amount must be positive")
	}

	payment := &models.Payment{
		TransactionID:  in.TransactionID,
		UserID:         admin.UserID,
		Amount:         in.Amount,
		Status:         models.PaymentRefunded,
		ValidationHash: uuid.NewString(),
	}
	if payment.TransactionID == "" {
		payment.TransactionID = uuid.NewString()
	}

	if in.CoupledTo != "" {
		original, err := s.store.GetByTransaction(ctx, in.CoupledTo)
		if err != nil {
			return nil, err
		}
		payment.UserID = original.UserID
		payment.SessionID = original.SessionID
		payment.ParkingLotID = original.ParkingLotID
	}

	if err := s.store.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("refund recorded",
		zap.String("transaction_id", payment.TransactionID),
		zap.String("processed_by", admin.Username))
	return payment, nil
}

// Complete marks a pending payment completed after validating the hash.
func (s *PaymentsService) Complete(ctx context.Context, transactionID, validation string) (*models.Payment, error) {
	if validation == "" {
		return nil, validationErr("validation is required")
	}

	payment, err := s.store.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if payment.ValidationHash != validation {
		return nil, ErrHashMismatch
	}

	if err := s.store.SetStatus(ctx, transactionID, models.PaymentCompleted); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentCompleted
	return payment, nil
}

// ListPayments returns a user's payments.
func (s *PaymentsService) ListPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	return s.store.ListByUser(ctx, userID)
}

// BillingLine prices one session against what was already paid for it.
type BillingLine struct {
	SessionID    int64           `json:"session_id"`
	LicensePlate string          `json:"license_plate,omitempty"`
	Started      time.Time       `json:"started"`
	Stopped      *time.Time      `json:"stopped"`
	Hours        int64           `json:"hours"`
	Days         int64           `json:"days"`
	ParkingLot   string          `json:"parking_lot"`
	Tariff       decimal.Decimal `json:"tariff"`
	DayTariff    decimal.Decimal `json:"day_tariff"`
	Amount       decimal.Decimal `json:"amount"`
	Paid         decimal.Decimal `json:"paid"`
	Balance      decimal.Decimal `json:"balance"`
}

// Billing prices every session of a user and nets out completed payments.
func (s *PaymentsService) Billing(ctx context.Context, userID int64) ([]BillingLine, error) {
	userSessions, err := s.userSessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lines := []BillingLine{}
	for i := range userSessions {
		session := &userSessions[i]
		lot, err := s.lots.GetByID(ctx, session.ParkingLotID)
		if err != nil {
			if errors.Is(err, repository.ErrLotNotFound) {
				continue
			}
			return nil, err
		}

		amount, hours, days := SessionPrice(lot, session, now)
		paid, err := s.store.CompletedAmountForSession(ctx, session.ID)
		if err != nil {
			return nil, err
		}

		lines = append(lines, BillingLine{
			SessionID:  session.ID,
			Started:    session.Started,
			Stopped:    session.Stopped,
			Hours:      hours,
			Days:       days,
			ParkingLot: lot.Name,
			Tariff:     lot.Tariff,
			DayTariff:  lot.DayTariff,
			Amount:     amount,
			Paid:       paid,
			Balance:    amount.Sub(paid),
		})
	}
	return lines, nil
}
