package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mobypark/internal/models"
	"mobypark/internal/repository"
	"mobypark/internal/sessions"
)

type memPaymentStore struct {
	rows map[string]*models.Payment
	paid map[int64]decimal.Decimal
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{rows: map[string]*models.Payment{}, paid: map[int64]decimal.Decimal{}}
}

func (s *memPaymentStore) Create(_ context.Context, payment *models.Payment) error {
	s.rows[payment.TransactionID] = payment
	return nil
}

func (s *memPaymentStore) GetByTransaction(_ context.Context, transactionID string) (*models.Payment, error) {
	payment, ok := s.rows[transactionID]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *memPaymentStore) SetStatus(_ context.Context, transactionID, status string) error {
	payment, ok := s.rows[transactionID]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	payment.Status = status
	return nil
}

func (s *memPaymentStore) ListByUser(_ context.Context, userID int64) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range s.rows {
		if payment.UserID == userID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (s *memPaymentStore) CompletedAmountForSession(_ context.Context, sessionID int64) (decimal.Decimal, error) {
	return s.paid[sessionID], nil
}

type staticUserSessions struct{ rows []models.Session }

func (l *staticUserSessions) ListByUser(context.Context, int64) ([]models.Session, error) {
	return l.rows, nil
}

func paymentsFixture(store *memPaymentStore, userSessions []models.Session, lot *models.ParkingLot) *PaymentsService {
	svc := NewPaymentsService(store, &staticUserSessions{rows: userSessions}, &staticLots{lot: lot}, zap.NewNop())
	return svc
}

func TestCreatePaymentStartsPending(t *testing.T) {
	store := newMemPaymentStore()
	svc := paymentsFixture(store, nil, nil)
	identity := sessions.Identity{UserID: 2, Username: "daily_user"}

	payment, err := svc.CreatePayment(context.Background(), identity, PaymentInput{
		TransactionID: "TXN-1",
		Amount:        dec("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.NotEmpty(t, payment.ValidationHash)
	assert.Equal(t, int64(2), payment.UserID)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc := paymentsFixture(newMemPaymentStore(), nil, nil)
	identity := sessions.Identity{UserID: 2}

	_, err := svc.CreatePayment(context.Background(), identity, PaymentInput{Amount: dec("1.00")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePayment(context.Background(), identity, PaymentInput{
		TransactionID: "TXN-1",
		Amount:        dec("-1.00"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompleteChecksValidationHash(t *testing.T) {
	store := newMemPaymentStore()
	svc := paymentsFixture(store, nil, nil)
	identity := sessions.Identity{UserID: 2}

	payment, err := svc.CreatePayment(context.Background(), identity, PaymentInput{
		TransactionID: "TXN-1",
		Amount:        dec("12.50"),
	})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "TXN-1", "wrong-hash")
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.Equal(t, models.PaymentPending, store.rows["TXN-1"].Status)

	completed, err := svc.Complete(context.Background(), "TXN-1", payment.ValidationHash)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, completed.Status)
	assert.Equal(t, models.PaymentCompleted, store.rows["TXN-1"].Status)

	_, err = svc.Complete(context.Background(), "TXN-404", "any")
	assert.ErrorIs(t, err, repository.ErrPaymentNotFound)
}

func TestRefundCopiesCoupledTransaction(t *testing.T) {
	store := newMemPaymentStore()
	svc := paymentsFixture(store, nil, nil)

	sessionID := int64(9)
	store.rows["TXN-1"] = &models.Payment{
		TransactionID: "TXN-1",
		UserID:        2,
		SessionID:     &sessionID,
		Amount:        dec("12.50"),
		Status:        models.PaymentCompleted,
	}

	admin := sessions.Identity{UserID: 1, Username: "site_admin", Role: models.RoleAdmin}
	refund, err := svc.Refund(context.Background(), admin, RefundInput{
		Amount:    dec("12.50"),
		CoupledTo: "TXN-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, refund.Status)
	assert.Equal(t, int64(2), refund.UserID, "refund belongs to the refunded user")
	require.NotNil(t, refund.SessionID)
	assert.Equal(t, sessionID, *refund.SessionID)
	assert.True(t, refund.Amount.IsPositive(), "refund amounts stay positive")
}

func TestRefundRejectsNonPositiveAmount(t *testing.T) {
	svc := paymentsFixture(newMemPaymentStore(), nil, nil)
	admin := sessions.Identity{UserID: 1, Role: models.RoleAdmin}

	_, err := svc.Refund(context.Background(), admin, RefundInput{Amount: dec("0")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBillingNetsCompletedPayments(t *testing.T) {
	store := newMemPaymentStore()
	started := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	stopped := started.Add(2 * time.Hour)
	lot := &models.ParkingLot{ID: 1, Name: "Central", Tariff: dec("2.50"), DayTariff: dec("20.00")}

	svc := paymentsFixture(store, []models.Session{
		{ID: 9, UserID: 2, ParkingLotID: 1, Started: started, Stopped: &stopped},
	}, lot)
	store.paid[9] = dec("2.50")

	lines, err := svc.Billing(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, int64(9), line.SessionID)
	assert.Equal(t, "Central", line.ParkingLot)
	assert.True(t, line.Amount.Equal(dec("5.00")), "amount %s", line.Amount)
	assert.True(t, line.Balance.Equal(dec("2.50")), "balance %s", line.Balance)
}

func TestBillingSkipsVanishedLots(t *testing.T) {
	store := newMemPaymentStore()
	started := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	svc := paymentsFixture(store, []models.Session{
		{ID: 9, UserID: 2, ParkingLotID: 404, Started: started},
	}, &models.ParkingLot{ID: 1, Name: "Central"})

	lines, err := svc.Billing(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
