package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary fields serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Payment statuses. Amounts are always non-negative; refunds carry the
// refunded status instead of a negative amount.
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentRefunded  = "refunded"
)

// Payment records money movement for a session or directly for a user.
type Payment struct {
	ID             int64           `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	SessionID      *int64          `json:"session_id,omitempty"`
	UserID         int64           `json:"user_id"`
	ParkingLotID   *int64          `json:"parking_lot_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	ValidationHash string          `json:"hash,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
