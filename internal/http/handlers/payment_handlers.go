package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"mobypark/internal/http/middleware"
	"mobypark/internal/repository"
	"mobypark/internal/service"
)

// PaymentHandlers exposes payments and billing.
type PaymentHandlers struct {
	payments *service.PaymentsService
	users    *repository.UserRepository
}

// NewPaymentHandlers builds PaymentHandlers.
func NewPaymentHandlers(payments *service.PaymentsService, users *repository.UserRepository) *PaymentHandlers {
	return &PaymentHandlers{payments: payments, users: users}
}

// Create handles POST /payments.
func (h *PaymentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	type request struct {
		Transaction  string          `json:"transaction"`
		Amount       decimal.Decimal `json:"amount"`
		SessionID    *int64          `json:"session_id"`
		ParkingLotID *int64          `json:"parking_lot_id"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payment, err := h.payments.CreatePayment(r.Context(), identity, service.PaymentInput{
		TransactionID: req.Transaction,
		Amount:        req.Amount,
		SessionID:     req.SessionID,
		ParkingLotID:  req.ParkingLotID,
	})
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create payment")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "Success",
		"payment": payment,
	})
}

// Refund handles POST /payments/refund (admin).
func (h *PaymentHandlers) Refund(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	type request struct {
		Transaction string          `json:"transaction"`
		Amount      decimal.Decimal `json:"amount"`
		CoupledTo   string          `json:"coupled_to"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payment, err := h.payments.Refund(r.Context(), identity, service.RefundInput{
		TransactionID: req.Transaction,
		Amount:        req.Amount,
		CoupledTo:     req.CoupledTo,
	})
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		if errors.Is(err, repository.ErrPaymentNotFound) {
			writeError(w, http.StatusNotFound, "coupled payment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to record refund")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "Success",
		"payment": payment,
	})
}

// Complete handles PUT /payments/{transaction_id}.
func (h *PaymentHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transaction_id")

	type request struct {
		Validation string `json:"validation"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payment, err := h.payments.Complete(r.Context(), transactionID, req.Validation)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		switch {
		case errors.Is(err, repository.ErrPaymentNotFound):
			writeError(w, http.StatusNotFound, "payment not found")
		case errors.Is(err, service.ErrHashMismatch):
			writeError(w, http.StatusUnauthorized, "validation failed: security hash mismatch")
		default:
			writeError(w, http.StatusInternalServerError, "failed to complete payment")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "Success",
		"payment": payment,
	})
}

// ListOwn handles GET /payments.
func (h *PaymentHandlers) ListOwn(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	payments, err := h.payments.ListPayments(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// ListForUser handles GET /payments/user/{username} (admin).
func (h *PaymentHandlers) ListForUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve user")
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// BillingOwn handles GET /billing.
func (h *PaymentHandlers) BillingOwn(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	lines, err := h.payments.Billing(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute billing")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// BillingForUser handles GET /billing/{username} (admin).
func (h *PaymentHandlers) BillingForUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve user")
		return
	}

	lines, err := h.payments.Billing(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute billing")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
