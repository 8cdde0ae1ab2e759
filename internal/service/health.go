package service

import "mobypark/internal/models"

// Health classifications.
const (
	HealthHealthy        = "healthy"
	HealthNeedsAttention = "needs_attention"
)

// EvaluateHealth classifies the system from the four counters: any
// nonzero counter flags needs_attention. Total function, no unknown
// state.
func EvaluateHealth(counts models.HealthCounts) string {
	if counts.UnpaidCompletedSessions > 0 ||
		counts.LongActiveSessions > 0 ||
		counts.PendingPayments > 0 ||
		counts.InactiveUsers > 0 {
		return HealthNeedsAttention
	}
	return HealthHealthy
}
