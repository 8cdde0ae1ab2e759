package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mobypark/internal/models"
)

func TestEvaluateHealth(t *testing.T) {
	cases := []struct {
		name   string
		counts models.HealthCounts
		want   string
	}{
		{"all zero is healthy", models.HealthCounts{}, HealthHealthy},
		{"unpaid completed session", models.HealthCounts{UnpaidCompletedSessions: 1}, HealthNeedsAttention},
		{"session running past a week", models.HealthCounts{LongActiveSessions: 1}, HealthNeedsAttention},
		{"pending payment", models.HealthCounts{PendingPayments: 1}, HealthNeedsAttention},
		{"inactive user", models.HealthCounts{InactiveUsers: 1}, HealthNeedsAttention},
		{"several counters", models.HealthCounts{PendingPayments: 3, InactiveUsers: 12}, HealthNeedsAttention},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateHealth(tc.counts))
		})
	}
}
