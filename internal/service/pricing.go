package service

import (
	"time"

	"github.com/shopspring/decimal"

	"mobypark/internal/models"
)

// Sessions shorter than the grace period park for free.
const pricingGracePeriod = 3 * time.Minute

// SessionPrice computes the charge for a session against a lot's tariffs.
// Hours bill in started-hour increments at the hourly tariff; every full
// day, and any partial day whose hours would exceed it, caps at the day
// tariff. Open sessions price up to now.
func SessionPrice(lot *models.ParkingLot, session *models.Session, now time.Time) (amount decimal.Decimal, hours, days int64) {
	end := now
	if session.Stopped != nil {
		end = *session.Stopped
	}

	elapsed := end.Sub(session.Started)
	if elapsed <= pricingGracePeriod {
		return decimal.Zero, 0, 0
	}

	hours = int64(elapsed / time.Hour)
	if elapsed%time.Hour != 0 {
		hours++
	}
	days = hours / 24
	remainder := hours % 24

	amount = lot.DayTariff.Mul(decimal.NewFromInt(days))
	partial := lot.Tariff.Mul(decimal.NewFromInt(remainder))
	if partial.GreaterThan(lot.DayTariff) {
		partial = lot.DayTariff
	}
	return amount.Add(partial), hours, days
}
