package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	oneHour        = decimal.NewFromInt(1)
	hourBlock      = decimal.RequireFromString("0.2")
	secondsPerHour = decimal.NewFromInt(3600)
)

// elapsedHours converts a window into fractional hours, clamped to zero.
func elapsedHours(from, to time.Time) decimal.Decimal {
	secs := to.Sub(from) / time.Second
	if secs <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(secs)).Div(secondsPerHour)
}

// PriceForWindow computes the amount a window is worth under its mode and
// rate snapshot. For hourly hire the first hour costs the first-hour price
// and time beyond it is billed in 0.2-hour blocks, rounded down: partial
// blocks are free. Day and night windows are flat; their rollover at the
// commitment boundary is the transition engine's job.
func PriceForWindow(mode BillingMode, from, to time.Time, rates RateSnapshot) decimal.Decimal {
	switch mode {
	case ModeHour:
		return hourlyAmount(elapsedHours(from, to), rates.FirstHour, rates.NextHour)
	case ModeDay:
		return rates.Day
	case ModeNight:
		return rates.Night
	}
	return decimal.Zero
}

func hourlyAmount(hours, firstHour, nextHour decimal.Decimal) decimal.Decimal {
	if hours.Sign() <= 0 {
		return decimal.Zero
	}
	amount := firstHour
	if hours.GreaterThan(oneHour) {
		extra := hours.Sub(oneHour)
		billed := extra.Div(hourBlock).Floor().Mul(hourBlock)
		amount = amount.Add(billed.Mul(nextHour))
	}
	return amount
}

// CommitmentBoundary is the instant after which a day or night window can
// no longer be undone and must roll over to hourly billing: 24 hours from
// the window start for DAY, noon of the following day for NIGHT. Hourly
// windows have no boundary and return the zero time.
func CommitmentBoundary(mode BillingMode, from time.Time) time.Time {
	switch mode {
	case ModeDay:
		return from.Add(24 * time.Hour)
	case ModeNight:
		next := from.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), 12, 0, 0, 0, next.Location())
	}
	return time.Time{}
}

// pastBoundary reports whether now has reached the commitment boundary of
// a window opened at from in the given mode.
func pastBoundary(mode BillingMode, from, now time.Time) bool {
	b := CommitmentBoundary(mode, from)
	if b.IsZero() {
		return false
	}
	return !now.Before(b)
}
