package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCard() pricing.RateCard {
	return pricing.RateCard{
		FirstHour: dec("50"),
		NextHour:  dec("20"),
		Day:       dec("300"),
		Night:     dec("200"),
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestPriceForWindow_FirstHourOnly(t *testing.T) {
	rates := pricing.SnapshotFor(pricing.ModeHour, testCard())

	got := pricing.PriceForWindow(pricing.ModeHour, at(10, 0), at(10, 30), rates)

	assert.True(t, dec("50").Equal(got), "expected 50, got %s", got)
}

func TestPriceForWindow_ExactHour(t *testing.T) {
	rates := pricing.SnapshotFor(pricing.ModeHour, testCard())

	got := pricing.PriceForWindow(pricing.ModeHour, at(10, 0), at(11, 0), rates)

	assert.True(t, dec("50").Equal(got), "expected 50, got %s", got)
}

func TestPriceForWindow_PartialBlocksAreFree(t *testing.T) {
	rates := pricing.SnapshotFor(pricing.ModeHour, testCard())

	// 1.3h past one hour: 0.3h is one full 0.2h block, the rest is free.
	got := pricing.PriceForWindow(pricing.ModeHour, at(10, 0), at(11, 18), rates)

	assert.True(t, dec("54").Equal(got), "expected 54, got %s", got)
}

func TestPriceForWindow_WholeBlocks(t *testing.T) {
	rates := pricing.SnapshotFor(pricing.ModeHour, testCard())

	// Two hours: one full hour beyond the first, five 0.2h blocks.
	got := pricing.PriceForWindow(pricing.ModeHour, at(10, 0), at(12, 0), rates)

	assert.True(t, dec("70").Equal(got), "expected 70, got %s", got)
}

func TestPriceForWindow_ZeroAndNegativeSpan(t *testing.T) {
	rates := pricing.SnapshotFor(pricing.ModeHour, testCard())

	assert.True(t, pricing.PriceForWindow(pricing.ModeHour, at(10, 0), at(10, 0), rates).IsZero())
	assert.True(t, pricing.PriceForWindow(pricing.ModeHour, at(10, 0), at(9, 0), rates).IsZero())
}

func TestPriceForWindow_HourlyMonotonic(t *testing.T) {
	rates := pricing.SnapshotFor(pricing.ModeHour, testCard())
	from := at(8, 0)

	prev := decimal.Zero
	for mins := 10; mins <= 360; mins += 10 {
		got := pricing.PriceForWindow(pricing.ModeHour, from, from.Add(time.Duration(mins)*time.Minute), rates)
		assert.True(t, got.GreaterThanOrEqual(prev), "amount decreased at %d minutes: %s < %s", mins, got, prev)
		prev = got
	}
}

func TestPriceForWindow_FlatModesIgnoreSpan(t *testing.T) {
	card := testCard()

	day := pricing.PriceForWindow(pricing.ModeDay, at(10, 0), at(23, 0), pricing.SnapshotFor(pricing.ModeDay, card))
	night := pricing.PriceForWindow(pricing.ModeNight, at(22, 0), at(23, 0), pricing.SnapshotFor(pricing.ModeNight, card))

	assert.True(t, dec("300").Equal(day))
	assert.True(t, dec("200").Equal(night))
}

func TestCommitmentBoundary_Day(t *testing.T) {
	from := at(15, 30)

	got := pricing.CommitmentBoundary(pricing.ModeDay, from)

	assert.Equal(t, from.Add(24*time.Hour), got)
}

func TestCommitmentBoundary_NightIsNoonNextDay(t *testing.T) {
	from := time.Date(2026, time.March, 10, 21, 0, 0, 0, time.UTC)

	got := pricing.CommitmentBoundary(pricing.ModeNight, from)

	assert.Equal(t, time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC), got)
}

func TestCommitmentBoundary_NightAfterMidnightCheckIn(t *testing.T) {
	// Checking in at 2am still commits until noon the same calendar day
	// plus one: the rule counts from the check-in date.
	from := time.Date(2026, time.March, 11, 2, 0, 0, 0, time.UTC)

	got := pricing.CommitmentBoundary(pricing.ModeNight, from)

	assert.Equal(t, time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC), got)
}

func TestSnapshotFor_OnlyRelevantPrices(t *testing.T) {
	card := testCard()

	hour := pricing.SnapshotFor(pricing.ModeHour, card)
	require.True(t, hour.Day.IsZero())
	require.True(t, hour.Night.IsZero())
	assert.True(t, dec("50").Equal(hour.FirstHour))
	assert.True(t, dec("20").Equal(hour.NextHour))

	day := pricing.SnapshotFor(pricing.ModeDay, card)
	assert.True(t, day.FirstHour.IsZero())
	assert.True(t, dec("300").Equal(day.Day))

	night := pricing.SnapshotFor(pricing.ModeNight, card)
	assert.True(t, dec("200").Equal(night.Night))
	assert.True(t, night.Day.IsZero())
}
