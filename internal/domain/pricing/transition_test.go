package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
)

func newTestLedger(mode pricing.BillingMode, start time.Time) *pricing.Ledger {
	return pricing.NewLedger("led-1", "occ-1", mode, testCard(), start)
}

func TestChangeMode_SameModeIsNoop(t *testing.T) {
	l := newTestLedger(pricing.ModeDay, at(14, 0))

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(15, 0)))

	assert.Len(t, l.History, 1)
	assert.Equal(t, pricing.ModeDay, l.Mode)
}

func TestChangeMode_InvalidMode(t *testing.T) {
	l := newTestLedger(pricing.ModeDay, at(14, 0))

	err := pricing.ChangeMode(l, testCard(), pricing.BillingMode("WEEK"), at(15, 0))

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestChangeMode_HourToDayClosesHourlyWindow(t *testing.T) {
	start := at(10, 0)
	l := newTestLedger(pricing.ModeHour, start)

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(11, 18)))

	require.Len(t, l.History, 2)
	closed := l.History[0]
	require.NotNil(t, closed.To)
	assert.Equal(t, at(11, 18), *closed.To)
	assert.True(t, dec("54").Equal(closed.Amount), "hourly window priced at close, got %s", closed.Amount)

	open := l.History[1]
	assert.Nil(t, open.To)
	assert.Equal(t, pricing.ActionChangeType, open.Action)
	assert.Equal(t, pricing.ModeDay, open.Mode)
	assert.True(t, dec("300").Equal(open.Amount))
	assert.Equal(t, pricing.ModeDay, l.Mode)
	assert.Equal(t, at(11, 18), l.WindowStart)
}

func TestChangeMode_DayToNightRetariffsInPlace(t *testing.T) {
	l := newTestLedger(pricing.ModeDay, at(14, 0))

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeNight, at(15, 0)))

	require.Len(t, l.History, 1)
	open := l.History[0]
	assert.Equal(t, pricing.ModeNight, open.Mode)
	assert.True(t, dec("200").Equal(open.Amount))
	assert.True(t, open.Rates.Day.IsZero())
	assert.True(t, dec("200").Equal(open.Rates.Night))
}

func TestChangeMode_FlatSwitchKeepsClosedHourlyWindow(t *testing.T) {
	start := at(14, 0)
	l := newTestLedger(pricing.ModeHour, start)

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(15, 0)))
	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeNight, at(16, 0)))

	// The flat switch re-tariffs the open window; the sealed hourly one
	// is untouched.
	require.Len(t, l.History, 2)
	assert.True(t, dec("50").Equal(l.History[0].Amount))
	assert.Equal(t, pricing.ModeNight, l.History[1].Mode)
	assert.True(t, dec("200").Equal(l.History[1].Amount))
}

func TestChangeMode_FlatSwitchBackRestoresOriginalTariff(t *testing.T) {
	start := at(14, 0)
	l := newTestLedger(pricing.ModeDay, start)

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeNight, at(15, 0)))
	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(16, 0)))

	// Round trip before the commitment boundary leaves the stay exactly
	// where it started: one DAY window from the original start.
	require.Len(t, l.History, 1)
	assert.Equal(t, pricing.ModeDay, l.History[0].Mode)
	assert.Equal(t, start, l.History[0].From)
	assert.True(t, dec("300").Equal(l.History[0].Amount))
}

func TestChangeMode_FlatSwitchReopensSealedFlatWindow(t *testing.T) {
	start := at(14, 0)
	l := newTestLedger(pricing.ModeDay, start)
	// A history can hold a sealed flat window directly ahead of the open
	// one. Switching back before the boundary reopens the sealed window
	// instead of re-tariffing the current one.
	l.History[0].CloseAt(at(20, 0))
	l.Append(pricing.HistoryEntry{
		ID:     "led-1-1",
		Action: pricing.ActionChangeType,
		Mode:   pricing.ModeNight,
		Amount: dec("200"),
		From:   at(20, 0),
		Rates:  pricing.SnapshotFor(pricing.ModeNight, testCard()),
	})
	l.Mode = pricing.ModeNight

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(21, 0)))

	require.Len(t, l.History, 1)
	open := l.History[0]
	assert.Nil(t, open.To)
	assert.Equal(t, pricing.ModeDay, open.Mode)
	assert.Equal(t, start, open.From)
	assert.True(t, dec("300").Equal(open.Amount))
}

func TestChangeMode_EntryIDsStayUniqueAfterRemoval(t *testing.T) {
	l := newTestLedger(pricing.ModeHour, at(10, 0))

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(11, 0)))
	l.AppendMarker(pricing.ActionSurcharge, "late checkout: 10", at(11, 30))
	// Resuming hourly drops the DAY window; later entries must not reuse
	// a suffix already present in the history.
	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeHour, at(12, 0)))
	l.AppendMarker(pricing.ActionDiscount, "loyalty: 20", at(12, 30))

	seen := make(map[string]bool)
	for _, e := range l.History {
		assert.False(t, seen[e.ID], "duplicate entry id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestChangeMode_ResumeHourlyChargesGap(t *testing.T) {
	start := at(10, 0)
	l := newTestLedger(pricing.ModeHour, start)

	// Hourly 10:00-12:00 closed at 70, flat DAY window opened.
	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeDay, at(12, 0)))
	// Back to hourly at 14:30: the 2.5h gap rounds up to 3 whole hours at
	// the next-hour rate and the flat window is dropped.
	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeHour, at(14, 30)))

	require.Len(t, l.History, 1)
	open := l.History[0]
	assert.Nil(t, open.To)
	assert.Equal(t, pricing.ModeHour, open.Mode)
	assert.True(t, dec("130").Equal(open.Amount), "70 + 3*20, got %s", open.Amount)
}

func TestChangeMode_ResumeHourlyWithoutPriorHourConverts(t *testing.T) {
	start := at(10, 0)
	l := newTestLedger(pricing.ModeDay, start)

	require.NoError(t, pricing.ChangeMode(l, testCard(), pricing.ModeHour, at(12, 0)))

	require.Len(t, l.History, 1)
	open := l.History[0]
	assert.Equal(t, pricing.ModeHour, open.Mode)
	// Priced over its own span: 2h elapsed.
	assert.True(t, dec("70").Equal(open.Amount), "got %s", open.Amount)
}

func TestChangeMode_NoOpenWindow(t *testing.T) {
	l := newTestLedger(pricing.ModeDay, at(10, 0))
	require.NoError(t, pricing.CloseOut(l, testCard(), at(12, 0)))

	err := pricing.ChangeMode(l, testCard(), pricing.ModeNight, at(13, 0))

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestRefresh_HourlyAccrues(t *testing.T) {
	start := at(10, 0)
	l := newTestLedger(pricing.ModeHour, start)

	changed := pricing.Refresh(l, testCard(), at(12, 0))

	assert.True(t, changed)
	assert.True(t, dec("70").Equal(l.History[0].Amount))

	// Same instant again: nothing to do.
	assert.False(t, pricing.Refresh(l, testCard(), at(12, 0)))
}

func TestRefresh_DayRollsOverToHourlyPastBoundary(t *testing.T) {
	start := at(14, 0)
	l := newTestLedger(pricing.ModeDay, start)
	boundary := start.Add(24 * time.Hour)
	now := boundary.Add(90 * time.Minute)

	changed := pricing.Refresh(l, testCard(), now)

	require.True(t, changed)
	require.Len(t, l.History, 2)

	day := l.History[0]
	require.NotNil(t, day.To)
	assert.Equal(t, boundary, *day.To)
	assert.True(t, dec("300").Equal(day.Amount))

	hour := l.History[1]
	assert.Nil(t, hour.To)
	assert.Equal(t, pricing.ActionChangeType, hour.Action)
	assert.Equal(t, pricing.ModeHour, hour.Mode)
	assert.Equal(t, boundary, hour.From)
	// 1.5h from the boundary: first hour plus two 0.2h blocks.
	assert.True(t, dec("58").Equal(hour.Amount), "got %s", hour.Amount)
	assert.Equal(t, pricing.ModeHour, l.Mode)
}

func TestRefresh_NightBeforeNoonUnchanged(t *testing.T) {
	start := time.Date(2026, time.March, 10, 21, 0, 0, 0, time.UTC)
	l := newTestLedger(pricing.ModeNight, start)

	changed := pricing.Refresh(l, testCard(), time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC))

	assert.False(t, changed)
	assert.Len(t, l.History, 1)
}

func TestCloseOut_SealsOpenWindow(t *testing.T) {
	start := at(10, 0)
	l := newTestLedger(pricing.ModeHour, start)

	require.NoError(t, pricing.CloseOut(l, testCard(), at(11, 18)))

	require.Len(t, l.History, 1)
	entry := l.History[0]
	require.NotNil(t, entry.To)
	assert.Equal(t, at(11, 18), *entry.To)
	assert.True(t, dec("54").Equal(entry.Amount))
	assert.Nil(t, l.OpenEntry())
	require.NotNil(t, l.WindowEnd)
	assert.Equal(t, at(11, 18), *l.WindowEnd)
}

func TestCloseOut_ExpiredDayRollsOverFirst(t *testing.T) {
	start := at(14, 0)
	l := newTestLedger(pricing.ModeDay, start)
	now := start.Add(25 * time.Hour)

	require.NoError(t, pricing.CloseOut(l, testCard(), now))

	require.Len(t, l.History, 2)
	assert.True(t, dec("300").Equal(l.History[0].Amount))
	// One hour past the boundary at the hourly tariff.
	assert.True(t, dec("50").Equal(l.History[1].Amount))
	assert.Nil(t, l.OpenEntry())
}

func TestAppendMarker_KeepsTotalsAndOpenWindow(t *testing.T) {
	l := newTestLedger(pricing.ModeDay, at(10, 0))
	before := l.WindowsTotal()

	l.AppendMarker(pricing.ActionSurcharge, "broken lamp: 15", at(11, 0))

	assert.True(t, before.Equal(l.WindowsTotal()))
	require.Len(t, l.History, 2)
	marker := l.History[1]
	assert.NotNil(t, marker.To)
	assert.True(t, marker.Amount.IsZero())
	require.NotNil(t, l.OpenEntry())
	assert.Equal(t, pricing.ActionCreate, l.OpenEntry().Action)
}
