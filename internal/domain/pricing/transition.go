package pricing

import (
	"fmt"
	"time"

	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

// The mode transitions form a small state machine over the open window's
// mode. Each cell is a pure mutation of the ledger; the table replaces the
// nested conditionals this logic tends to grow into.
type transitionFunc func(l *Ledger, openIdx int, requested BillingMode, card RateCard, now time.Time)

var transitions = map[[2]BillingMode]transitionFunc{
	{ModeHour, ModeDay}:   closeHourlyOpenFlat,
	{ModeHour, ModeNight}: closeHourlyOpenFlat,
	{ModeDay, ModeNight}:  switchFlat,
	{ModeNight, ModeDay}:  switchFlat,
	{ModeDay, ModeHour}:   resumeHourly,
	{ModeNight, ModeHour}: resumeHourly,
}

// ChangeMode applies a staff-requested mode change to the ledger's open
// window and re-syncs the ledger header. Requesting the mode already in
// effect is a no-op. The caller owns persisting the ledger and aligning
// the room's occupancy flag with the resulting mode.
func ChangeMode(l *Ledger, card RateCard, requested BillingMode, now time.Time) error {
	if !requested.Valid() {
		return apperr.Validationf("pricing: invalid billing mode %q", requested)
	}
	idx := l.openIndex()
	if idx < 0 {
		return ErrNoOpenWindow
	}
	current := l.History[idx].Mode
	if current == requested {
		return nil
	}
	fn, ok := transitions[[2]BillingMode{current, requested}]
	if !ok {
		return apperr.Validationf("pricing: no transition from %s to %s", current, requested)
	}
	fn(l, idx, requested, card, now.UTC())
	l.syncHeader()
	l.UpdatedAt = now.UTC()
	return nil
}

// closeHourlyOpenFlat seals the running hourly window at now, prices it,
// and opens a flat window in the requested mode.
func closeHourlyOpenFlat(l *Ledger, openIdx int, requested BillingMode, card RateCard, now time.Time) {
	open := &l.History[openIdx]
	open.Amount = PriceForWindow(ModeHour, open.From, now, open.Rates)
	open.CloseAt(now)
	l.Append(HistoryEntry{
		ID:     l.nextEntryID(),
		Action: ActionChangeType,
		Mode:   requested,
		Amount: FlatAmount(requested, card),
		From:   now,
		Rates:  SnapshotFor(requested, card),
	})
}

// switchFlat flips a flat window between DAY and NIGHT. When the previous
// window already ran in the requested mode and the current window's
// commitment boundary (measured from that previous window's start) has not
// elapsed, the change is an undo: the current window is dropped and the
// previous one reopened exactly as it was. Otherwise the open window is
// re-tariffed in place.
func switchFlat(l *Ledger, openIdx int, requested BillingMode, card RateCard, now time.Time) {
	open := &l.History[openIdx]
	prev := l.previousWindow(openIdx)
	if prev != nil && prev.Mode == requested && now.Before(CommitmentBoundary(open.Mode, prev.From)) {
		prev.To = nil
		prev.Amount = flatFromSnapshot(prev.Mode, prev.Rates)
		l.removeEntry(openIdx)
		return
	}
	open.Mode = requested
	open.Rates = SnapshotFor(requested, card)
	open.Amount = FlatAmount(requested, card)
}

// resumeHourly returns a stay to hourly billing. If the previous window was
// hourly it is reopened and charged for the gap since it closed, rounded up
// to whole hours at the next-hour rate; the flat window is dropped. Without
// a preceding hourly window the open one is converted in place.
func resumeHourly(l *Ledger, openIdx int, _ BillingMode, card RateCard, now time.Time) {
	open := &l.History[openIdx]
	prev := l.previousWindow(openIdx)
	if prev != nil && prev.Mode == ModeHour && prev.To != nil {
		gap := wholeHoursSince(*prev.To, now)
		prev.Amount = prev.Amount.Add(gap.Mul(prev.Rates.NextHour))
		prev.To = nil
		l.removeEntry(openIdx)
		return
	}
	open.Mode = ModeHour
	open.Rates = SnapshotFor(ModeHour, card)
	open.Amount = PriceForWindow(ModeHour, open.From, now, open.Rates)
}

// Refresh lazily re-prices the open window at now. A running hourly window
// gets its accrued amount updated; a day or night window past its
// commitment boundary is closed at the boundary and an hourly window opened
// there. Reports whether the ledger changed.
func Refresh(l *Ledger, card RateCard, now time.Time) bool {
	idx := l.openIndex()
	if idx < 0 {
		return false
	}
	now = now.UTC()
	open := &l.History[idx]
	switch open.Mode {
	case ModeHour:
		amount := PriceForWindow(ModeHour, open.From, now, open.Rates)
		if amount.Equal(open.Amount) {
			return false
		}
		open.Amount = amount
	case ModeDay, ModeNight:
		if !pastBoundary(open.Mode, open.From, now) {
			return false
		}
		boundary := CommitmentBoundary(open.Mode, open.From)
		open.Amount = flatFromSnapshot(open.Mode, open.Rates)
		open.CloseAt(boundary)
		rates := SnapshotFor(ModeHour, card)
		l.Append(HistoryEntry{
			ID:     l.nextEntryID(),
			Action: ActionChangeType,
			Mode:   ModeHour,
			Amount: PriceForWindow(ModeHour, boundary, now, rates),
			From:   boundary,
			Rates:  rates,
		})
		l.syncHeader()
	default:
		return false
	}
	l.UpdatedAt = now
	return true
}

// CloseOut settles the ledger at checkout. The open window is refreshed
// first (so an expired flat window rolls over before pricing), then
// sealed at now; afterwards no window is open and the header keeps the
// final span.
func CloseOut(l *Ledger, card RateCard, now time.Time) error {
	now = now.UTC()
	Refresh(l, card, now)
	idx := l.openIndex()
	if idx < 0 {
		return ErrNoOpenWindow
	}
	open := &l.History[idx]
	if open.Mode == ModeHour {
		open.Amount = PriceForWindow(ModeHour, open.From, now, open.Rates)
	}
	open.CloseAt(now)
	end := now
	l.WindowEnd = &end
	l.UpdatedAt = now
	return nil
}

func (l *Ledger) removeEntry(i int) {
	l.History = append(l.History[:i], l.History[i+1:]...)
}

func (l *Ledger) nextEntryID() string {
	id := fmt.Sprintf("%s-%d", l.ID, l.EntrySeq)
	l.EntrySeq++
	return id
}

func flatFromSnapshot(mode BillingMode, rates RateSnapshot) decimal.Decimal {
	if mode == ModeDay {
		return rates.Day
	}
	return rates.Night
}

func wholeHoursSince(from, to time.Time) decimal.Decimal {
	secs := to.Sub(from) / time.Second
	if secs <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt((int64(secs) + 3599) / 3600)
}
