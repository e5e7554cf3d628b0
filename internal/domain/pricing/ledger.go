package pricing

import (
	"context"
	"time"

	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

// Action tags a history entry. CREATE and CHANGE_TYPE mark pricing windows
// that accrue an amount; the remaining tags are audit markers whose amount
// is always zero (the value they describe lives on the occupancy).
type Action string

const (
	ActionCreate     Action = "CREATE"
	ActionChangeType Action = "CHANGE_TYPE"
	ActionDiscount   Action = "DISCOUNT"
	ActionPrepaid    Action = "PREPAID"
	ActionNegotiate  Action = "NEGOTIATE"
	ActionSurcharge  Action = "SURCHARGE"
	ActionChangeRoom Action = "CHANGE_ROOM"
)

// HistoryEntry is one window (or audit marker) in the ledger. Closed
// entries are immutable except for a full re-rating on room transfer.
type HistoryEntry struct {
	ID          string
	Action      Action
	Mode        BillingMode
	Amount      decimal.Decimal
	From        time.Time
	To          *time.Time // nil while the window is still accruing
	Rates       RateSnapshot
	Description string
}

func (e *HistoryEntry) Open() bool { return e.To == nil }

// IsWindow reports whether the entry is a pricing window rather than an
// audit marker.
func (e *HistoryEntry) IsWindow() bool {
	return e.Action == ActionCreate || e.Action == ActionChangeType
}

// CloseAt seals the window at the given instant.
func (e *HistoryEntry) CloseAt(t time.Time) {
	end := t
	e.To = &end
}

// Ledger is the append-only pricing history of one occupancy. The mode,
// window start/end and calculated amount mirror the latest open entry and
// the folded total so readers get them without replaying history.
type Ledger struct {
	ID               string
	OccupancyID      string
	Mode             BillingMode
	WindowStart      time.Time
	WindowEnd        *time.Time
	CalculatedAmount decimal.Decimal
	History          []HistoryEntry
	EntrySeq         int64 // next entry ID suffix; never reused after removals
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

var ErrNoOpenWindow = apperr.Conflict("pricing: ledger has no open window")

// NewLedger opens the ledger for a fresh occupancy with a CREATE window in
// the requested mode.
func NewLedger(id, occupancyID string, mode BillingMode, card RateCard, now time.Time) *Ledger {
	now = now.UTC()
	entry := HistoryEntry{
		ID:     id + "-0",
		Action: ActionCreate,
		Mode:   mode,
		Amount: FlatAmount(mode, card),
		From:   now,
		Rates:  SnapshotFor(mode, card),
	}
	l := &Ledger{
		ID:          id,
		OccupancyID: occupancyID,
		Mode:        mode,
		WindowStart: now,
		History:     []HistoryEntry{entry},
		EntrySeq:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.CalculatedAmount = entry.Amount
	return l
}

// OpenEntry returns the single open window, or nil when every window is
// closed (a finalized stay).
func (l *Ledger) OpenEntry() *HistoryEntry {
	idx := l.openIndex()
	if idx < 0 {
		return nil
	}
	return &l.History[idx]
}

func (l *Ledger) openIndex() int {
	for i := len(l.History) - 1; i >= 0; i-- {
		if l.History[i].Open() {
			return i
		}
	}
	return -1
}

// previousWindow walks backwards from index i skipping audit markers.
func (l *Ledger) previousWindow(i int) *HistoryEntry {
	for j := i - 1; j >= 0; j-- {
		if l.History[j].IsWindow() {
			return &l.History[j]
		}
	}
	return nil
}

// Append adds an entry; callers are responsible for keeping at most one
// window open.
func (l *Ledger) Append(e HistoryEntry) {
	l.History = append(l.History, e)
}

// AppendMarker records a zero-amount audit entry with an already-closed
// window at the given instant.
func (l *Ledger) AppendMarker(action Action, description string, now time.Time) {
	now = now.UTC()
	end := now
	l.History = append(l.History, HistoryEntry{
		ID:          l.nextEntryID(),
		Action:      action,
		Mode:        l.Mode,
		Amount:      decimal.Zero,
		From:        now,
		To:          &end,
		Description: description,
	})
}

// syncHeader mirrors the open entry onto the ledger's mode/window fields.
func (l *Ledger) syncHeader() {
	open := l.OpenEntry()
	if open == nil {
		return
	}
	l.Mode = open.Mode
	l.WindowStart = open.From
	l.WindowEnd = nil
}

// WindowsTotal folds the amounts of every history entry. Audit markers
// carry zero so summing everything is safe.
func (l *Ledger) WindowsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range l.History {
		total = total.Add(l.History[i].Amount)
	}
	return total
}

// Repository persists ledgers whole; history is embedded, never stored
// separately.
type Repository interface {
	ByOccupancy(ctx context.Context, occupancyID string) (*Ledger, error)
	Save(ctx context.Context, ledger *Ledger) error
	Delete(ctx context.Context, occupancyID string) error
}
