package pricing

import "time"

// Rerate recomputes every pricing window against a new rate card. This is
// the room-transfer rule: rate cards may differ arbitrarily between rooms,
// so the whole history is re-priced rather than patched. Closed hourly
// windows are re-priced over their own span, the open window up to now,
// and flat windows take the new day or night price. Audit markers are
// untouched. Running it again with the same card changes nothing.
func Rerate(l *Ledger, card RateCard, now time.Time) {
	now = now.UTC()
	for i := range l.History {
		e := &l.History[i]
		if !e.IsWindow() {
			continue
		}
		e.Rates = SnapshotFor(e.Mode, card)
		end := now
		if e.To != nil {
			end = *e.To
		}
		e.Amount = PriceForWindow(e.Mode, e.From, end, e.Rates)
	}
	l.UpdatedAt = now
}
