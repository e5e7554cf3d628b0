package pricing

import "github.com/shopspring/decimal"

// ExtraLine is one consumed extra priced at its snapshot unit price.
type ExtraLine struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Adjustments are the occupancy-side terms folded into the total:
// surcharges, consumed extras and the single note's discount, prepayment
// and negotiated override.
type Adjustments struct {
	Surcharges []decimal.Decimal
	Extras     []ExtraLine
	Discount   decimal.Decimal
	Prepayment decimal.Decimal
	Negotiated decimal.Decimal
}

// Total derives the authoritative calculated amount from the ledger and
// the occupancy adjustments. A positive negotiated price replaces the
// computed total entirely; otherwise the result is the window amounts plus
// surcharges and extras minus discount and prepayment, floored at zero.
// The derivation is pure: calling it twice with the same inputs yields the
// same value, which is why every mutating operation finishes here instead
// of patching the stored amount incrementally.
func Total(l *Ledger, adj Adjustments) decimal.Decimal {
	if adj.Negotiated.IsPositive() {
		return adj.Negotiated
	}
	total := l.WindowsTotal()
	for _, s := range adj.Surcharges {
		total = total.Add(s)
	}
	for _, e := range adj.Extras {
		total = total.Add(e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity)))
	}
	total = total.Sub(adj.Discount).Sub(adj.Prepayment)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Reprice stores the derived total back onto the ledger.
func Reprice(l *Ledger, adj Adjustments) {
	l.CalculatedAmount = Total(l, adj)
}
