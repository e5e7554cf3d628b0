package mongo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal strings. Floats would re-introduce the
// rounding drift the decimal type exists to prevent.
func decString(d decimal.Decimal) string {
	return d.String()
}

func decFromString(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timePtrToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func millisToTimePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := timestampToTime(*ms)
	return &t
}
