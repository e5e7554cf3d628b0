package frontdesk

import (
	"time"

	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

// PricingSnapshot is what every operation hands back to its caller: the
// recomputed total plus the full history for display.
type PricingSnapshot struct {
	OccupancyID      string             `json:"occupancy_id"`
	RoomID           string             `json:"room_id"`
	Mode             string             `json:"mode"`
	WindowStart      time.Time          `json:"window_start"`
	WindowEnd        *time.Time         `json:"window_end,omitempty"`
	CheckIn          time.Time          `json:"check_in"`
	CalculatedAmount decimal.Decimal    `json:"calculated_amount"`
	History          []HistoryEntryView `json:"history"`
	Surcharges       []SurchargeView    `json:"surcharges,omitempty"`
	Extras           []ExtraView        `json:"extras,omitempty"`
	Note             *NoteView          `json:"note,omitempty"`
}

type HistoryEntryView struct {
	Action      string          `json:"action"`
	Mode        string          `json:"mode"`
	Amount      decimal.Decimal `json:"amount"`
	From        time.Time       `json:"applied_from"`
	To          *time.Time      `json:"applied_to,omitempty"`
	FirstHour   decimal.Decimal `json:"applied_first_hour_price"`
	NextHour    decimal.Decimal `json:"applied_next_hour_price"`
	Day         decimal.Decimal `json:"applied_day_price"`
	Night       decimal.Decimal `json:"applied_night_price"`
	Description string          `json:"description,omitempty"`
}

type SurchargeView struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type ExtraView struct {
	UtilityID string          `json:"utility_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
}

type NoteView struct {
	Content         string          `json:"content"`
	Discount        decimal.Decimal `json:"discount"`
	Prepayment      decimal.Decimal `json:"prepayment"`
	NegotiatedPrice decimal.Decimal `json:"negotiated_price"`
}

func buildSnapshot(o *domainoccupancy.Occupancy, l *domainpricing.Ledger) *PricingSnapshot {
	snap := &PricingSnapshot{
		OccupancyID:      string(o.ID),
		RoomID:           string(o.RoomID),
		Mode:             string(l.Mode),
		WindowStart:      l.WindowStart,
		WindowEnd:        l.WindowEnd,
		CheckIn:          o.CheckIn,
		CalculatedAmount: l.CalculatedAmount,
	}
	for i := range l.History {
		e := &l.History[i]
		snap.History = append(snap.History, HistoryEntryView{
			Action:      string(e.Action),
			Mode:        string(e.Mode),
			Amount:      e.Amount,
			From:        e.From,
			To:          e.To,
			FirstHour:   e.Rates.FirstHour,
			NextHour:    e.Rates.NextHour,
			Day:         e.Rates.Day,
			Night:       e.Rates.Night,
			Description: e.Description,
		})
	}
	for _, s := range o.Surcharges {
		snap.Surcharges = append(snap.Surcharges, SurchargeView{Label: s.Label, Amount: s.Amount})
	}
	for _, e := range o.Extras {
		snap.Extras = append(snap.Extras, ExtraView{UtilityID: e.UtilityID, Name: e.Name, UnitPrice: e.UnitPrice, Quantity: e.Quantity})
	}
	if o.Note != nil {
		snap.Note = &NoteView{
			Content:         o.Note.Content,
			Discount:        o.Note.Discount,
			Prepayment:      o.Note.Prepayment,
			NegotiatedPrice: o.Note.NegotiatedPrice,
		}
	}
	return snap
}

// reprice re-derives the ledger total from the occupancy adjustments.
func reprice(o *domainoccupancy.Occupancy, l *domainpricing.Ledger) {
	domainpricing.Reprice(l, o.Adjustments())
}
