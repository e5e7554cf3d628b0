// Package billing serves the issued bills and the revenue reports
// derived from them.
package billing

import (
	"context"
	"time"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainbilling "hotelops/internal/domain/billing"
	domainhotel "hotelops/internal/domain/hotel"
	domainroom "hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

const (
	ListBillsKey    = "billing.list"
	DailyTotalsKey  = "billing.daily_totals"
	MonthlyTotalKey = "billing.monthly_total"
)

type Deps struct {
	UoW   uow.UoWFactory
	Clock func() time.Time
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

type BillView struct {
	ID             string          `json:"id"`
	RoomID         string          `json:"room_id"`
	HotelID        string          `json:"hotel_id"`
	RoomName       string          `json:"room_name"`
	RoomTotal      decimal.Decimal `json:"room_total"`
	UtilitiesTotal decimal.Decimal `json:"utilities_total"`
	Total          decimal.Decimal `json:"total"`
	CheckIn        time.Time       `json:"check_in"`
	CheckOut       time.Time       `json:"check_out"`
}

func view(b *domainbilling.Bill) BillView {
	return BillView{
		ID:             string(b.ID),
		RoomID:         string(b.RoomID),
		HotelID:        string(b.HotelID),
		RoomName:       b.RoomName,
		RoomTotal:      b.RoomTotal,
		UtilitiesTotal: b.UtilitiesTotal,
		Total:          b.Total,
		CheckIn:        b.CheckIn,
		CheckOut:       b.CheckOut,
	}
}

// ListBillsQuery pages through issued bills, optionally narrowed to a
// hotel, room or checkout period.
type ListBillsQuery struct {
	HotelID string    `json:"hotel_id"`
	RoomID  string    `json:"room_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

func (q ListBillsQuery) Key() string { return ListBillsKey }

type ListBillsHandler struct {
	Deps
}

func (h ListBillsHandler) Handle(ctx context.Context, q ListBillsQuery) ([]BillView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	list, err := unit.Bills().List(ctx, domainbilling.ListFilter{
		HotelID: domainhotel.HotelID(q.HotelID),
		RoomID:  domainroom.RoomID(q.RoomID),
		From:    q.From,
		To:      q.To,
	})
	if err != nil {
		return nil, err
	}
	views := make([]BillView, 0, len(list))
	for _, b := range list {
		views = append(views, view(b))
	}
	return views, nil
}

// DayTotal is one day's revenue, split into room and utilities income.
type DayTotal struct {
	Day            time.Time       `json:"day"`
	RoomTotal      decimal.Decimal `json:"room_total"`
	UtilitiesTotal decimal.Decimal `json:"utilities_total"`
	Total          decimal.Decimal `json:"total"`
	Bills          int             `json:"bills"`
}

// DailyTotalsQuery buckets a month's bills by checkout day. For the
// current month only days up to today are reported.
type DailyTotalsQuery struct {
	HotelID string `json:"hotel_id"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

func (q DailyTotalsQuery) Key() string { return DailyTotalsKey }

func (q DailyTotalsQuery) Validate() error {
	if q.HotelID == "" {
		return apperr.Validation("billing: hotel id required")
	}
	if q.Year < 1970 {
		return apperr.Validation("billing: invalid year")
	}
	if q.Month < 1 || q.Month > 12 {
		return apperr.Validation("billing: invalid month")
	}
	return nil
}

type DailyTotalsHandler struct {
	Deps
}

func (h DailyTotalsHandler) Handle(ctx context.Context, q DailyTotalsQuery) ([]DayTotal, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	monthStart := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	list, err := unit.Bills().List(ctx, domainbilling.ListFilter{
		HotelID: domainhotel.HotelID(q.HotelID),
		From:    monthStart,
		To:      monthEnd,
	})
	if err != nil {
		return nil, err
	}

	days := daysToReport(monthStart, monthEnd, h.now())
	totals := make([]DayTotal, days)
	for i := range totals {
		totals[i].Day = monthStart.AddDate(0, 0, i)
	}
	for _, b := range list {
		i := b.CheckOut.UTC().Day() - 1
		if i < 0 || i >= days {
			continue
		}
		totals[i].RoomTotal = totals[i].RoomTotal.Add(b.RoomTotal)
		totals[i].UtilitiesTotal = totals[i].UtilitiesTotal.Add(b.UtilitiesTotal)
		totals[i].Total = totals[i].Total.Add(b.Total)
		totals[i].Bills++
	}
	return totals, nil
}

// daysToReport caps the report at today for the running month.
func daysToReport(monthStart, monthEnd, now time.Time) int {
	if now.Before(monthEnd) && !now.Before(monthStart) {
		return now.Day()
	}
	return int(monthEnd.Sub(monthStart).Hours() / 24)
}

// MonthTotal aggregates a whole month.
type MonthTotal struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	RoomTotal      decimal.Decimal `json:"room_total"`
	UtilitiesTotal decimal.Decimal `json:"utilities_total"`
	Total          decimal.Decimal `json:"total"`
	Expenses       decimal.Decimal `json:"expenses"`
	Net            decimal.Decimal `json:"net"`
	Bills          int             `json:"bills"`
}

// MonthlyTotalQuery folds a month's bills and expenses into one line.
type MonthlyTotalQuery struct {
	HotelID string `json:"hotel_id"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

func (q MonthlyTotalQuery) Key() string { return MonthlyTotalKey }

func (q MonthlyTotalQuery) Validate() error {
	return DailyTotalsQuery{HotelID: q.HotelID, Year: q.Year, Month: q.Month}.Validate()
}

type MonthlyTotalHandler struct {
	Deps
}

func (h MonthlyTotalHandler) Handle(ctx context.Context, q MonthlyTotalQuery) (*MonthTotal, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	monthStart := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	bills, err := unit.Bills().List(ctx, domainbilling.ListFilter{
		HotelID: domainhotel.HotelID(q.HotelID),
		From:    monthStart,
		To:      monthEnd,
	})
	if err != nil {
		return nil, err
	}
	expenses, err := unit.Expenses().ListByHotel(ctx, domainhotel.HotelID(q.HotelID), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	out := &MonthTotal{Year: q.Year, Month: q.Month}
	for _, b := range bills {
		out.RoomTotal = out.RoomTotal.Add(b.RoomTotal)
		out.UtilitiesTotal = out.UtilitiesTotal.Add(b.UtilitiesTotal)
		out.Total = out.Total.Add(b.Total)
		out.Bills++
	}
	for _, e := range expenses {
		out.Expenses = out.Expenses.Add(e.Amount)
	}
	out.Net = out.Total.Sub(out.Expenses)
	return out, nil
}
