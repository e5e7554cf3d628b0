// Package expenses logs operating costs so the revenue reports can be
// read net of spending.
package expenses

import (
	"context"
	"time"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainexpense "hotelops/internal/domain/expense"
	domainhotel "hotelops/internal/domain/hotel"
	"hotelops/internal/domain/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RecordExpenseKey = "expenses.record"
	DeleteExpenseKey = "expenses.delete"
	ListExpensesKey  = "expenses.list"
)

type Deps struct {
	UoW   uow.UoWFactory
	Clock func() time.Time
	NewID func() string
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

type ExpenseView struct {
	ID      string          `json:"id"`
	HotelID string          `json:"hotel_id"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	SpentAt time.Time       `json:"spent_at"`
}

type RecordExpenseCommand struct {
	HotelID string          `json:"hotel_id"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	SpentAt time.Time       `json:"spent_at"`
}

func (c RecordExpenseCommand) Key() string { return RecordExpenseKey }

func (c RecordExpenseCommand) Validate() error {
	if c.HotelID == "" {
		return apperr.Validation("expenses: hotel id required")
	}
	if c.Label == "" {
		return apperr.Validation("expenses: label required")
	}
	if c.Amount.IsNegative() {
		return apperr.Validation("expenses: amount cannot be negative")
	}
	return nil
}

type RecordExpenseHandler struct {
	Deps
}

func (h RecordExpenseHandler) Handle(ctx context.Context, cmd RecordExpenseCommand) (*ExpenseView, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	now := h.now()
	spent := cmd.SpentAt
	if spent.IsZero() {
		spent = now
	}
	exp, err := domainexpense.New(
		domainexpense.ExpenseID(h.newID()),
		domainhotel.HotelID(cmd.HotelID),
		cmd.Label, cmd.Amount, spent, now,
	)
	if err != nil {
		return nil, err
	}
	if err := unit.Expenses().Save(ctx, exp); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return &ExpenseView{
		ID:      string(exp.ID),
		HotelID: string(exp.HotelID),
		Label:   exp.Label,
		Amount:  exp.Amount,
		SpentAt: exp.SpentAt,
	}, nil
}

type DeleteExpenseCommand struct {
	ExpenseID string `json:"expense_id"`
}

func (c DeleteExpenseCommand) Key() string { return DeleteExpenseKey }

func (c DeleteExpenseCommand) Validate() error {
	if c.ExpenseID == "" {
		return apperr.Validation("expenses: expense id required")
	}
	return nil
}

type DeleteExpenseHandler struct {
	Deps
}

func (h DeleteExpenseHandler) Handle(ctx context.Context, cmd DeleteExpenseCommand) (struct{}, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return struct{}{}, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	if err := unit.Expenses().Delete(ctx, domainexpense.ExpenseID(cmd.ExpenseID)); err != nil {
		return struct{}{}, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

type ListExpensesQuery struct {
	HotelID string    `json:"hotel_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

func (q ListExpensesQuery) Key() string { return ListExpensesKey }

func (q ListExpensesQuery) Validate() error {
	if q.HotelID == "" {
		return apperr.Validation("expenses: hotel id required")
	}
	return nil
}

type ListExpensesHandler struct {
	Deps
}

func (h ListExpensesHandler) Handle(ctx context.Context, q ListExpensesQuery) ([]ExpenseView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	list, err := unit.Expenses().ListByHotel(ctx, domainhotel.HotelID(q.HotelID), q.From, q.To)
	if err != nil {
		return nil, err
	}
	views := make([]ExpenseView, 0, len(list))
	for _, exp := range list {
		views = append(views, ExpenseView{
			ID:      string(exp.ID),
			HotelID: string(exp.HotelID),
			Label:   exp.Label,
			Amount:  exp.Amount,
			SpentAt: exp.SpentAt,
		})
	}
	return views, nil
}
