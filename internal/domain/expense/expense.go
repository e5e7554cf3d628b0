package expense

import (
	"context"
	"time"

	"hotelops/internal/domain/hotel"
	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

type ExpenseID string

var ErrNotFound = apperr.NotFound("expense: not found")

// Expense is an operating cost logged against a hotel.
type Expense struct {
	ID        ExpenseID
	HotelID   hotel.HotelID
	Label     string
	Amount    decimal.Decimal
	SpentAt   time.Time
	CreatedAt time.Time
}

func New(id ExpenseID, hotelID hotel.HotelID, label string, amount decimal.Decimal, spentAt, now time.Time) (*Expense, error) {
	if label == "" {
		return nil, apperr.Validation("expense: label required")
	}
	if amount.IsNegative() {
		return nil, apperr.Validation("expense: amount cannot be negative")
	}
	return &Expense{
		ID:        id,
		HotelID:   hotelID,
		Label:     label,
		Amount:    amount,
		SpentAt:   spentAt.UTC(),
		CreatedAt: now.UTC(),
	}, nil
}

type Repository interface {
	ByID(ctx context.Context, id ExpenseID) (*Expense, error)
	ListByHotel(ctx context.Context, hotelID hotel.HotelID, from, to time.Time) ([]*Expense, error)
	Save(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id ExpenseID) error
}
