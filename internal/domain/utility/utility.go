package utility

import (
	"context"
	"time"

	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

type UtilityID string

var ErrNotFound = apperr.NotFound("utility: not found")

// Utility is a catalog item (minibar drink, laundry, parking...). Stays
// snapshot its price when consumed, so editing it never reprices history.
type Utility struct {
	ID        UtilityID
	Name      string
	Price     decimal.Decimal
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

func New(id UtilityID, name string, price decimal.Decimal, icon string, now time.Time) (*Utility, error) {
	if name == "" {
		return nil, apperr.Validation("utility: name required")
	}
	if price.IsNegative() {
		return nil, apperr.Validation("utility: price cannot be negative")
	}
	now = now.UTC()
	return &Utility{ID: id, Name: name, Price: price, Icon: icon, CreatedAt: now, UpdatedAt: now}, nil
}

func (u *Utility) Update(name string, price decimal.Decimal, icon string, now time.Time) error {
	if name == "" {
		return apperr.Validation("utility: name required")
	}
	if price.IsNegative() {
		return apperr.Validation("utility: price cannot be negative")
	}
	u.Name = name
	u.Price = price
	u.Icon = icon
	u.UpdatedAt = now.UTC()
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id UtilityID) (*Utility, error)
	List(ctx context.Context) ([]*Utility, error)
	Save(ctx context.Context, u *Utility) error
	Delete(ctx context.Context, id UtilityID) error
}
