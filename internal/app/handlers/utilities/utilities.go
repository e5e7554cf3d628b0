// Package utilities manages the extras catalog. Stays snapshot a
// utility's name and price when it is consumed, so edits and deletions
// here never touch running or past stays.
package utilities

import (
	"context"
	"time"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	"hotelops/internal/domain/shared/apperr"
	domainutility "hotelops/internal/domain/utility"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CreateUtilityKey = "utilities.create"
	UpdateUtilityKey = "utilities.update"
	DeleteUtilityKey = "utilities.delete"
	ListUtilitiesKey = "utilities.list"
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

type UtilityView struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Icon  string          `json:"icon,omitempty"`
}

func view(u *domainutility.Utility) UtilityView {
	return UtilityView{ID: string(u.ID), Name: u.Name, Price: u.Price, Icon: u.Icon}
}

type CreateUtilityCommand struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Icon  string          `json:"icon"`
}

func (c CreateUtilityCommand) Key() string { return CreateUtilityKey }

func (c CreateUtilityCommand) Validate() error {
	if c.Name == "" {
		return apperr.Validation("utilities: name required")
	}
	if c.Price.IsNegative() {
		return apperr.Validation("utilities: price cannot be negative")
	}
	return nil
}

type CreateUtilityHandler struct {
	Deps
}

func (h CreateUtilityHandler) Handle(ctx context.Context, cmd CreateUtilityCommand) (*UtilityView, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	u, err := domainutility.New(domainutility.UtilityID(h.newID()), cmd.Name, cmd.Price, cmd.Icon, h.now())
	if err != nil {
		return nil, err
	}
	if err := unit.Utilities().Save(ctx, u); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	v := view(u)
	return &v, nil
}

type UpdateUtilityCommand struct {
	UtilityID string          `json:"utility_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Icon      string          `json:"icon"`
}

func (c UpdateUtilityCommand) Key() string { return UpdateUtilityKey }

func (c UpdateUtilityCommand) Validate() error {
	if c.UtilityID == "" {
		return apperr.Validation("utilities: utility id required")
	}
	if c.Name == "" {
		return apperr.Validation("utilities: name required")
	}
	if c.Price.IsNegative() {
		return apperr.Validation("utilities: price cannot be negative")
	}
	return nil
}

type UpdateUtilityHandler struct {
	Deps
}

func (h UpdateUtilityHandler) Handle(ctx context.Context, cmd UpdateUtilityCommand) (*UtilityView, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	u, err := unit.Utilities().ByID(ctx, domainutility.UtilityID(cmd.UtilityID))
	if err != nil {
		return nil, err
	}
	if err := u.Update(cmd.Name, cmd.Price, cmd.Icon, h.now()); err != nil {
		return nil, err
	}
	if err := unit.Utilities().Save(ctx, u); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	v := view(u)
	return &v, nil
}

type DeleteUtilityCommand struct {
	UtilityID string `json:"utility_id"`
}

func (c DeleteUtilityCommand) Key() string { return DeleteUtilityKey }

func (c DeleteUtilityCommand) Validate() error {
	if c.UtilityID == "" {
		return apperr.Validation("utilities: utility id required")
	}
	return nil
}

type DeleteUtilityHandler struct {
	Deps
}

func (h DeleteUtilityHandler) Handle(ctx context.Context, cmd DeleteUtilityCommand) (struct{}, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return struct{}{}, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	if err := unit.Utilities().Delete(ctx, domainutility.UtilityID(cmd.UtilityID)); err != nil {
		return struct{}{}, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

type ListUtilitiesQuery struct{}

func (q ListUtilitiesQuery) Key() string { return ListUtilitiesKey }

type ListUtilitiesHandler struct {
	Deps
}

func (h ListUtilitiesHandler) Handle(ctx context.Context, _ ListUtilitiesQuery) ([]UtilityView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	list, err := unit.Utilities().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UtilityView, 0, len(list))
	for _, u := range list {
		views = append(views, view(u))
	}
	return views, nil
}
