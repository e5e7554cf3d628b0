// Package hotels manages the hotel records rooms hang off.
package hotels

import (
	"context"
	"time"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainhotel "hotelops/internal/domain/hotel"
	"hotelops/internal/domain/shared/apperr"

	"github.com/google/uuid"
)

const (
	CreateHotelKey = "hotels.create"
	ListHotelsKey  = "hotels.list"
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

type HotelView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type CreateHotelCommand struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (c CreateHotelCommand) Key() string { return CreateHotelKey }

func (c CreateHotelCommand) Validate() error {
	if c.Name == "" {
		return apperr.Validation("hotels: name required")
	}
	return nil
}

type CreateHotelHandler struct {
	Deps
}

func (h CreateHotelHandler) Handle(ctx context.Context, cmd CreateHotelCommand) (*HotelView, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	hot, err := domainhotel.New(domainhotel.HotelID(h.newID()), cmd.Name, cmd.Address, h.now())
	if err != nil {
		return nil, err
	}
	if err := unit.Hotels().Save(ctx, hot); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return &HotelView{ID: string(hot.ID), Name: hot.Name, Address: hot.Address}, nil
}

type ListHotelsQuery struct{}

func (q ListHotelsQuery) Key() string { return ListHotelsKey }

type ListHotelsHandler struct {
	Deps
}

func (h ListHotelsHandler) Handle(ctx context.Context, _ ListHotelsQuery) ([]HotelView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	list, err := unit.Hotels().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]HotelView, 0, len(list))
	for _, hot := range list {
		views = append(views, HotelView{ID: string(hot.ID), Name: hot.Name, Address: hot.Address})
	}
	return views, nil
}
