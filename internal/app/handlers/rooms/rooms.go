// Package rooms manages the room inventory and serves the front desk
// board: every room of a hotel with its occupancy state and, when
// occupied, the running stay.
package rooms

import (
	"context"
	"time"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainhotel "hotelops/internal/domain/hotel"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CreateRoomKey   = "rooms.create"
	UpdateRoomKey   = "rooms.update"
	BoardByHotelKey = "rooms.board_by_hotel"
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

type RateCardInput struct {
	FirstHour decimal.Decimal `json:"first_hour"`
	NextHour  decimal.Decimal `json:"next_hour"`
	Day       decimal.Decimal `json:"day"`
	Night     decimal.Decimal `json:"night"`
}

func (r RateCardInput) toCard() domainpricing.RateCard {
	return domainpricing.RateCard{
		FirstHour: r.FirstHour,
		NextHour:  r.NextHour,
		Day:       r.Day,
		Night:     r.Night,
	}
}

type RoomView struct {
	ID          string          `json:"id"`
	HotelID     string          `json:"hotel_id"`
	Name        string          `json:"name"`
	Floor       int             `json:"floor"`
	Description string          `json:"description,omitempty"`
	Rates       RateCardInput   `json:"rates"`
	Mode        int             `json:"mode"`
	Available   bool            `json:"available"`
	OccupancyID string          `json:"occupancy_id,omitempty"`
	CheckIn     *time.Time      `json:"check_in,omitempty"`
	Amount      decimal.Decimal `json:"calculated_amount"`
}

func roomView(r *domainroom.Room) RoomView {
	return RoomView{
		ID:          string(r.ID),
		HotelID:     string(r.HotelID),
		Name:        r.Name,
		Floor:       r.Floor,
		Description: r.Description,
		Rates: RateCardInput{
			FirstHour: r.Rates.FirstHour,
			NextHour:  r.Rates.NextHour,
			Day:       r.Rates.Day,
			Night:     r.Rates.Night,
		},
		Mode:      r.Mode,
		Available: r.Available,
	}
}

// CreateRoomCommand adds a room to a hotel's inventory.
type CreateRoomCommand struct {
	HotelID     string        `json:"hotel_id"`
	Name        string        `json:"name"`
	Floor       int           `json:"floor"`
	Description string        `json:"description"`
	Rates       RateCardInput `json:"rates"`
}

func (c CreateRoomCommand) Key() string { return CreateRoomKey }

func (c CreateRoomCommand) Validate() error {
	if c.HotelID == "" {
		return apperr.Validation("rooms: hotel id required")
	}
	if c.Name == "" {
		return apperr.Validation("rooms: name required")
	}
	return nil
}

type CreateRoomHandler struct {
	Deps
}

func (h CreateRoomHandler) Handle(ctx context.Context, cmd CreateRoomCommand) (*RoomView, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	if _, err := unit.Hotels().ByID(ctx, domainhotel.HotelID(cmd.HotelID)); err != nil {
		return nil, err
	}
	rm, err := domainroom.New(domainroom.CreateParams{
		ID:          domainroom.RoomID(h.newID()),
		HotelID:     domainhotel.HotelID(cmd.HotelID),
		Name:        cmd.Name,
		Floor:       cmd.Floor,
		Description: cmd.Description,
		Rates:       cmd.Rates.toCard(),
		CreatedAt:   h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Rooms().Save(ctx, rm); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	view := roomView(rm)
	return &view, nil
}

// UpdateRoomCommand edits a room's descriptive fields and rate card.
// Rate changes apply to future pricing only; running stays keep the
// rates snapshotted on their ledger entries.
type UpdateRoomCommand struct {
	RoomID      string        `json:"room_id"`
	Name        string        `json:"name"`
	Floor       int           `json:"floor"`
	Description string        `json:"description"`
	Rates       RateCardInput `json:"rates"`
	Available   bool          `json:"available"`
}

func (c UpdateRoomCommand) Key() string { return UpdateRoomKey }

func (c UpdateRoomCommand) Validate() error {
	if c.RoomID == "" {
		return apperr.Validation("rooms: room id required")
	}
	if c.Name == "" {
		return apperr.Validation("rooms: name required")
	}
	card := c.Rates.toCard()
	if card.FirstHour.IsNegative() || card.NextHour.IsNegative() ||
		card.Day.IsNegative() || card.Night.IsNegative() {
		return apperr.Validation("rooms: rates cannot be negative")
	}
	return nil
}

type UpdateRoomHandler struct {
	Deps
}

func (h UpdateRoomHandler) Handle(ctx context.Context, cmd UpdateRoomCommand) (*RoomView, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	rm, err := unit.Rooms().ByID(ctx, domainroom.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	rm.Name = cmd.Name
	rm.Floor = cmd.Floor
	rm.Description = cmd.Description
	rm.Rates = cmd.Rates.toCard()
	rm.Available = cmd.Available
	rm.UpdatedAt = h.now()

	if err := unit.Rooms().Save(ctx, rm); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	view := roomView(rm)
	return &view, nil
}

// BoardByHotelQuery lists a hotel's rooms with their current stays.
type BoardByHotelQuery struct {
	HotelID string `json:"hotel_id"`
}

func (q BoardByHotelQuery) Key() string { return BoardByHotelKey }

func (q BoardByHotelQuery) Validate() error {
	if q.HotelID == "" {
		return apperr.Validation("rooms: hotel id required")
	}
	return nil
}

type BoardByHotelHandler struct {
	Deps
}

func (h BoardByHotelHandler) Handle(ctx context.Context, q BoardByHotelQuery) ([]RoomView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	list, err := unit.Rooms().ByHotel(ctx, domainhotel.HotelID(q.HotelID))
	if err != nil {
		return nil, err
	}
	views := make([]RoomView, 0, len(list))
	for _, rm := range list {
		view := roomView(rm)
		if !rm.Free() {
			occ, err := unit.Occupancies().ByRoom(ctx, rm.ID)
			if err == nil {
				view.OccupancyID = string(occ.ID)
				in := occ.CheckIn
				view.CheckIn = &in
				if ledger, err := unit.Ledgers().ByOccupancy(ctx, string(occ.ID)); err == nil {
					view.Amount = ledger.CalculatedAmount
				}
			} else if !apperr.IsNotFound(err) {
				return nil, err
			}
		}
		views = append(views, view)
	}
	return views, nil
}
