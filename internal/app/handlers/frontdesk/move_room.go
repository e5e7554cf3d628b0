package frontdesk

import (
	"context"
	"fmt"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"
)

const MoveRoomKey = "frontdesk.move_room"

// MoveRoomCommand transfers a running stay to another room in the same
// hotel. The whole pricing history is re-rated against the target
// room's rate card and the move is marked in the ledger.
type MoveRoomCommand struct {
	OccupancyID string `json:"occupancy_id"`
	ToRoomID    string `json:"to_room_id"`
}

func (c MoveRoomCommand) Key() string { return MoveRoomKey }

func (c MoveRoomCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	if c.ToRoomID == "" {
		return apperr.Validation("frontdesk: target room id required")
	}
	return nil
}

type MoveRoomHandler struct {
	Deps
}

func (h MoveRoomHandler) Handle(ctx context.Context, cmd MoveRoomCommand) (*PricingSnapshot, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	s, err := loadStay(ctx, unit, cmd.OccupancyID)
	if err != nil {
		return nil, err
	}
	if string(s.Room.ID) == cmd.ToRoomID {
		return nil, apperr.Validation("frontdesk: stay is already in that room")
	}
	target, err := unit.Rooms().ByID(ctx, domainroom.RoomID(cmd.ToRoomID))
	if err != nil {
		return nil, err
	}
	if target.HotelID != s.Room.HotelID {
		return nil, apperr.Validation("frontdesk: target room belongs to another hotel")
	}

	now := h.now()
	if err := target.Occupy(s.Ledger.Mode, now); err != nil {
		return nil, err
	}
	s.Room.Release(now)

	domainpricing.Rerate(s.Ledger, target.Rates, now)
	s.Ledger.AppendMarker(domainpricing.ActionChangeRoom,
		fmt.Sprintf("moved from room %s to room %s", s.Room.Name, target.Name), now)
	s.Occ.MoveTo(target.ID, now)
	reprice(s.Occ, s.Ledger)

	if err := unit.Rooms().Save(ctx, s.Room); err != nil {
		return nil, err
	}
	if err := unit.Rooms().Save(ctx, target); err != nil {
		return nil, err
	}
	if err := saveStay(ctx, unit, s); err != nil {
		return nil, err
	}
	if err := h.publish(ctx, s.Occ.PendingEvents()); err != nil {
		return nil, err
	}
	s.Occ.ClearEvents()

	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return buildSnapshot(s.Occ, s.Ledger), nil
}
