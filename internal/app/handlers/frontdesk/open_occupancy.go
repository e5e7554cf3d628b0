package frontdesk

import (
	"context"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"
)

const OpenOccupancyKey = "frontdesk.open_occupancy"

type DocumentInput struct {
	Number      string `json:"number"`
	Type        string `json:"type"`
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	BirthDay    string `json:"birth_day"`
	Gender      bool   `json:"gender"`
	EthnicGroup string `json:"ethnic_group"`
}

type VehicleInput struct {
	LicensePlate string `json:"license_plate"`
}

// OpenOccupancyCommand checks a guest into a room. The room must be
// available and free; the stay opens with a pricing ledger in the
// requested billing mode at the room's current rates.
type OpenOccupancyCommand struct {
	RoomID    string          `json:"room_id"`
	Mode      string          `json:"mode"`
	Documents []DocumentInput `json:"documents,omitempty"`
	Vehicles  []VehicleInput  `json:"vehicles,omitempty"`
}

func (c OpenOccupancyCommand) Key() string { return OpenOccupancyKey }

func (c OpenOccupancyCommand) Validate() error {
	if c.RoomID == "" {
		return apperr.Validation("frontdesk: room id required")
	}
	if _, err := domainpricing.ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

type OpenOccupancyHandler struct {
	Deps
}

func (h OpenOccupancyHandler) Handle(ctx context.Context, cmd OpenOccupancyCommand) (*PricingSnapshot, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	mode, err := domainpricing.ParseMode(cmd.Mode)
	if err != nil {
		return nil, err
	}
	rm, err := unit.Rooms().ByID(ctx, domainroom.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := rm.Occupy(mode, now); err != nil {
		return nil, err
	}

	occ := domainoccupancy.New(domainoccupancy.OccupancyID(h.newID()), rm.ID, mode, now)
	for _, d := range cmd.Documents {
		occ.Documents = append(occ.Documents, domainoccupancy.IdentityDocument(d))
	}
	for _, v := range cmd.Vehicles {
		occ.Vehicles = append(occ.Vehicles, domainoccupancy.VehicleInfo(v))
	}

	ledger := domainpricing.NewLedger(h.newID(), string(occ.ID), mode, rm.Rates, now)
	reprice(occ, ledger)

	if err := unit.Rooms().Save(ctx, rm); err != nil {
		return nil, err
	}
	if err := saveStay(ctx, unit, &stay{Occ: occ, Ledger: ledger}); err != nil {
		return nil, err
	}
	if err := h.publish(ctx, occ.PendingEvents()); err != nil {
		return nil, err
	}
	occ.ClearEvents()

	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return buildSnapshot(occ, ledger), nil
}
