package frontdesk

import (
	"context"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
)

const ChangeModeKey = "frontdesk.change_mode"

// ChangeModeCommand switches a running stay between hourly, day and
// night billing. The room's occupancy flag follows the ledger so the
// rooms board always reflects the mode in effect.
type ChangeModeCommand struct {
	OccupancyID string `json:"occupancy_id"`
	Mode        string `json:"mode"`
}

func (c ChangeModeCommand) Key() string { return ChangeModeKey }

func (c ChangeModeCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	if _, err := domainpricing.ParseMode(c.Mode); err != nil {
		return err
	}
	return nil
}

type ChangeModeHandler struct {
	Deps
}

func (h ChangeModeHandler) Handle(ctx context.Context, cmd ChangeModeCommand) (*PricingSnapshot, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	requested, err := domainpricing.ParseMode(cmd.Mode)
	if err != nil {
		return nil, err
	}
	s, err := loadStay(ctx, unit, cmd.OccupancyID)
	if err != nil {
		return nil, err
	}
	now := h.now()
	before := s.Ledger.Mode
	if err := domainpricing.ChangeMode(s.Ledger, s.Room.Rates, requested, now); err != nil {
		return nil, err
	}
	s.Room.SetMode(s.Ledger.Mode, now)
	reprice(s.Occ, s.Ledger)

	if before != s.Ledger.Mode {
		s.Occ.Record(domainoccupancy.ModeChanged{
			OccupancyID: s.Occ.ID,
			From:        before,
			To:          s.Ledger.Mode,
			At:          now,
		})
	}

	if err := unit.Rooms().Save(ctx, s.Room); err != nil {
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
