package frontdesk

import (
	"context"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainbilling "hotelops/internal/domain/billing"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
	"hotelops/internal/domain/shared/events"

	"github.com/shopspring/decimal"
)

const CloseOccupancyKey = "frontdesk.close_occupancy"

// CloseOccupancyCommand checks the guest out: the open pricing window
// is settled at now, a bill is issued with room and extras totals kept
// apart, the room is freed, and the stay's working records are removed.
type CloseOccupancyCommand struct {
	OccupancyID string `json:"occupancy_id"`
}

func (c CloseOccupancyCommand) Key() string { return CloseOccupancyKey }

func (c CloseOccupancyCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	return nil
}

// BillView is the checkout result.
type BillView struct {
	BillID         string           `json:"bill_id"`
	RoomID         string           `json:"room_id"`
	RoomName       string           `json:"room_name"`
	RoomTotal      decimal.Decimal  `json:"room_total"`
	UtilitiesTotal decimal.Decimal  `json:"utilities_total"`
	Total          decimal.Decimal  `json:"total"`
	Snapshot       *PricingSnapshot `json:"snapshot"`
}

type CloseOccupancyHandler struct {
	Deps
}

func (h CloseOccupancyHandler) Handle(ctx context.Context, cmd CloseOccupancyCommand) (*BillView, error) {
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
	now := h.now()
	if err := s.Occ.Close(now); err != nil {
		return nil, err
	}
	if err := domainpricing.CloseOut(s.Ledger, s.Room.Rates, now); err != nil {
		return nil, err
	}
	reprice(s.Occ, s.Ledger)

	total := s.Ledger.CalculatedAmount
	utilities := s.Occ.ExtrasTotal()
	roomTotal := total.Sub(utilities)
	if roomTotal.IsNegative() {
		roomTotal = decimal.Zero
	}

	bill, err := domainbilling.Issue(domainbilling.IssueParams{
		ID:             domainbilling.BillID(h.newID()),
		RoomID:         s.Room.ID,
		HotelID:        s.Room.HotelID,
		RoomName:       s.Room.Name,
		RoomTotal:      roomTotal,
		UtilitiesTotal: utilities,
		Total:          total,
		CheckIn:        s.Occ.CheckIn,
		CheckOut:       now,
	}, now)
	if err != nil {
		return nil, err
	}

	s.Room.Release(now)
	s.Occ.Record(domainoccupancy.ClosedOut{
		OccupancyID: s.Occ.ID,
		RoomID:      s.Room.ID,
		Total:       total,
		At:          now,
	})

	if err := unit.Bills().Save(ctx, bill); err != nil {
		return nil, err
	}
	if err := unit.Rooms().Save(ctx, s.Room); err != nil {
		return nil, err
	}
	if err := unit.Ledgers().Delete(ctx, string(s.Occ.ID)); err != nil {
		return nil, err
	}
	if err := unit.Occupancies().Delete(ctx, s.Occ.ID); err != nil {
		return nil, err
	}

	pending := append(s.Occ.PendingEvents(), events.DomainEvent(domainbilling.BillIssued{
		BillID:  bill.ID,
		RoomID:  bill.RoomID,
		HotelID: bill.HotelID,
		Total:   bill.Total,
		At:      now,
	}))
	if err := h.publish(ctx, pending); err != nil {
		return nil, err
	}
	s.Occ.ClearEvents()

	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return &BillView{
		BillID:         string(bill.ID),
		RoomID:         string(bill.RoomID),
		RoomName:       bill.RoomName,
		RoomTotal:      bill.RoomTotal,
		UtilitiesTotal: bill.UtilitiesTotal,
		Total:          bill.Total,
		Snapshot:       buildSnapshot(s.Occ, s.Ledger),
	}, nil
}
