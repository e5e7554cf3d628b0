package frontdesk

import (
	"context"
	"fmt"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

const SetNoteKey = "frontdesk.set_note"

// SetNoteCommand replaces the stay's note. Discount and prepayment
// reduce the total; a positive negotiated price overrides it entirely.
type SetNoteCommand struct {
	OccupancyID     string          `json:"occupancy_id"`
	Content         string          `json:"content"`
	Discount        decimal.Decimal `json:"discount"`
	Prepayment      decimal.Decimal `json:"prepayment"`
	NegotiatedPrice decimal.Decimal `json:"negotiated_price"`
}

func (c SetNoteCommand) Key() string { return SetNoteKey }

func (c SetNoteCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	if c.Discount.IsNegative() || c.Prepayment.IsNegative() || c.NegotiatedPrice.IsNegative() {
		return apperr.Validation("frontdesk: note amounts cannot be negative")
	}
	return nil
}

type SetNoteHandler struct {
	Deps
}

func (h SetNoteHandler) Handle(ctx context.Context, cmd SetNoteCommand) (*PricingSnapshot, error) {
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
	note := domainoccupancy.Note{
		Content:         cmd.Content,
		Discount:        cmd.Discount,
		Prepayment:      cmd.Prepayment,
		NegotiatedPrice: cmd.NegotiatedPrice,
	}
	if err := s.Occ.SetNote(note, now); err != nil {
		return nil, err
	}
	if cmd.Discount.IsPositive() {
		s.Ledger.AppendMarker(domainpricing.ActionDiscount,
			fmt.Sprintf("discount %s", cmd.Discount.String()), now)
	}
	if cmd.Prepayment.IsPositive() {
		s.Ledger.AppendMarker(domainpricing.ActionPrepaid,
			fmt.Sprintf("prepaid %s", cmd.Prepayment.String()), now)
	}
	if cmd.NegotiatedPrice.IsPositive() {
		s.Ledger.AppendMarker(domainpricing.ActionNegotiate,
			fmt.Sprintf("negotiated %s", cmd.NegotiatedPrice.String()), now)
	}
	reprice(s.Occ, s.Ledger)

	if err := saveStay(ctx, unit, s); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return buildSnapshot(s.Occ, s.Ledger), nil
}
