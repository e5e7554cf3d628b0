package frontdesk

import (
	"context"
	"fmt"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

const AddSurchargeKey = "frontdesk.add_surcharge"

// AddSurchargeCommand records an ad-hoc charge on a running stay, such
// as a damage fee or late checkout penalty.
type AddSurchargeCommand struct {
	OccupancyID string          `json:"occupancy_id"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
}

func (c AddSurchargeCommand) Key() string { return AddSurchargeKey }

func (c AddSurchargeCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	if c.Label == "" {
		return apperr.Validation("frontdesk: surcharge label required")
	}
	if c.Amount.IsNegative() {
		return apperr.Validation("frontdesk: surcharge amount cannot be negative")
	}
	return nil
}

type AddSurchargeHandler struct {
	Deps
}

func (h AddSurchargeHandler) Handle(ctx context.Context, cmd AddSurchargeCommand) (*PricingSnapshot, error) {
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
	if err := s.Occ.AddSurcharge(cmd.Label, cmd.Amount, now); err != nil {
		return nil, err
	}
	s.Ledger.AppendMarker(domainpricing.ActionSurcharge,
		fmt.Sprintf("%s: %s", cmd.Label, cmd.Amount.String()), now)
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
