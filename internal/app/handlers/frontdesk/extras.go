package frontdesk

import (
	"context"

	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	"hotelops/internal/domain/shared/apperr"
	domainutility "hotelops/internal/domain/utility"
)

const (
	AddExtraKey    = "frontdesk.add_extra"
	RemoveExtraKey = "frontdesk.remove_extra"
)

// AddExtraCommand books a catalog extra onto the stay. The catalog
// item's name and price are snapshotted at this moment, so later
// catalog edits never reprice what was already consumed.
type AddExtraCommand struct {
	OccupancyID string `json:"occupancy_id"`
	UtilityID   string `json:"utility_id"`
	Quantity    int64  `json:"quantity"`
}

func (c AddExtraCommand) Key() string { return AddExtraKey }

func (c AddExtraCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	if c.UtilityID == "" {
		return apperr.Validation("frontdesk: utility id required")
	}
	if c.Quantity <= 0 {
		return apperr.Validation("frontdesk: quantity must be positive")
	}
	return nil
}

type AddExtraHandler struct {
	Deps
}

func (h AddExtraHandler) Handle(ctx context.Context, cmd AddExtraCommand) (*PricingSnapshot, error) {
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
	item, err := unit.Utilities().ByID(ctx, domainutility.UtilityID(cmd.UtilityID))
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := s.Occ.AddExtra(string(item.ID), item.Name, item.Price, cmd.Quantity, now); err != nil {
		return nil, err
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

// RemoveExtraCommand gives back part or all of a consumed extra.
type RemoveExtraCommand struct {
	OccupancyID string `json:"occupancy_id"`
	UtilityID   string `json:"utility_id"`
	Quantity    int64  `json:"quantity"`
}

func (c RemoveExtraCommand) Key() string { return RemoveExtraKey }

func (c RemoveExtraCommand) Validate() error {
	if c.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	if c.UtilityID == "" {
		return apperr.Validation("frontdesk: utility id required")
	}
	if c.Quantity <= 0 {
		return apperr.Validation("frontdesk: quantity must be positive")
	}
	return nil
}

type RemoveExtraHandler struct {
	Deps
}

func (h RemoveExtraHandler) Handle(ctx context.Context, cmd RemoveExtraCommand) (*PricingSnapshot, error) {
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
	if err := s.Occ.RemoveExtra(cmd.UtilityID, cmd.Quantity, now); err != nil {
		return nil, err
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
