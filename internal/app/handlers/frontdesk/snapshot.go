package frontdesk

import (
	"context"
	"log/slog"

	"hotelops/internal/app/middleware"
	"hotelops/internal/app/support"
	"hotelops/internal/app/uow"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
)

const PricingSnapshotKey = "frontdesk.pricing_snapshot"

// PricingSnapshotQuery reads the current pricing state of a stay. The
// open window is refreshed lazily first so an hourly stay accrues and
// an expired day or night window rolls over to hourly; a refresh that
// cannot be persisted degrades to a stale read instead of failing.
type PricingSnapshotQuery struct {
	OccupancyID string `json:"occupancy_id"`
}

func (q PricingSnapshotQuery) Key() string { return PricingSnapshotKey }

func (q PricingSnapshotQuery) Validate() error {
	if q.OccupancyID == "" {
		return apperr.Validation("frontdesk: occupancy id required")
	}
	return nil
}

type PricingSnapshotHandler struct {
	Deps
	Logger *slog.Logger
}

func (h PricingSnapshotHandler) Handle(ctx context.Context, q PricingSnapshotQuery) (*PricingSnapshot, error) {
	if err := h.refresh(ctx, q.OccupancyID); err != nil {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.WarnContext(ctx, "pricing refresh failed, serving last stored state",
			slog.String("occupancy_id", q.OccupancyID),
			slog.Any("error", err),
		)
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoW)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	s, err := loadStay(ctx, unit, q.OccupancyID)
	if err != nil {
		return nil, err
	}
	reprice(s.Occ, s.Ledger)
	return buildSnapshot(s.Occ, s.Ledger), nil
}

// refresh persists the lazily re-priced open window in its own short
// transaction, retrying on write conflicts like any other mutation.
func (h PricingSnapshotHandler) refresh(ctx context.Context, occupancyID string) error {
	return middleware.Do(ctx, middleware.DefaultTxAttempts, func(ctx context.Context) error {
		unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoW, uow.TxOptions{})
		if err != nil {
			return err
		}
		owned := cleanup != nil
		if owned {
			defer cleanup()
		}
		s, err := loadStay(ctx, unit, occupancyID)
		if err != nil {
			return err
		}
		if !domainpricing.Refresh(s.Ledger, s.Room.Rates, h.now()) {
			return nil
		}
		reprice(s.Occ, s.Ledger)
		if err := unit.Ledgers().Save(ctx, s.Ledger); err != nil {
			return err
		}
		if owned {
			return unit.Commit(ctx)
		}
		return nil
	})
}
