// Package frontdesk holds the staff-facing stay operations: check-in,
// billing mode changes, room transfers, surcharges, notes, extras and
// checkout. Every mutation loads the aggregates inside the ambient unit
// of work, applies the domain rules and re-derives the calculated total
// before saving.
package frontdesk

import (
	"context"
	"time"

	"hotelops/internal/app/outbox"
	"hotelops/internal/app/uow"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/events"

	"github.com/google/uuid"
)

// Deps carries the shared collaborators of every frontdesk handler.
// Clock and NewID default to the real implementations; tests override
// them for deterministic time and identifiers.
type Deps struct {
	UoW     uow.UoWFactory
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Clock   func() time.Time
	NewID   func() string
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

// publish hands pending domain events to the outbox inside the ambient
// transaction; they leave the process only after the write commits.
func (d Deps) publish(ctx context.Context, pending []events.DomainEvent) error {
	return outbox.RecordDomainEvents(ctx, d.Outbox, d.Encoder, pending)
}

// stay bundles the three aggregates every stay mutation touches.
type stay struct {
	Occ    *domainoccupancy.Occupancy
	Ledger *domainpricing.Ledger
	Room   *domainroom.Room
}

// loadStay fetches the occupancy with its ledger and current room.
func loadStay(ctx context.Context, unit uow.UnitOfWork, occupancyID string) (*stay, error) {
	occ, err := unit.Occupancies().ByID(ctx, domainoccupancy.OccupancyID(occupancyID))
	if err != nil {
		return nil, err
	}
	ledger, err := unit.Ledgers().ByOccupancy(ctx, occupancyID)
	if err != nil {
		return nil, err
	}
	rm, err := unit.Rooms().ByID(ctx, occ.RoomID)
	if err != nil {
		return nil, err
	}
	return &stay{Occ: occ, Ledger: ledger, Room: rm}, nil
}

// saveStay persists occupancy and ledger together.
func saveStay(ctx context.Context, unit uow.UnitOfWork, s *stay) error {
	if err := unit.Occupancies().Save(ctx, s.Occ); err != nil {
		return err
	}
	return unit.Ledgers().Save(ctx, s.Ledger)
}
