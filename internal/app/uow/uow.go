package uow

import (
	"context"
	"errors"

	domainbilling "hotelops/internal/domain/billing"
	domainexpense "hotelops/internal/domain/expense"
	domainhotel "hotelops/internal/domain/hotel"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	domainutility "hotelops/internal/domain/utility"
)

// ErrConcurrentUpdate marks a failed optimistic version check. Storage
// implementations wrap it so callers can tell a stale write, which is
// worth re-running, apart from conflicts that are definitive business
// answers, such as a room already being occupied.
var ErrConcurrentUpdate = errors.New("concurrent update detected")

// UnitOfWork coordinates the repositories inside one transaction boundary.
// Mutations touching more than one document run through it so the ledger,
// occupancy and room commit or roll back together.
type UnitOfWork interface {
	Hotels() domainhotel.Repository
	Rooms() domainroom.Repository
	Occupancies() domainoccupancy.Repository
	Ledgers() domainpricing.Repository
	Utilities() domainutility.Repository
	Bills() domainbilling.Repository
	Expenses() domainexpense.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
