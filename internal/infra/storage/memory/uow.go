package memory

import (
	"context"
	"errors"

	"hotelops/internal/app/uow"
	domainbilling "hotelops/internal/domain/billing"
	domainexpense "hotelops/internal/domain/expense"
	domainhotel "hotelops/internal/domain/hotel"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	domainutility "hotelops/internal/domain/utility"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory repositories into a unit-of-work
// boundary. No isolation is provided, but saves still enforce the
// version check so conflict handling can be exercised without Mongo.
type Factory struct {
	HotelsRepo      domainhotel.Repository
	RoomsRepo       domainroom.Repository
	OccupanciesRepo domainoccupancy.Repository
	LedgersRepo     domainpricing.Repository
	UtilitiesRepo   domainutility.Repository
	BillsRepo       domainbilling.Repository
	ExpensesRepo    domainexpense.Repository
}

// NewFactory builds a factory over fresh empty repositories.
func NewFactory() Factory {
	return Factory{
		HotelsRepo:      NewHotelRepository(),
		RoomsRepo:       NewRoomRepository(),
		OccupanciesRepo: NewOccupancyRepository(),
		LedgersRepo:     NewLedgerRepository(),
		UtilitiesRepo:   NewUtilityRepository(),
		BillsRepo:       NewBillRepository(),
		ExpensesRepo:    NewExpenseRepository(),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.HotelsRepo == nil || f.RoomsRepo == nil || f.OccupanciesRepo == nil ||
		f.LedgersRepo == nil || f.UtilitiesRepo == nil || f.BillsRepo == nil || f.ExpensesRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by the shared stores.
type Unit struct {
	factory Factory
}

func (u *Unit) Hotels() domainhotel.Repository          { return u.factory.HotelsRepo }
func (u *Unit) Rooms() domainroom.Repository            { return u.factory.RoomsRepo }
func (u *Unit) Occupancies() domainoccupancy.Repository { return u.factory.OccupanciesRepo }
func (u *Unit) Ledgers() domainpricing.Repository       { return u.factory.LedgersRepo }
func (u *Unit) Utilities() domainutility.Repository     { return u.factory.UtilitiesRepo }
func (u *Unit) Bills() domainbilling.Repository         { return u.factory.BillsRepo }
func (u *Unit) Expenses() domainexpense.Repository      { return u.factory.ExpensesRepo }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }
