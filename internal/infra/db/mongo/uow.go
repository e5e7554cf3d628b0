package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotelops/internal/app/uow"
	domainbilling "hotelops/internal/domain/billing"
	domainexpense "hotelops/internal/domain/expense"
	domainhotel "hotelops/internal/domain/hotel"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	domainutility "hotelops/internal/domain/utility"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	HotelsRepo      domainhotel.Repository
	RoomsRepo       domainroom.Repository
	OccupanciesRepo domainoccupancy.Repository
	LedgersRepo     domainpricing.Repository
	UtilitiesRepo   domainutility.Repository
	BillsRepo       domainbilling.Repository
	ExpensesRepo    domainexpense.Repository
}

// NewFactory builds the factory with repositories over db's collections.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:              db,
		HotelsRepo:      NewHotelRepository(db),
		RoomsRepo:       NewRoomRepository(db),
		OccupanciesRepo: NewOccupancyRepository(db),
		LedgersRepo:     NewLedgerRepository(db),
		UtilitiesRepo:   NewUtilityRepository(db),
		BillsRepo:       NewBillRepository(db),
		ExpensesRepo:    NewExpenseRepository(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{factory: f, session: session}, nil
}

type Unit struct {
	factory Factory
	session mongo.Session
}

func (u *Unit) Hotels() domainhotel.Repository          { return u.factory.HotelsRepo }
func (u *Unit) Rooms() domainroom.Repository            { return u.factory.RoomsRepo }
func (u *Unit) Occupancies() domainoccupancy.Repository { return u.factory.OccupanciesRepo }
func (u *Unit) Ledgers() domainpricing.Repository       { return u.factory.LedgersRepo }
func (u *Unit) Utilities() domainutility.Repository     { return u.factory.UtilitiesRepo }
func (u *Unit) Bills() domainbilling.Repository         { return u.factory.BillsRepo }
func (u *Unit) Expenses() domainexpense.Repository      { return u.factory.ExpensesRepo }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the session available to the repositories so
// their reads and writes join the transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
