// Package app assembles the command and query buses from the handler
// packages. Commands run through validation, conflict retry and a
// transaction; each retry attempt begins a fresh unit of work because
// Retry sits outside Transaction in the chain.
package app

import (
	"log/slog"
	"time"

	"hotelops/internal/app/commands"
	billinghandlers "hotelops/internal/app/handlers/billing"
	"hotelops/internal/app/handlers/expenses"
	"hotelops/internal/app/handlers/frontdesk"
	"hotelops/internal/app/handlers/hotels"
	"hotelops/internal/app/handlers/rooms"
	"hotelops/internal/app/handlers/utilities"
	"hotelops/internal/app/middleware"
	"hotelops/internal/app/outbox"
	"hotelops/internal/app/queries"
	"hotelops/internal/app/uow"
)

// Options carries the infrastructure the application layer runs on.
type Options struct {
	UoW     uow.UoWFactory
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Clock   func() time.Time
	NewID   func() string
}

// Application exposes the wired buses to the transport layer.
type Application struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func New(opts Options) *Application {
	fd := frontdesk.Deps{
		UoW:     opts.UoW,
		Outbox:  opts.Outbox,
		Encoder: opts.Encoder,
		Clock:   opts.Clock,
		NewID:   opts.NewID,
	}

	cmdReg := commands.NewRegistry()
	commands.Register(cmdReg, frontdesk.OpenOccupancyKey, frontdesk.OpenOccupancyHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.ChangeModeKey, frontdesk.ChangeModeHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.MoveRoomKey, frontdesk.MoveRoomHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.AddSurchargeKey, frontdesk.AddSurchargeHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.SetNoteKey, frontdesk.SetNoteHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.AddExtraKey, frontdesk.AddExtraHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.RemoveExtraKey, frontdesk.RemoveExtraHandler{Deps: fd})
	commands.Register(cmdReg, frontdesk.CloseOccupancyKey, frontdesk.CloseOccupancyHandler{Deps: fd})

	rd := rooms.Deps{UoW: opts.UoW, Clock: opts.Clock, NewID: opts.NewID}
	commands.Register(cmdReg, rooms.CreateRoomKey, rooms.CreateRoomHandler{Deps: rd})
	commands.Register(cmdReg, rooms.UpdateRoomKey, rooms.UpdateRoomHandler{Deps: rd})

	hd := hotels.Deps{UoW: opts.UoW, Clock: opts.Clock, NewID: opts.NewID}
	commands.Register(cmdReg, hotels.CreateHotelKey, hotels.CreateHotelHandler{Deps: hd})

	ud := utilities.Deps{UoW: opts.UoW, Clock: opts.Clock, NewID: opts.NewID}
	commands.Register(cmdReg, utilities.CreateUtilityKey, utilities.CreateUtilityHandler{Deps: ud})
	commands.Register(cmdReg, utilities.UpdateUtilityKey, utilities.UpdateUtilityHandler{Deps: ud})
	commands.Register(cmdReg, utilities.DeleteUtilityKey, utilities.DeleteUtilityHandler{Deps: ud})

	ed := expenses.Deps{UoW: opts.UoW, Clock: opts.Clock, NewID: opts.NewID}
	commands.Register(cmdReg, expenses.RecordExpenseKey, expenses.RecordExpenseHandler{Deps: ed})
	commands.Register(cmdReg, expenses.DeleteExpenseKey, expenses.DeleteExpenseHandler{Deps: ed})

	qryReg := queries.NewRegistry()
	queries.Register(qryReg, frontdesk.PricingSnapshotKey, frontdesk.PricingSnapshotHandler{Deps: fd, Logger: opts.Logger})
	queries.Register(qryReg, rooms.BoardByHotelKey, rooms.BoardByHotelHandler{Deps: rd})
	queries.Register(qryReg, hotels.ListHotelsKey, hotels.ListHotelsHandler{Deps: hd})
	queries.Register(qryReg, utilities.ListUtilitiesKey, utilities.ListUtilitiesHandler{Deps: ud})
	queries.Register(qryReg, expenses.ListExpensesKey, expenses.ListExpensesHandler{Deps: ed})

	bd := billinghandlers.Deps{UoW: opts.UoW, Clock: opts.Clock}
	queries.Register(qryReg, billinghandlers.ListBillsKey, billinghandlers.ListBillsHandler{Deps: bd})
	queries.Register(qryReg, billinghandlers.DailyTotalsKey, billinghandlers.DailyTotalsHandler{Deps: bd})
	queries.Register(qryReg, billinghandlers.MonthlyTotalKey, billinghandlers.MonthlyTotalHandler{Deps: bd})

	cmdBus := middleware.ChainCommands(cmdReg,
		middleware.Validation(),
		middleware.Retry(middleware.DefaultTxAttempts),
		middleware.Transaction(opts.UoW, nil),
	)
	qryBus := middleware.ChainQueries(qryReg,
		middleware.QueryValidation(),
	)
	return &Application{Commands: cmdBus, Queries: qryBus}
}
