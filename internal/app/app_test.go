package app_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/app"
	"hotelops/internal/app/commands"
	billinghandlers "hotelops/internal/app/handlers/billing"
	"hotelops/internal/app/handlers/expenses"
	"hotelops/internal/app/handlers/frontdesk"
	"hotelops/internal/app/handlers/hotels"
	"hotelops/internal/app/handlers/rooms"
	"hotelops/internal/app/handlers/utilities"
	appoutbox "hotelops/internal/app/outbox"
	"hotelops/internal/app/queries"
	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
	"hotelops/internal/infra/storage/memory"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestApp(t *testing.T) (*app.Application, *memory.Outbox, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)}
	box := memory.NewOutbox()
	var seq atomic.Int64
	application := app.New(app.Options{
		UoW:     memory.NewFactory(),
		Outbox:  box,
		Encoder: appoutbox.JSONEventEncoder{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:   clock.Now,
		NewID: func() string {
			return fmt.Sprintf("id-%04d", seq.Add(1))
		},
	})
	return application, box, clock
}

func standardRates() rooms.RateCardInput {
	return rooms.RateCardInput{
		FirstHour: decimal.RequireFromString("50"),
		NextHour:  decimal.RequireFromString("20"),
		Day:       decimal.RequireFromString("300"),
		Night:     decimal.RequireFromString("200"),
	}
}

func createHotelAndRoom(t *testing.T, a *app.Application) (hotelID, roomID string) {
	t.Helper()
	ctx := context.Background()
	hot, err := commands.Dispatch[hotels.CreateHotelCommand, *hotels.HotelView](ctx, a.Commands,
		hotels.CreateHotelCommand{Name: "Riverside"})
	require.NoError(t, err)
	rm, err := commands.Dispatch[rooms.CreateRoomCommand, *rooms.RoomView](ctx, a.Commands,
		rooms.CreateRoomCommand{HotelID: hot.ID, Name: "101", Floor: 1, Rates: standardRates()})
	require.NoError(t, err)
	return hot.ID, rm.ID
}

func eventNames(box *memory.Outbox) []string {
	var names []string
	for _, rec := range box.Records() {
		names = append(names, rec.Name)
	}
	return names
}

func TestHourlyStayLifecycle(t *testing.T) {
	a, box, clock := newTestApp(t)
	ctx := context.Background()
	hotelID, roomID := createHotelAndRoom(t, a)

	snap, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "HOUR"})
	require.NoError(t, err)
	assert.Equal(t, "HOUR", snap.Mode)
	assert.True(t, decimal.RequireFromString("50").Equal(snap.CalculatedAmount), "first hour charged on open, got %s", snap.CalculatedAmount)
	occupancyID := snap.OccupancyID

	// Two hours in, the read path refreshes the open window.
	clock.Advance(2 * time.Hour)
	snap, err = queries.Ask[frontdesk.PricingSnapshotQuery, *frontdesk.PricingSnapshot](ctx, a.Queries,
		frontdesk.PricingSnapshotQuery{OccupancyID: occupancyID})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("70").Equal(snap.CalculatedAmount), "got %s", snap.CalculatedAmount)

	snap, err = commands.Dispatch[frontdesk.AddSurchargeCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.AddSurchargeCommand{OccupancyID: occupancyID, Label: "broken glass", Amount: decimal.RequireFromString("15")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("85").Equal(snap.CalculatedAmount), "got %s", snap.CalculatedAmount)

	util, err := commands.Dispatch[utilities.CreateUtilityCommand, *utilities.UtilityView](ctx, a.Commands,
		utilities.CreateUtilityCommand{Name: "water", Price: decimal.RequireFromString("1.50")})
	require.NoError(t, err)
	snap, err = commands.Dispatch[frontdesk.AddExtraCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.AddExtraCommand{OccupancyID: occupancyID, UtilityID: util.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("88").Equal(snap.CalculatedAmount), "got %s", snap.CalculatedAmount)

	bill, err := commands.Dispatch[frontdesk.CloseOccupancyCommand, *frontdesk.BillView](ctx, a.Commands,
		frontdesk.CloseOccupancyCommand{OccupancyID: occupancyID})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("88").Equal(bill.Total), "got %s", bill.Total)
	assert.True(t, decimal.RequireFromString("3").Equal(bill.UtilitiesTotal))
	assert.True(t, decimal.RequireFromString("85").Equal(bill.RoomTotal))
	assert.Equal(t, "101", bill.RoomName)

	// The stay's working records are gone and the room is free again.
	_, err = queries.Ask[frontdesk.PricingSnapshotQuery, *frontdesk.PricingSnapshot](ctx, a.Queries,
		frontdesk.PricingSnapshotQuery{OccupancyID: occupancyID})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	board, err := queries.Ask[rooms.BoardByHotelQuery, []rooms.RoomView](ctx, a.Queries,
		rooms.BoardByHotelQuery{HotelID: hotelID})
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, pricing.RoomFree, board[0].Mode)

	names := eventNames(box)
	assert.Contains(t, names, "occupancy.opened")
	assert.Contains(t, names, "occupancy.closed")
	assert.Contains(t, names, "billing.bill_issued")
}

func TestBillingReportsFoldBillsAndExpenses(t *testing.T) {
	a, _, clock := newTestApp(t)
	ctx := context.Background()
	hotelID, roomID := createHotelAndRoom(t, a)

	snap, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "NIGHT"})
	require.NoError(t, err)
	clock.Advance(10 * time.Hour)
	_, err = commands.Dispatch[frontdesk.CloseOccupancyCommand, *frontdesk.BillView](ctx, a.Commands,
		frontdesk.CloseOccupancyCommand{OccupancyID: snap.OccupancyID})
	require.NoError(t, err)

	_, err = commands.Dispatch[expenses.RecordExpenseCommand, *expenses.ExpenseView](ctx, a.Commands,
		expenses.RecordExpenseCommand{HotelID: hotelID, Label: "laundry", Amount: decimal.RequireFromString("20")})
	require.NoError(t, err)

	bills, err := queries.Ask[billinghandlers.ListBillsQuery, []billinghandlers.BillView](ctx, a.Queries,
		billinghandlers.ListBillsQuery{HotelID: hotelID})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.True(t, decimal.RequireFromString("200").Equal(bills[0].Total))

	// Checkout happened on March 10 at 20:00; the running month reports
	// exactly ten days.
	daily, err := queries.Ask[billinghandlers.DailyTotalsQuery, []billinghandlers.DayTotal](ctx, a.Queries,
		billinghandlers.DailyTotalsQuery{HotelID: hotelID, Year: 2026, Month: 3})
	require.NoError(t, err)
	require.Len(t, daily, 10)
	assert.Equal(t, 1, daily[9].Bills)
	assert.True(t, decimal.RequireFromString("200").Equal(daily[9].Total))
	assert.Equal(t, 0, daily[0].Bills)

	month, err := queries.Ask[billinghandlers.MonthlyTotalQuery, *billinghandlers.MonthTotal](ctx, a.Queries,
		billinghandlers.MonthlyTotalQuery{HotelID: hotelID, Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, month.Bills)
	assert.True(t, decimal.RequireFromString("200").Equal(month.Total))
	assert.True(t, decimal.RequireFromString("20").Equal(month.Expenses))
	assert.True(t, decimal.RequireFromString("180").Equal(month.Net))
}

func TestChangeModeUpdatesBoard(t *testing.T) {
	a, box, _ := newTestApp(t)
	ctx := context.Background()
	hotelID, roomID := createHotelAndRoom(t, a)

	snap, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "DAY"})
	require.NoError(t, err)

	snap, err = commands.Dispatch[frontdesk.ChangeModeCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.ChangeModeCommand{OccupancyID: snap.OccupancyID, Mode: "NIGHT"})
	require.NoError(t, err)
	assert.Equal(t, "NIGHT", snap.Mode)
	assert.True(t, decimal.RequireFromString("200").Equal(snap.CalculatedAmount))

	board, err := queries.Ask[rooms.BoardByHotelQuery, []rooms.RoomView](ctx, a.Queries,
		rooms.BoardByHotelQuery{HotelID: hotelID})
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, pricing.RoomHirePerNight, board[0].Mode)
	assert.Equal(t, snap.OccupancyID, board[0].OccupancyID)
	assert.True(t, decimal.RequireFromString("200").Equal(board[0].Amount))

	assert.Contains(t, eventNames(box), "occupancy.mode_changed")
}

func TestMoveRoomReratesHistory(t *testing.T) {
	a, _, clock := newTestApp(t)
	ctx := context.Background()
	hotelID, roomID := createHotelAndRoom(t, a)

	premium, err := commands.Dispatch[rooms.CreateRoomCommand, *rooms.RoomView](ctx, a.Commands,
		rooms.CreateRoomCommand{
			HotelID: hotelID,
			Name:    "205",
			Floor:   2,
			Rates: rooms.RateCardInput{
				FirstHour: decimal.RequireFromString("80"),
				NextHour:  decimal.RequireFromString("40"),
				Day:       decimal.RequireFromString("500"),
				Night:     decimal.RequireFromString("350"),
			},
		})
	require.NoError(t, err)

	snap, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "HOUR"})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	snap, err = commands.Dispatch[frontdesk.MoveRoomCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.MoveRoomCommand{OccupancyID: snap.OccupancyID, ToRoomID: premium.ID})
	require.NoError(t, err)

	assert.Equal(t, premium.ID, snap.RoomID)
	// Two hours re-rated at the premium card: 80 + 1h in 0.2h blocks at 40.
	assert.True(t, decimal.RequireFromString("120").Equal(snap.CalculatedAmount), "got %s", snap.CalculatedAmount)
	require.Len(t, snap.History, 2)
	assert.Equal(t, string(pricing.ActionChangeRoom), snap.History[1].Action)
	assert.Equal(t, "moved from room 101 to room 205", snap.History[1].Description)

	board, err := queries.Ask[rooms.BoardByHotelQuery, []rooms.RoomView](ctx, a.Queries,
		rooms.BoardByHotelQuery{HotelID: hotelID})
	require.NoError(t, err)
	require.Len(t, board, 2)
	for _, rv := range board {
		switch rv.ID {
		case roomID:
			assert.Equal(t, pricing.RoomFree, rv.Mode)
		case premium.ID:
			assert.Equal(t, pricing.RoomHirePerHour, rv.Mode)
		}
	}
}

// flakyLedgerRepo fails saves on demand while leaving reads intact.
type flakyLedgerRepo struct {
	pricing.Repository
	fail *atomic.Bool
}

func (r flakyLedgerRepo) Save(ctx context.Context, l *pricing.Ledger) error {
	if r.fail.Load() {
		return memory.ErrConcurrentUpdate
	}
	return r.Repository.Save(ctx, l)
}

func TestPricingSnapshotServesStoredStateWhenRefreshFails(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)}
	var fail atomic.Bool
	factory := memory.NewFactory()
	factory.LedgersRepo = flakyLedgerRepo{Repository: factory.LedgersRepo, fail: &fail}
	var seq atomic.Int64
	a := app.New(app.Options{
		UoW:     factory,
		Outbox:  memory.NewOutbox(),
		Encoder: appoutbox.JSONEventEncoder{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:   clock.Now,
		NewID: func() string {
			return fmt.Sprintf("id-%04d", seq.Add(1))
		},
	})
	ctx := context.Background()
	_, roomID := createHotelAndRoom(t, a)

	snap, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "HOUR"})
	require.NoError(t, err)
	occupancyID := snap.OccupancyID

	// With the ledger store rejecting writes, the lazy refresh cannot be
	// persisted; the read must still answer with the last stored state.
	fail.Store(true)
	clock.Advance(2 * time.Hour)
	snap, err = queries.Ask[frontdesk.PricingSnapshotQuery, *frontdesk.PricingSnapshot](ctx, a.Queries,
		frontdesk.PricingSnapshotQuery{OccupancyID: occupancyID})
	require.NoError(t, err, "refresh failure must not break the read")
	assert.True(t, decimal.RequireFromString("50").Equal(snap.CalculatedAmount), "got %s", snap.CalculatedAmount)

	// Once the store recovers the next read catches up the accrual.
	fail.Store(false)
	snap, err = queries.Ask[frontdesk.PricingSnapshotQuery, *frontdesk.PricingSnapshot](ctx, a.Queries,
		frontdesk.PricingSnapshotQuery{OccupancyID: occupancyID})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("70").Equal(snap.CalculatedAmount), "got %s", snap.CalculatedAmount)
}

func TestCommandFailures(t *testing.T) {
	a, _, _ := newTestApp(t)
	ctx := context.Background()
	_, roomID := createHotelAndRoom(t, a)

	_, err := commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "WEEK"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	_, err = commands.Dispatch[frontdesk.AddSurchargeCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.AddSurchargeCommand{OccupancyID: "missing", Label: "fee", Amount: decimal.RequireFromString("5")})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "HOUR"})
	require.NoError(t, err)
	_, err = commands.Dispatch[frontdesk.OpenOccupancyCommand, *frontdesk.PricingSnapshot](ctx, a.Commands,
		frontdesk.OpenOccupancyCommand{RoomID: roomID, Mode: "DAY"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}
