package occupancy

import (
	"time"

	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/room"

	"github.com/shopspring/decimal"
)

type Opened struct {
	OccupancyID OccupancyID
	RoomID      room.RoomID
	Mode        pricing.BillingMode
	At          time.Time
}

func (e Opened) EventName() string     { return "occupancy.opened" }
func (e Opened) AggregateID() string   { return string(e.OccupancyID) }
func (e Opened) OccurredAt() time.Time { return e.At }

type ModeChanged struct {
	OccupancyID OccupancyID
	From        pricing.BillingMode
	To          pricing.BillingMode
	At          time.Time
}

func (e ModeChanged) EventName() string     { return "occupancy.mode_changed" }
func (e ModeChanged) AggregateID() string   { return string(e.OccupancyID) }
func (e ModeChanged) OccurredAt() time.Time { return e.At }

type RoomMoved struct {
	OccupancyID OccupancyID
	FromRoom    room.RoomID
	ToRoom      room.RoomID
	At          time.Time
}

func (e RoomMoved) EventName() string     { return "occupancy.room_moved" }
func (e RoomMoved) AggregateID() string   { return string(e.OccupancyID) }
func (e RoomMoved) OccurredAt() time.Time { return e.At }

type ClosedOut struct {
	OccupancyID OccupancyID
	RoomID      room.RoomID
	Total       decimal.Decimal
	At          time.Time
}

func (e ClosedOut) EventName() string     { return "occupancy.closed" }
func (e ClosedOut) AggregateID() string   { return string(e.OccupancyID) }
func (e ClosedOut) OccurredAt() time.Time { return e.At }
