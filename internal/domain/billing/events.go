package billing

import (
	"time"

	"hotelops/internal/domain/hotel"
	"hotelops/internal/domain/room"

	"github.com/shopspring/decimal"
)

type BillIssued struct {
	BillID  BillID
	RoomID  room.RoomID
	HotelID hotel.HotelID
	Total   decimal.Decimal
	At      time.Time
}

func (e BillIssued) EventName() string     { return "billing.bill_issued" }
func (e BillIssued) AggregateID() string   { return string(e.BillID) }
func (e BillIssued) OccurredAt() time.Time { return e.At }
