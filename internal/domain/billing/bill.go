package billing

import (
	"context"
	"time"

	"hotelops/internal/domain/hotel"
	"hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

type BillID string

var ErrNotFound = apperr.NotFound("billing: bill not found")

// Bill is the finalized record of a stay. Room and utilities totals are
// kept apart so the revenue reports can split them.
type Bill struct {
	ID             BillID
	RoomID         room.RoomID
	HotelID        hotel.HotelID
	RoomName       string
	RoomTotal      decimal.Decimal
	UtilitiesTotal decimal.Decimal
	Total          decimal.Decimal
	CheckIn        time.Time
	CheckOut       time.Time
	CreatedAt      time.Time
}

type IssueParams struct {
	ID             BillID
	RoomID         room.RoomID
	HotelID        hotel.HotelID
	RoomName       string
	RoomTotal      decimal.Decimal
	UtilitiesTotal decimal.Decimal
	Total          decimal.Decimal
	CheckIn        time.Time
	CheckOut       time.Time
}

func Issue(params IssueParams, now time.Time) (*Bill, error) {
	if params.Total.IsNegative() {
		return nil, apperr.Validation("billing: total cannot be negative")
	}
	if params.CheckOut.Before(params.CheckIn) {
		return nil, apperr.Validation("billing: checkout before checkin")
	}
	return &Bill{
		ID:             params.ID,
		RoomID:         params.RoomID,
		HotelID:        params.HotelID,
		RoomName:       params.RoomName,
		RoomTotal:      params.RoomTotal,
		UtilitiesTotal: params.UtilitiesTotal,
		Total:          params.Total,
		CheckIn:        params.CheckIn.UTC(),
		CheckOut:       params.CheckOut.UTC(),
		CreatedAt:      now.UTC(),
	}, nil
}

type ListFilter struct {
	HotelID hotel.HotelID
	RoomID  room.RoomID
	From    time.Time
	To      time.Time
}

type Repository interface {
	ByID(ctx context.Context, id BillID) (*Bill, error)
	List(ctx context.Context, filter ListFilter) ([]*Bill, error)
	Save(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id BillID) error
}
