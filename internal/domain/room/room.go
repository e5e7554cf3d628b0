package room

import (
	"context"
	"time"

	"hotelops/internal/domain/hotel"
	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
)

type RoomID string

var (
	ErrNotFound    = apperr.NotFound("room: not found")
	ErrOccupied    = apperr.Conflict("room: already occupied")
	ErrUnavailable = apperr.Conflict("room: not available")
)

// Room is the rentable unit. Mode is the occupancy flag (zero means free);
// Available is the maintenance switch hiding the room from the board.
type Room struct {
	ID          RoomID
	HotelID     hotel.HotelID
	Name        string
	Floor       int
	Description string
	Rates       pricing.RateCard
	Mode        int
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

type CreateParams struct {
	ID          RoomID
	HotelID     hotel.HotelID
	Name        string
	Floor       int
	Description string
	Rates       pricing.RateCard
	CreatedAt   time.Time
}

func New(params CreateParams) (*Room, error) {
	if params.HotelID == "" {
		return nil, apperr.Validation("room: hotel id required")
	}
	if params.Name == "" {
		return nil, apperr.Validation("room: name required")
	}
	if params.Rates.FirstHour.IsNegative() || params.Rates.NextHour.IsNegative() ||
		params.Rates.Day.IsNegative() || params.Rates.Night.IsNegative() {
		return nil, apperr.Validation("room: rates cannot be negative")
	}
	now := params.CreatedAt.UTC()
	return &Room{
		ID:          params.ID,
		HotelID:     params.HotelID,
		Name:        params.Name,
		Floor:       params.Floor,
		Description: params.Description,
		Rates:       params.Rates,
		Mode:        pricing.RoomFree,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *Room) Free() bool { return r.Mode == pricing.RoomFree }

// Occupy claims the room for a stay in the given billing mode.
func (r *Room) Occupy(mode pricing.BillingMode, now time.Time) error {
	if !r.Available {
		return ErrUnavailable
	}
	if !r.Free() {
		return ErrOccupied
	}
	r.Mode = mode.RoomFlag()
	r.UpdatedAt = now.UTC()
	return nil
}

// SetMode aligns the occupancy flag with the ledger's current mode.
func (r *Room) SetMode(mode pricing.BillingMode, now time.Time) {
	r.Mode = mode.RoomFlag()
	r.UpdatedAt = now.UTC()
}

// Release frees the room when a stay ends or moves elsewhere.
func (r *Room) Release(now time.Time) {
	r.Mode = pricing.RoomFree
	r.UpdatedAt = now.UTC()
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	ByHotel(ctx context.Context, hotelID hotel.HotelID) ([]*Room, error)
	Save(ctx context.Context, r *Room) error
}
