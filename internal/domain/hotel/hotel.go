package hotel

import (
	"context"
	"time"

	"hotelops/internal/domain/shared/apperr"
)

type HotelID string

type Hotel struct {
	ID        HotelID
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

var ErrNotFound = apperr.NotFound("hotel: not found")

func New(id HotelID, name, address string, now time.Time) (*Hotel, error) {
	if name == "" {
		return nil, apperr.Validation("hotel: name required")
	}
	now = now.UTC()
	return &Hotel{ID: id, Name: name, Address: address, CreatedAt: now, UpdatedAt: now}, nil
}

type Repository interface {
	ByID(ctx context.Context, id HotelID) (*Hotel, error)
	Save(ctx context.Context, h *Hotel) error
	List(ctx context.Context) ([]*Hotel, error)
}
