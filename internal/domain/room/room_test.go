package room_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"
)

func newRoom(t *testing.T) *room.Room {
	t.Helper()
	r, err := room.New(room.CreateParams{
		ID:      "room-1",
		HotelID: "hotel-1",
		Name:    "101",
		Floor:   1,
		Rates: pricing.RateCard{
			FirstHour: decimal.RequireFromString("50"),
			NextHour:  decimal.RequireFromString("20"),
			Day:       decimal.RequireFromString("300"),
			Night:     decimal.RequireFromString("200"),
		},
		CreatedAt: time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return r
}

func TestNew_Validation(t *testing.T) {
	_, err := room.New(room.CreateParams{HotelID: "hotel-1"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	_, err = room.New(room.CreateParams{
		HotelID: "hotel-1",
		Name:    "101",
		Rates:   pricing.RateCard{Day: decimal.RequireFromString("-1")},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestOccupy_SetsModeFlag(t *testing.T) {
	r := newRoom(t)
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	require.True(t, r.Free())
	require.NoError(t, r.Occupy(pricing.ModeDay, now))

	assert.False(t, r.Free())
	assert.Equal(t, pricing.RoomHirePerDay, r.Mode)
}

func TestOccupy_RejectsDoubleBooking(t *testing.T) {
	r := newRoom(t)
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, r.Occupy(pricing.ModeHour, now))

	err := r.Occupy(pricing.ModeDay, now)

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestOccupy_RejectsUnavailableRoom(t *testing.T) {
	r := newRoom(t)
	r.Available = false

	err := r.Occupy(pricing.ModeHour, time.Now())

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestRelease_FreesRoom(t *testing.T) {
	r := newRoom(t)
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, r.Occupy(pricing.ModeNight, now))

	r.Release(now.Add(time.Hour))

	assert.True(t, r.Free())
}
