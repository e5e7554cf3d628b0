package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/app/uow"
	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"
	"hotelops/internal/infra/storage/memory"
)

func newRoom(t *testing.T) *room.Room {
	t.Helper()
	r, err := room.New(room.CreateParams{
		ID:      "room-1",
		HotelID: "hotel-1",
		Name:    "101",
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

func TestRoomRepository_SaveDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRoomRepository()
	require.NoError(t, repo.Save(ctx, newRoom(t)))

	first, err := repo.ByID(ctx, "room-1")
	require.NoError(t, err)
	second, err := repo.ByID(ctx, "room-1")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))

	err = repo.Save(ctx, second)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	// Stale writes carry the retryable sentinel; domain conflicts do not.
	assert.ErrorIs(t, err, uow.ErrConcurrentUpdate)
}

func TestRoomRepository_ReturnsIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRoomRepository()
	require.NoError(t, repo.Save(ctx, newRoom(t)))

	loaded, err := repo.ByID(ctx, "room-1")
	require.NoError(t, err)
	loaded.Name = "mutated"

	fresh, err := repo.ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "101", fresh.Name)
}

func TestRoomRepository_NotFound(t *testing.T) {
	repo := memory.NewRoomRepository()

	_, err := repo.ByID(context.Background(), "nope")

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestLedgerRepository_RoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	card := pricing.RateCard{
		FirstHour: decimal.RequireFromString("50"),
		NextHour:  decimal.RequireFromString("20"),
		Day:       decimal.RequireFromString("300"),
		Night:     decimal.RequireFromString("200"),
	}
	l := pricing.NewLedger("led-1", "occ-1", pricing.ModeDay, card, time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, l))

	loaded, err := repo.ByOccupancy(ctx, "occ-1")
	require.NoError(t, err)
	require.Len(t, loaded.History, 1)
	assert.True(t, decimal.RequireFromString("300").Equal(loaded.History[0].Amount))

	// History is cloned: closing the loaded copy must not leak back.
	loaded.History[0].CloseAt(time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC))
	again, err := repo.ByOccupancy(ctx, "occ-1")
	require.NoError(t, err)
	assert.Nil(t, again.History[0].To)

	require.NoError(t, repo.Delete(ctx, "occ-1"))
	_, err = repo.ByOccupancy(ctx, "occ-1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestFactory_BeginRejectsMissingRepos(t *testing.T) {
	_, err := memory.Factory{}.Begin(context.Background(), uow.TxOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, memory.ErrFactoryMisconfigured)
}
