package occupancy_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/domain/occupancy"
	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.UTC)
}

func newStay() *occupancy.Occupancy {
	o := occupancy.New("occ-1", "room-1", pricing.ModeHour, at(10, 0))
	o.ClearEvents()
	return o
}

func TestNew_RecordsOpenedEvent(t *testing.T) {
	o := occupancy.New("occ-1", "room-1", pricing.ModeDay, at(10, 0))

	events := o.PendingEvents()
	require.Len(t, events, 1)
	opened, ok := events[0].(occupancy.Opened)
	require.True(t, ok)
	assert.Equal(t, occupancy.OccupancyID("occ-1"), opened.OccupancyID)
	assert.Equal(t, pricing.ModeDay, opened.Mode)
}

func TestAddSurcharge_Validation(t *testing.T) {
	o := newStay()

	err := o.AddSurcharge("", dec("10"), at(11, 0))
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	err = o.AddSurcharge("damage", dec("-1"), at(11, 0))
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	require.NoError(t, o.AddSurcharge("damage", dec("15"), at(11, 0)))
	require.Len(t, o.Surcharges, 1)
	assert.True(t, dec("15").Equal(o.Surcharges[0].Amount))
}

func TestAddExtra_MergesSamePriceLine(t *testing.T) {
	o := newStay()

	require.NoError(t, o.AddExtra("util-1", "water", dec("1.50"), 2, at(11, 0)))
	require.NoError(t, o.AddExtra("util-1", "water", dec("1.50"), 1, at(11, 30)))

	require.Len(t, o.Extras, 1)
	assert.Equal(t, int64(3), o.Extras[0].Quantity)
}

func TestAddExtra_NewLineAfterPriceChange(t *testing.T) {
	o := newStay()

	require.NoError(t, o.AddExtra("util-1", "water", dec("1.50"), 2, at(11, 0)))
	require.NoError(t, o.AddExtra("util-1", "water", dec("2.00"), 1, at(12, 0)))

	// The old line keeps its snapshot price.
	require.Len(t, o.Extras, 2)
	assert.True(t, dec("1.50").Equal(o.Extras[0].UnitPrice))
	assert.True(t, dec("2.00").Equal(o.Extras[1].UnitPrice))
	assert.True(t, dec("5").Equal(o.ExtrasTotal()))
}

func TestRemoveExtra_DropsLineAtZero(t *testing.T) {
	o := newStay()
	require.NoError(t, o.AddExtra("util-1", "water", dec("1.50"), 2, at(11, 0)))

	require.NoError(t, o.RemoveExtra("util-1", 1, at(12, 0)))
	require.Len(t, o.Extras, 1)
	assert.Equal(t, int64(1), o.Extras[0].Quantity)

	require.NoError(t, o.RemoveExtra("util-1", 5, at(12, 30)))
	assert.Empty(t, o.Extras)
}

func TestRemoveExtra_UnknownItem(t *testing.T) {
	o := newStay()

	err := o.RemoveExtra("util-9", 1, at(12, 0))

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSetNote_RejectsNegativeAmounts(t *testing.T) {
	o := newStay()

	err := o.SetNote(occupancy.Note{Discount: dec("-5")}, at(11, 0))

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Nil(t, o.Note)
}

func TestAdjustments_FoldsEverything(t *testing.T) {
	o := newStay()
	require.NoError(t, o.AddSurcharge("damage", dec("15"), at(11, 0)))
	require.NoError(t, o.AddExtra("util-1", "water", dec("1.50"), 2, at(11, 0)))
	require.NoError(t, o.SetNote(occupancy.Note{
		Content:    "regular guest",
		Discount:   dec("10"),
		Prepayment: dec("50"),
	}, at(11, 30)))

	adj := o.Adjustments()

	require.Len(t, adj.Surcharges, 1)
	require.Len(t, adj.Extras, 1)
	assert.True(t, dec("10").Equal(adj.Discount))
	assert.True(t, dec("50").Equal(adj.Prepayment))
	assert.True(t, adj.Negotiated.IsZero())
}

func TestClose_OnlyOnce(t *testing.T) {
	o := newStay()

	require.NoError(t, o.Close(at(14, 0)))
	require.True(t, o.Closed())

	err := o.Close(at(15, 0))
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestMoveTo_RecordsEvent(t *testing.T) {
	o := newStay()

	o.MoveTo("room-2", at(12, 0))

	assert.Equal(t, "room-2", string(o.RoomID))
	events := o.PendingEvents()
	require.Len(t, events, 1)
	moved, ok := events[0].(occupancy.RoomMoved)
	require.True(t, ok)
	assert.Equal(t, "room-1", string(moved.FromRoom))
	assert.Equal(t, "room-2", string(moved.ToRoom))
}
