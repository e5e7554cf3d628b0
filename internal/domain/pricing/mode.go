package pricing

import (
	"hotelops/internal/domain/shared/apperr"

	"github.com/shopspring/decimal"
)

// BillingMode selects the tariff applied to an open window.
type BillingMode string

const (
	ModeHour  BillingMode = "HOUR"
	ModeDay   BillingMode = "DAY"
	ModeNight BillingMode = "NIGHT"
)

func (m BillingMode) Valid() bool {
	switch m {
	case ModeHour, ModeDay, ModeNight:
		return true
	}
	return false
}

func ParseMode(raw string) (BillingMode, error) {
	m := BillingMode(raw)
	if !m.Valid() {
		return "", apperr.Validationf("pricing: invalid billing mode %q", raw)
	}
	return m, nil
}

// Room occupancy flags as stored on the room document. Zero means free.
const (
	RoomFree         = 0
	RoomHirePerHour  = 1
	RoomHirePerNight = 2
	RoomHirePerDay   = 3
)

// RoomFlag maps a billing mode onto the room's occupancy flag.
func (m BillingMode) RoomFlag() int {
	switch m {
	case ModeHour:
		return RoomHirePerHour
	case ModeNight:
		return RoomHirePerNight
	case ModeDay:
		return RoomHirePerDay
	}
	return RoomFree
}

func ModeFromRoomFlag(flag int) (BillingMode, bool) {
	switch flag {
	case RoomHirePerHour:
		return ModeHour, true
	case RoomHirePerNight:
		return ModeNight, true
	case RoomHirePerDay:
		return ModeDay, true
	}
	return "", false
}

// RateCard is a room's tariff: first-hour and next-hour prices for hourly
// hire plus the flat day and night prices.
type RateCard struct {
	FirstHour decimal.Decimal
	NextHour  decimal.Decimal
	Day       decimal.Decimal
	Night     decimal.Decimal
}

// RateSnapshot is the slice of a rate card frozen onto a history entry.
// Only the prices relevant to the entry's mode are non-zero.
type RateSnapshot struct {
	FirstHour decimal.Decimal
	NextHour  decimal.Decimal
	Day       decimal.Decimal
	Night     decimal.Decimal
}

// SnapshotFor freezes the rates relevant to mode from the card.
func SnapshotFor(mode BillingMode, card RateCard) RateSnapshot {
	switch mode {
	case ModeHour:
		return RateSnapshot{FirstHour: card.FirstHour, NextHour: card.NextHour}
	case ModeDay:
		return RateSnapshot{Day: card.Day}
	case ModeNight:
		return RateSnapshot{Night: card.Night}
	}
	return RateSnapshot{}
}

// FlatAmount is the amount a freshly opened window starts with.
func FlatAmount(mode BillingMode, card RateCard) decimal.Decimal {
	switch mode {
	case ModeHour:
		return card.FirstHour
	case ModeDay:
		return card.Day
	case ModeNight:
		return card.Night
	}
	return decimal.Zero
}
