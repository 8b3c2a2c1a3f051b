package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type SeatType string

const (
	SeatTypeNormal SeatType = "normal"
	SeatTypeVIP    SeatType = "vip"
	SeatTypeCouple SeatType = "couple"
	SeatTypeFourDX SeatType = "4dx"
)

type SeatStatus string

const (
	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusReserved    SeatStatus = "reserved"
	SeatStatusOccupied    SeatStatus = "occupied"
	SeatStatusMaintenance SeatStatus = "maintenance"
)

// SeatInstance is the reservable unit, one record per (slot, seat id).
//
// Invariants: a reserved seat carries both HolderID and HoldExpiresAt; an
// occupied seat carries HolderID and no expiry; available and maintenance
// seats carry neither.
type SeatInstance struct {
	Slot          Slot
	SeatID        string
	Type          SeatType
	Status        SeatStatus
	HolderID      string
	HoldExpiresAt *time.Time
}

// Expired reports whether the instance carries a hold that has lapsed. Only
// reserved seats expire; a confirmed booking never does.
func (s SeatInstance) Expired(now time.Time) bool {
	return s.Status == SeatStatusReserved && s.HoldExpiresAt != nil && !s.HoldExpiresAt.After(now)
}

// EffectiveStatus folds lazy expiry into the stored status: a reserved seat
// whose hold has lapsed reads as available even before any sweep touches it.
func (s SeatInstance) EffectiveStatus(now time.Time) SeatStatus {
	if s.Expired(now) {
		return SeatStatusAvailable
	}

	return s.Status
}

// HeldBy reports whether the seat is reserved by the given holder with a
// still-live hold.
func (s SeatInstance) HeldBy(holderID string, now time.Time) bool {
	return s.Status == SeatStatusReserved && s.HolderID == holderID && !s.Expired(now)
}

// ParseSeatID splits a seat id of the form <RowLetter><ColumnNumber>, e.g.
// "C7", into its row letter and column number.
func ParseSeatID(seatID string) (string, int, error) {
	if len(seatID) < 2 {
		return "", 0, fmt.Errorf("seat id %q is malformed", seatID)
	}

	row := seatID[:1]
	if row[0] < 'A' || row[0] > 'Z' {
		return "", 0, fmt.Errorf("seat id %q has an invalid row letter", seatID)
	}

	col, err := strconv.Atoi(seatID[1:])
	if err != nil || col < 1 {
		return "", 0, fmt.Errorf("seat id %q has an invalid column number", seatID)
	}

	return row, col, nil
}

// CouplePartner returns the fixed pair partner of a couple seat. An odd
// column pairs with column+1, an even column with column-1, same row. The
// pairing is a pure function of the seat id so that adjacency never needs a
// second source of truth.
func CouplePartner(seatID string) (string, error) {
	row, col, err := ParseSeatID(seatID)
	if err != nil {
		return "", err
	}

	if col%2 == 1 {
		return fmt.Sprintf("%s%d", row, col+1), nil
	}

	return fmt.Sprintf("%s%d", row, col-1), nil
}

// LayoutSeat describes one seat of a room layout as the catalog publishes it.
type LayoutSeat struct {
	SeatID     string
	Row        string
	Col        int
	Type       SeatType
	ExtraPrice float64
}

// RoomLayout is the authoritative seat arrangement of a room, read-only from
// this subsystem's perspective.
type RoomLayout struct {
	RoomID string
	Rows   int
	Cols   int
	Seats  []LayoutSeat
}

// SeatTypes returns the seat type of every seat in the layout, keyed by seat id.
func (l *RoomLayout) SeatTypes() map[string]SeatType {
	types := make(map[string]SeatType, len(l.Seats))

	for _, seat := range l.Seats {
		types[seat.SeatID] = seat.Type
	}

	return types
}

type SeatCatalog interface {
	Layout(ctx context.Context, slot Slot) (*RoomLayout, error)
}
