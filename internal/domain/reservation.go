package domain

import (
	"context"
	"time"
)

// SeatView is the read model served to the checkout UI: one entry per seat of
// the room, with the hold state folded in and a derived flag telling the
// caller which seats they themselves are holding.
type SeatView struct {
	SeatID           string
	Row              string
	Col              int
	Type             SeatType
	ExtraPrice       float64
	Status           SeatStatus
	ReservedByCaller bool
}

// ReservationStore is the persisted state of every seat instance. Every
// mutation is an atomic compare-and-set on the seat's status field: the
// transition succeeds only when the current state matches the operation's
// precondition, under arbitrary interleaving of callers.
//
// Implementations must treat a reserved seat whose hold has lapsed as
// implicitly available (lazy expiry), so correctness never depends on sweep
// cadence.
type ReservationStore interface {
	// GetSeats returns every seat instance of the slot. A slot that was
	// never generated yields ErrRecordNotFound, not an empty slice.
	GetSeats(ctx context.Context, slot Slot) ([]SeatInstance, error)

	// Reserve transitions every listed seat to reserved for holderID with
	// the given expiry. The batch is all-or-nothing: when any seat is not
	// claimable the store leaves no partial holds behind and returns a
	// ConflictError naming the blocking seats. Seats with no instance
	// record produce an UnknownSeatError.
	Reserve(ctx context.Context, slot Slot, seatIDs []string, holderID string, expiresAt time.Time) error

	// Confirm transitions every listed seat from reserved to occupied,
	// clearing the hold expiry. Every seat must currently be held by
	// holderID: a seat held by someone else yields an OwnershipError, a
	// seat not reserved at all (or with a lapsed hold) a NotReservedError.
	// No seat is modified unless all can be confirmed.
	Confirm(ctx context.Context, slot Slot, seatIDs []string, holderID string) error

	// Release returns reserved seats to available, clearing holder and
	// expiry. When holderID is non-empty only that holder's seats are
	// touched; an empty holderID releases unconditionally (administrative
	// path). Releasing an already-available seat is a no-op. Returns the
	// number of seats actually released.
	Release(ctx context.Context, slot Slot, seatIDs []string, holderID string) (int, error)

	// ReleaseAllForHolder releases every reserved seat held by holderID
	// across all slots.
	ReleaseAllForHolder(ctx context.Context, holderID string) (int, error)

	// ReleaseExpired returns every reserved seat whose hold lapsed before
	// now to available. Safe to run concurrently with itself and with
	// Reserve/Confirm.
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)

	// GenerateSlot creates the seat instance records for a slot from the
	// room layout, all available. Generating a slot twice yields
	// ErrDuplicateSlot.
	GenerateSlot(ctx context.Context, slot Slot, layout *RoomLayout) error
}
