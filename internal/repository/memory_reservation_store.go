package repository

import (
	"context"
	"sync"
	"time"

	"github.com/seatwise/seat-reservation/internal/domain"
)

// MemoryReservationStore keeps seat instances in process memory. Each slot's
// seats are guarded by that slot's own mutex, so every batch operation on a
// slot is atomic with respect to every other caller, while operations on
// different slots run in parallel. It implements the same compare-and-set
// contract as the Postgres store and backs the unit tests.
type MemoryReservationStore struct {
	mu    sync.RWMutex // guards the slots map itself
	slots map[string]*memorySlot
}

type memorySlot struct {
	mu    sync.Mutex
	slot  domain.Slot
	seats map[string]*domain.SeatInstance
}

func NewMemoryReservationStore() *MemoryReservationStore {
	return &MemoryReservationStore{
		slots: make(map[string]*memorySlot),
	}
}

func (m *MemoryReservationStore) GenerateSlot(ctx context.Context, slot domain.Slot, layout *domain.RoomLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[slot.Key()]; ok {
		return domain.ErrDuplicateSlot
	}

	seats := make(map[string]*domain.SeatInstance, len(layout.Seats))
	for _, seat := range layout.Seats {
		seats[seat.SeatID] = &domain.SeatInstance{
			Slot:   slot,
			SeatID: seat.SeatID,
			Type:   seat.Type,
			Status: domain.SeatStatusAvailable,
		}
	}

	m.slots[slot.Key()] = &memorySlot{slot: slot, seats: seats}

	return nil
}

// SetStatus force-writes one seat's state, bypassing the transition rules.
// Test fixture and administrative hook, not part of the store contract.
func (m *MemoryReservationStore) SetStatus(
	slot domain.Slot,
	seatID string,
	status domain.SeatStatus,
	holderID string,
	expiresAt *time.Time) {

	ms := m.slot(slot)
	if ms == nil {
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if seat, ok := ms.seats[seatID]; ok {
		seat.Status = status
		seat.HolderID = holderID
		seat.HoldExpiresAt = expiresAt
	}
}

func (m *MemoryReservationStore) GetSeats(ctx context.Context, slot domain.Slot) ([]domain.SeatInstance, error) {
	ms := m.slot(slot)
	if ms == nil {
		return nil, domain.ErrRecordNotFound
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	seats := make([]domain.SeatInstance, 0, len(ms.seats))
	for _, seat := range ms.seats {
		seats = append(seats, *seat)
	}

	return seats, nil
}

func (m *MemoryReservationStore) Reserve(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string,
	expiresAt time.Time) error {

	ms := m.slot(slot)
	if ms == nil {
		return &domain.UnknownSeatError{SeatIDs: seatIDs}
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()

	// Check the whole batch under the slot lock before touching anything,
	// so a failed batch leaves no partial holds behind.
	var unknown, conflicts []string

	for _, seatID := range seatIDs {
		seat, ok := ms.seats[seatID]
		if !ok {
			unknown = append(unknown, seatID)
			continue
		}

		if seat.EffectiveStatus(now) != domain.SeatStatusAvailable {
			conflicts = append(conflicts, seatID)
		}
	}

	if len(unknown) > 0 {
		return &domain.UnknownSeatError{SeatIDs: unknown}
	}

	if len(conflicts) > 0 {
		return &domain.ConflictError{SeatIDs: conflicts}
	}

	expiry := expiresAt

	for _, seatID := range seatIDs {
		seat := ms.seats[seatID]
		seat.Status = domain.SeatStatusReserved
		seat.HolderID = holderID
		seat.HoldExpiresAt = &expiry
	}

	return nil
}

func (m *MemoryReservationStore) Confirm(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string) error {

	ms := m.slot(slot)
	if ms == nil {
		return &domain.NotReservedError{SeatIDs: seatIDs}
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()

	var notReserved, owned []string

	for _, seatID := range seatIDs {
		seat, ok := ms.seats[seatID]

		switch {
		case !ok || seat.EffectiveStatus(now) != domain.SeatStatusReserved:
			notReserved = append(notReserved, seatID)
		case seat.HolderID != holderID:
			owned = append(owned, seatID)
		}
	}

	// Ownership violations outrank stale holds: confirming someone else's
	// seat is a caller integrity fault and must surface as such.
	if len(owned) > 0 {
		return &domain.OwnershipError{SeatIDs: owned}
	}

	if len(notReserved) > 0 {
		return &domain.NotReservedError{SeatIDs: notReserved}
	}

	for _, seatID := range seatIDs {
		seat := ms.seats[seatID]
		seat.Status = domain.SeatStatusOccupied
		seat.HoldExpiresAt = nil
	}

	return nil
}

func (m *MemoryReservationStore) Release(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string) (int, error) {

	ms := m.slot(slot)
	if ms == nil {
		return 0, nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	released := 0

	for _, seatID := range seatIDs {
		seat, ok := ms.seats[seatID]
		if !ok || seat.Status != domain.SeatStatusReserved {
			continue
		}

		if holderID != "" && seat.HolderID != holderID {
			continue
		}

		seat.Status = domain.SeatStatusAvailable
		seat.HolderID = ""
		seat.HoldExpiresAt = nil
		released++
	}

	return released, nil
}

func (m *MemoryReservationStore) ReleaseAllForHolder(ctx context.Context, holderID string) (int, error) {
	released := 0

	for _, ms := range m.allSlots() {
		ms.mu.Lock()

		for _, seat := range ms.seats {
			if seat.Status == domain.SeatStatusReserved && seat.HolderID == holderID {
				seat.Status = domain.SeatStatusAvailable
				seat.HolderID = ""
				seat.HoldExpiresAt = nil
				released++
			}
		}

		ms.mu.Unlock()
	}

	return released, nil
}

func (m *MemoryReservationStore) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	released := 0

	for _, ms := range m.allSlots() {
		ms.mu.Lock()

		for _, seat := range ms.seats {
			if seat.Expired(now) {
				seat.Status = domain.SeatStatusAvailable
				seat.HolderID = ""
				seat.HoldExpiresAt = nil
				released++
			}
		}

		ms.mu.Unlock()
	}

	return released, nil
}

func (m *MemoryReservationStore) slot(slot domain.Slot) *memorySlot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.slots[slot.Key()]
}

func (m *MemoryReservationStore) allSlots() []*memorySlot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slots := make([]*memorySlot, 0, len(m.slots))
	for _, ms := range m.slots {
		slots = append(slots, ms)
	}

	return slots
}
