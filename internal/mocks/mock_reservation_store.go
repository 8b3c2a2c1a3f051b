package mocks

import (
	"context"
	"time"

	"github.com/seatwise/seat-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationStore struct {
	mock.Mock
	domain.ReservationStore
}

func (m *MockReservationStore) GetSeats(ctx context.Context, slot domain.Slot) ([]domain.SeatInstance, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatInstance), args.Error(1)
}

func (m *MockReservationStore) Reserve(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string,
	expiresAt time.Time) error {

	args := m.Called(ctx, slot, seatIDs, holderID, expiresAt)
	return args.Error(0)
}

func (m *MockReservationStore) Confirm(ctx context.Context, slot domain.Slot, seatIDs []string, holderID string) error {
	args := m.Called(ctx, slot, seatIDs, holderID)
	return args.Error(0)
}

func (m *MockReservationStore) Release(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string) (int, error) {

	args := m.Called(ctx, slot, seatIDs, holderID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationStore) ReleaseAllForHolder(ctx context.Context, holderID string) (int, error) {
	args := m.Called(ctx, holderID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationStore) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
