package mocks

import (
	"context"

	"github.com/seatwise/seat-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatCatalog struct {
	mock.Mock
}

func (m *MockSeatCatalog) Layout(ctx context.Context, slot domain.Slot) (*domain.RoomLayout, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomLayout), args.Error(1)
}
