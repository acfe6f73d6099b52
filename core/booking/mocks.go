package booking

import (
	"context"
	"time"
)

type MockBookingService struct {
	CreateFunc     func(ctx context.Context, req CreateBookingRequest) (Booking, error)
	GetFunc        func(ctx context.Context, id uint64) (Booking, error)
	GetAllFunc     func(ctx context.Context, limit, offset int) ([]Booking, error)
	TransitionFunc func(ctx context.Context, bookingID uint64, newStatus Status, actorID uint64) error

	ReserveFunc      func(ctx context.Context, start, end time.Time) (Slot, error)
	ReleaseFunc      func(ctx context.Context, slotID uint64) error
	UpsertWindowFunc func(ctx context.Context, req SlotWindowRequest) error
	SetCapacityFunc  func(ctx context.Context, slotID uint64, newCapacity int32) error
	GetSlotsFunc     func(ctx context.Context, from, to time.Time) ([]Slot, error)
}

func NewMockBookingService() MockBookingService {
	return MockBookingService{
		CreateFunc: func(ctx context.Context, req CreateBookingRequest) (Booking, error) { return Booking{}, nil },
		GetFunc:    func(ctx context.Context, id uint64) (Booking, error) { return Booking{}, nil },
		GetAllFunc: func(ctx context.Context, limit, offset int) ([]Booking, error) { return []Booking{}, nil },
		TransitionFunc: func(ctx context.Context, bookingID uint64, newStatus Status, actorID uint64) error {
			return nil
		},
		ReserveFunc:      func(ctx context.Context, start, end time.Time) (Slot, error) { return Slot{}, nil },
		ReleaseFunc:      func(ctx context.Context, slotID uint64) error { return nil },
		UpsertWindowFunc: func(ctx context.Context, req SlotWindowRequest) error { return nil },
		SetCapacityFunc:  func(ctx context.Context, slotID uint64, newCapacity int32) error { return nil },
		GetSlotsFunc:     func(ctx context.Context, from, to time.Time) ([]Slot, error) { return []Slot{}, nil },
	}
}

func (m *MockBookingService) Create(ctx context.Context, req CreateBookingRequest) (Booking, error) {
	return m.CreateFunc(ctx, req)
}

func (m *MockBookingService) Get(ctx context.Context, id uint64) (Booking, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockBookingService) GetAll(ctx context.Context, limit, offset int) ([]Booking, error) {
	return m.GetAllFunc(ctx, limit, offset)
}

func (m *MockBookingService) Transition(ctx context.Context, bookingID uint64, newStatus Status, actorID uint64) error {
	return m.TransitionFunc(ctx, bookingID, newStatus, actorID)
}

func (m *MockBookingService) Reserve(ctx context.Context, start, end time.Time) (Slot, error) {
	return m.ReserveFunc(ctx, start, end)
}

func (m *MockBookingService) Release(ctx context.Context, slotID uint64) error {
	return m.ReleaseFunc(ctx, slotID)
}

func (m *MockBookingService) UpsertWindow(ctx context.Context, req SlotWindowRequest) error {
	return m.UpsertWindowFunc(ctx, req)
}

func (m *MockBookingService) SetCapacity(ctx context.Context, slotID uint64, newCapacity int32) error {
	return m.SetCapacityFunc(ctx, slotID, newCapacity)
}

func (m *MockBookingService) GetSlots(ctx context.Context, from, to time.Time) ([]Slot, error) {
	return m.GetSlotsFunc(ctx, from, to)
}
