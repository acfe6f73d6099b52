package bookingrepo

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/booking"
	"github.com/atelierware/backoffice/test"
)

type MockRepo struct {
	GetBookingFunc          func(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Booking, error)
	GetBookingsFunc         func(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]booking.Booking, error)
	SaveBookingFunc         func(ctx context.Context, bk *booking.Booking, options ...core.UpdateOptions) error
	UpdateBookingStatusFunc func(ctx context.Context, id uint64, status booking.Status, options ...core.UpdateOptions) error

	GetSlotFunc            func(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Slot, error)
	GetSlotByWindowFunc    func(ctx context.Context, start, end time.Time, options ...core.QueryOptions) (booking.Slot, error)
	GetSlotsFunc           func(ctx context.Context, from, to time.Time, options ...core.QueryOptions) ([]booking.Slot, error)
	SaveSlotFunc           func(ctx context.Context, slot *booking.Slot, options ...core.UpdateOptions) error
	UpdateSlotBookingsFunc func(ctx context.Context, id uint64, currentBookings int32, options ...core.UpdateOptions) error
	UpdateSlotCapacityFunc func(ctx context.Context, id uint64, maxCapacity int32, options ...core.UpdateOptions) error
	UpsertSlotCapacityFunc func(ctx context.Context, start, end time.Time, capacity int32, options ...core.UpdateOptions) error

	BeginTransactionFunc func(ctx context.Context) (core.Transaction, error)

	*test.CallWatcher
}

func NewMockRepo() MockRepo {
	return MockRepo{
		GetBookingFunc: func(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Booking, error) {
			return booking.Booking{}, nil
		},
		GetBookingsFunc: func(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]booking.Booking, error) {
			return nil, nil
		},
		SaveBookingFunc: func(ctx context.Context, bk *booking.Booking, options ...core.UpdateOptions) error { return nil },
		UpdateBookingStatusFunc: func(ctx context.Context, id uint64, status booking.Status, options ...core.UpdateOptions) error {
			return nil
		},
		GetSlotFunc: func(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Slot, error) {
			return booking.Slot{}, nil
		},
		GetSlotByWindowFunc: func(ctx context.Context, start, end time.Time, options ...core.QueryOptions) (booking.Slot, error) {
			return booking.Slot{}, nil
		},
		GetSlotsFunc: func(ctx context.Context, from, to time.Time, options ...core.QueryOptions) ([]booking.Slot, error) {
			return nil, nil
		},
		SaveSlotFunc: func(ctx context.Context, slot *booking.Slot, options ...core.UpdateOptions) error { return nil },
		UpdateSlotBookingsFunc: func(ctx context.Context, id uint64, currentBookings int32, options ...core.UpdateOptions) error {
			return nil
		},
		UpdateSlotCapacityFunc: func(ctx context.Context, id uint64, maxCapacity int32, options ...core.UpdateOptions) error {
			return nil
		},
		UpsertSlotCapacityFunc: func(ctx context.Context, start, end time.Time, capacity int32, options ...core.UpdateOptions) error {
			return nil
		},
		BeginTransactionFunc: func(ctx context.Context) (core.Transaction, error) { return MockTransaction{}, nil },
		CallWatcher:          test.NewCallWatcher(),
	}
}

func (r MockRepo) GetBooking(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Booking, error) {
	r.AddCall(ctx, id, options)
	return r.GetBookingFunc(ctx, id, options...)
}

func (r MockRepo) GetBookings(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]booking.Booking, error) {
	r.AddCall(ctx, limit, offset, options)
	return r.GetBookingsFunc(ctx, limit, offset, options...)
}

func (r MockRepo) SaveBooking(ctx context.Context, bk *booking.Booking, options ...core.UpdateOptions) error {
	r.AddCall(ctx, bk, options)
	return r.SaveBookingFunc(ctx, bk, options...)
}

func (r MockRepo) UpdateBookingStatus(ctx context.Context, id uint64, status booking.Status, options ...core.UpdateOptions) error {
	r.AddCall(ctx, id, status, options)
	return r.UpdateBookingStatusFunc(ctx, id, status, options...)
}

func (r MockRepo) GetSlot(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Slot, error) {
	r.AddCall(ctx, id, options)
	return r.GetSlotFunc(ctx, id, options...)
}

func (r MockRepo) GetSlotByWindow(ctx context.Context, start, end time.Time, options ...core.QueryOptions) (booking.Slot, error) {
	r.AddCall(ctx, start, end, options)
	return r.GetSlotByWindowFunc(ctx, start, end, options...)
}

func (r MockRepo) GetSlots(ctx context.Context, from, to time.Time, options ...core.QueryOptions) ([]booking.Slot, error) {
	r.AddCall(ctx, from, to, options)
	return r.GetSlotsFunc(ctx, from, to, options...)
}

func (r MockRepo) SaveSlot(ctx context.Context, slot *booking.Slot, options ...core.UpdateOptions) error {
	r.AddCall(ctx, slot, options)
	return r.SaveSlotFunc(ctx, slot, options...)
}

func (r MockRepo) UpdateSlotBookings(ctx context.Context, id uint64, currentBookings int32, options ...core.UpdateOptions) error {
	r.AddCall(ctx, id, currentBookings, options)
	return r.UpdateSlotBookingsFunc(ctx, id, currentBookings, options...)
}

func (r MockRepo) UpdateSlotCapacity(ctx context.Context, id uint64, maxCapacity int32, options ...core.UpdateOptions) error {
	r.AddCall(ctx, id, maxCapacity, options)
	return r.UpdateSlotCapacityFunc(ctx, id, maxCapacity, options...)
}

func (r MockRepo) UpsertSlotCapacity(ctx context.Context, start, end time.Time, capacity int32, options ...core.UpdateOptions) error {
	r.AddCall(ctx, start, end, capacity, options)
	return r.UpsertSlotCapacityFunc(ctx, start, end, capacity, options...)
}

func (r MockRepo) BeginTransaction(ctx context.Context) (core.Transaction, error) {
	r.AddCall(ctx)
	return r.BeginTransactionFunc(ctx)
}

type MockTransaction struct {
}

func (m MockTransaction) Commit(_ context.Context) error {
	return nil
}

func (m MockTransaction) Rollback(_ context.Context) error {
	return nil
}

func (m MockTransaction) Query(_ context.Context, _ string, _ ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (m MockTransaction) QueryRow(_ context.Context, _ string, _ ...interface{}) pgx.Row {
	return nil
}

func (m MockTransaction) Exec(_ context.Context, _ string, _ ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (m MockTransaction) Begin(_ context.Context) (pgx.Tx, error) {
	return nil, nil
}
