package queue

import (
	"context"

	"github.com/atelierware/backoffice/core/booking"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/core/order"
	"github.com/atelierware/backoffice/test"
)

type MockQueue struct {
	PublishStockLevelFunc    func(ctx context.Context, product ledger.Product) error
	PublishOrderStatusFunc   func(ctx context.Context, ord order.Order) error
	PublishBookingStatusFunc func(ctx context.Context, bk booking.Booking) error
	*test.CallWatcher
}

func NewMockQueue() *MockQueue {
	return &MockQueue{
		PublishStockLevelFunc:    func(ctx context.Context, product ledger.Product) error { return nil },
		PublishOrderStatusFunc:   func(ctx context.Context, ord order.Order) error { return nil },
		PublishBookingStatusFunc: func(ctx context.Context, bk booking.Booking) error { return nil },
		CallWatcher:              test.NewCallWatcher(),
	}
}

func (m *MockQueue) PublishStockLevel(ctx context.Context, product ledger.Product) error {
	m.AddCall(ctx, product)
	return m.PublishStockLevelFunc(ctx, product)
}

func (m *MockQueue) PublishOrderStatus(ctx context.Context, ord order.Order) error {
	m.AddCall(ctx, ord)
	return m.PublishOrderStatusFunc(ctx, ord)
}

func (m *MockQueue) PublishBookingStatus(ctx context.Context, bk booking.Booking) error {
	m.AddCall(ctx, bk)
	return m.PublishBookingStatusFunc(ctx, bk)
}
