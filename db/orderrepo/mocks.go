package orderrepo

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/order"
	"github.com/atelierware/backoffice/test"
)

type MockRepo struct {
	GetOrderFunc          func(ctx context.Context, id uint64, options ...core.QueryOptions) (order.Order, error)
	GetOrdersFunc         func(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]order.Order, error)
	GetOrderItemsFunc     func(ctx context.Context, orderID uint64, options ...core.QueryOptions) ([]order.Item, error)
	SaveOrderFunc         func(ctx context.Context, ord *order.Order, options ...core.UpdateOptions) error
	SaveOrderItemFunc     func(ctx context.Context, item *order.Item, options ...core.UpdateOptions) error
	UpdateOrderStatusFunc func(ctx context.Context, id uint64, status order.Status, options ...core.UpdateOptions) error

	BeginTransactionFunc func(ctx context.Context) (core.Transaction, error)

	*test.CallWatcher
}

func NewMockRepo() MockRepo {
	return MockRepo{
		GetOrderFunc: func(ctx context.Context, id uint64, options ...core.QueryOptions) (order.Order, error) {
			return order.Order{}, nil
		},
		GetOrdersFunc: func(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]order.Order, error) {
			return nil, nil
		},
		GetOrderItemsFunc: func(ctx context.Context, orderID uint64, options ...core.QueryOptions) ([]order.Item, error) {
			return nil, nil
		},
		SaveOrderFunc:     func(ctx context.Context, ord *order.Order, options ...core.UpdateOptions) error { return nil },
		SaveOrderItemFunc: func(ctx context.Context, item *order.Item, options ...core.UpdateOptions) error { return nil },
		UpdateOrderStatusFunc: func(ctx context.Context, id uint64, status order.Status, options ...core.UpdateOptions) error {
			return nil
		},
		BeginTransactionFunc: func(ctx context.Context) (core.Transaction, error) { return MockTransaction{}, nil },
		CallWatcher:          test.NewCallWatcher(),
	}
}

func (r MockRepo) GetOrder(ctx context.Context, id uint64, options ...core.QueryOptions) (order.Order, error) {
	r.AddCall(ctx, id, options)
	return r.GetOrderFunc(ctx, id, options...)
}

func (r MockRepo) GetOrders(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]order.Order, error) {
	r.AddCall(ctx, limit, offset, options)
	return r.GetOrdersFunc(ctx, limit, offset, options...)
}

func (r MockRepo) GetOrderItems(ctx context.Context, orderID uint64, options ...core.QueryOptions) ([]order.Item, error) {
	r.AddCall(ctx, orderID, options)
	return r.GetOrderItemsFunc(ctx, orderID, options...)
}

func (r MockRepo) SaveOrder(ctx context.Context, ord *order.Order, options ...core.UpdateOptions) error {
	r.AddCall(ctx, ord, options)
	return r.SaveOrderFunc(ctx, ord, options...)
}

func (r MockRepo) SaveOrderItem(ctx context.Context, item *order.Item, options ...core.UpdateOptions) error {
	r.AddCall(ctx, item, options)
	return r.SaveOrderItemFunc(ctx, item, options...)
}

func (r MockRepo) UpdateOrderStatus(ctx context.Context, id uint64, status order.Status, options ...core.UpdateOptions) error {
	r.AddCall(ctx, id, status, options)
	return r.UpdateOrderStatusFunc(ctx, id, status, options...)
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
