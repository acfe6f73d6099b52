package ledgerrepo

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/test"
)

type MockRepo struct {
	GetProductFunc     func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error)
	GetAllProductsFunc func(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]ledger.Product, error)
	SaveProductFunc    func(ctx context.Context, product *ledger.Product, options ...core.UpdateOptions) error
	UpdateStockFunc    func(ctx context.Context, id uint64, quantity int64, unitCost float64, options ...core.UpdateOptions) error
	TouchLastSoldFunc  func(ctx context.Context, id uint64, at time.Time, options ...core.UpdateOptions) error

	GetLogEntriesFunc func(ctx context.Context, productID uint64, limit, offset int, options ...core.QueryOptions) ([]ledger.LogEntry, error)
	SaveLogEntryFunc  func(ctx context.Context, entry *ledger.LogEntry, options ...core.UpdateOptions) error

	BeginTransactionFunc func(ctx context.Context) (core.Transaction, error)

	*test.CallWatcher
}

func NewMockRepo() MockRepo {
	return MockRepo{
		GetProductFunc: func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
			return ledger.Product{}, nil
		},
		GetAllProductsFunc: func(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]ledger.Product, error) {
			return nil, nil
		},
		SaveProductFunc: func(ctx context.Context, product *ledger.Product, options ...core.UpdateOptions) error { return nil },
		UpdateStockFunc: func(ctx context.Context, id uint64, quantity int64, unitCost float64, options ...core.UpdateOptions) error {
			return nil
		},
		TouchLastSoldFunc: func(ctx context.Context, id uint64, at time.Time, options ...core.UpdateOptions) error {
			return nil
		},
		GetLogEntriesFunc: func(ctx context.Context, productID uint64, limit, offset int, options ...core.QueryOptions) ([]ledger.LogEntry, error) {
			return nil, nil
		},
		SaveLogEntryFunc:     func(ctx context.Context, entry *ledger.LogEntry, options ...core.UpdateOptions) error { return nil },
		BeginTransactionFunc: func(ctx context.Context) (core.Transaction, error) { return MockTransaction{}, nil },
		CallWatcher:          test.NewCallWatcher(),
	}
}

func (r MockRepo) GetProduct(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
	r.AddCall(ctx, id, options)
	return r.GetProductFunc(ctx, id, options...)
}

func (r MockRepo) GetAllProducts(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]ledger.Product, error) {
	r.AddCall(ctx, limit, offset, options)
	return r.GetAllProductsFunc(ctx, limit, offset, options...)
}

func (r MockRepo) SaveProduct(ctx context.Context, product *ledger.Product, options ...core.UpdateOptions) error {
	r.AddCall(ctx, product, options)
	return r.SaveProductFunc(ctx, product, options...)
}

func (r MockRepo) UpdateStock(ctx context.Context, id uint64, quantity int64, unitCost float64, options ...core.UpdateOptions) error {
	r.AddCall(ctx, id, quantity, unitCost, options)
	return r.UpdateStockFunc(ctx, id, quantity, unitCost, options...)
}

func (r MockRepo) TouchLastSold(ctx context.Context, id uint64, at time.Time, options ...core.UpdateOptions) error {
	r.AddCall(ctx, id, at, options)
	return r.TouchLastSoldFunc(ctx, id, at, options...)
}

func (r MockRepo) GetLogEntries(ctx context.Context, productID uint64, limit, offset int, options ...core.QueryOptions) ([]ledger.LogEntry, error) {
	r.AddCall(ctx, productID, limit, offset, options)
	return r.GetLogEntriesFunc(ctx, productID, limit, offset, options...)
}

func (r MockRepo) SaveLogEntry(ctx context.Context, entry *ledger.LogEntry, options ...core.UpdateOptions) error {
	r.AddCall(ctx, entry, options)
	return r.SaveLogEntryFunc(ctx, entry, options...)
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
