package ledger

import (
	"context"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/test"
)

type MockLedgerService struct {
	CreateProductFunc  func(ctx context.Context, product *Product, actorID uint64) error
	GetProductFunc     func(ctx context.Context, id uint64) (Product, error)
	GetAllProductsFunc func(ctx context.Context, limit, offset int) ([]Product, error)
	GetLogEntriesFunc  func(ctx context.Context, productID uint64, limit, offset int) ([]LogEntry, error)
	AdjustFunc         func(ctx context.Context, adj Adjustment, options ...core.UpdateOptions) error
	RestockFunc        func(ctx context.Context, rr RestockRequest) (float64, error)
	TrySpendFunc       func(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error
	TryRestoreFunc     func(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error
	TouchLastSoldFunc  func(ctx context.Context, productID uint64, options ...core.UpdateOptions) error
	*test.CallWatcher
}

func NewMockLedgerService() *MockLedgerService {
	return &MockLedgerService{
		CreateProductFunc: func(ctx context.Context, product *Product, actorID uint64) error { return nil },
		GetProductFunc:    func(ctx context.Context, id uint64) (Product, error) { return Product{}, nil },
		GetAllProductsFunc: func(ctx context.Context, limit, offset int) ([]Product, error) {
			return []Product{}, nil
		},
		GetLogEntriesFunc: func(ctx context.Context, productID uint64, limit, offset int) ([]LogEntry, error) {
			return []LogEntry{}, nil
		},
		AdjustFunc:  func(ctx context.Context, adj Adjustment, options ...core.UpdateOptions) error { return nil },
		RestockFunc: func(ctx context.Context, rr RestockRequest) (float64, error) { return 0, nil },
		TrySpendFunc: func(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error {
			return nil
		},
		TryRestoreFunc: func(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error {
			return nil
		},
		TouchLastSoldFunc: func(ctx context.Context, productID uint64, options ...core.UpdateOptions) error {
			return nil
		},
		CallWatcher: test.NewCallWatcher(),
	}
}

func (m *MockLedgerService) CreateProduct(ctx context.Context, product *Product, actorID uint64) error {
	m.AddCall(ctx, product, actorID)
	return m.CreateProductFunc(ctx, product, actorID)
}

func (m *MockLedgerService) GetProduct(ctx context.Context, id uint64) (Product, error) {
	m.AddCall(ctx, id)
	return m.GetProductFunc(ctx, id)
}

func (m *MockLedgerService) GetAllProducts(ctx context.Context, limit, offset int) ([]Product, error) {
	m.AddCall(ctx, limit, offset)
	return m.GetAllProductsFunc(ctx, limit, offset)
}

func (m *MockLedgerService) GetLogEntries(ctx context.Context, productID uint64, limit, offset int) ([]LogEntry, error) {
	m.AddCall(ctx, productID, limit, offset)
	return m.GetLogEntriesFunc(ctx, productID, limit, offset)
}

func (m *MockLedgerService) Adjust(ctx context.Context, adj Adjustment, options ...core.UpdateOptions) error {
	m.AddCall(ctx, adj, options)
	return m.AdjustFunc(ctx, adj, options...)
}

func (m *MockLedgerService) Restock(ctx context.Context, rr RestockRequest) (float64, error) {
	m.AddCall(ctx, rr)
	return m.RestockFunc(ctx, rr)
}

func (m *MockLedgerService) TrySpend(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error {
	m.AddCall(ctx, chg, options)
	return m.TrySpendFunc(ctx, chg, options...)
}

func (m *MockLedgerService) TryRestore(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error {
	m.AddCall(ctx, chg, options)
	return m.TryRestoreFunc(ctx, chg, options...)
}

func (m *MockLedgerService) TouchLastSold(ctx context.Context, productID uint64, options ...core.UpdateOptions) error {
	m.AddCall(ctx, productID, options)
	return m.TouchLastSoldFunc(ctx, productID, options...)
}
