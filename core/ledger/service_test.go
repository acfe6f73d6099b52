package ledger_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/db"
	"github.com/atelierware/backoffice/db/ledgerrepo"
	"github.com/atelierware/backoffice/queue"
	"github.com/atelierware/backoffice/test"
)

func TestMain(m *testing.M) {
	test.ConfigLogging()
	os.Exit(m.Run())
}

func i64p(v int64) *int64 {
	return &v
}

func f64p(v float64) *float64 {
	return &v
}

func verifyStockUpdate(t *testing.T, mockRepo ledgerrepo.MockRepo, wantQty *int64, wantCost *float64) {
	t.Helper()
	calls := mockRepo.GetCall("UpdateStock")
	if len(calls) == 0 {
		t.Fatal("expected a stock update, got none")
	}
	last := calls[len(calls)-1]
	if wantQty != nil {
		if got := last[2].(int64); got != *wantQty {
			t.Errorf("updated stock got=%d want=%d", got, *wantQty)
		}
	}
	if wantCost != nil {
		if got := last[3].(float64); got != *wantCost {
			t.Errorf("updated cost got=%v want=%v", got, *wantCost)
		}
	}
}

func lastLogEntry(t *testing.T, mockRepo ledgerrepo.MockRepo) *ledger.LogEntry {
	t.Helper()
	calls := mockRepo.GetCall("SaveLogEntry")
	if len(calls) == 0 {
		t.Fatal("expected a log entry, got none")
	}
	return calls[len(calls)-1][1].(*ledger.LogEntry)
}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name string

		product ledger.Product

		saveProductFunc  func(ctx context.Context, product *ledger.Product, options ...core.UpdateOptions) error
		saveLogEntryFunc func(ctx context.Context, entry *ledger.LogEntry, options ...core.UpdateOptions) error

		wantRepoCallCnt map[string]int
		wantTxCallCnt   map[string]int
		wantErr         bool
	}{
		{
			name:    "product and initial stock entry are saved",
			product: ledger.Product{Name: "ceramic mug", Price: 18, StockQuantity: 12},

			wantRepoCallCnt: map[string]int{"SaveProduct": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
		},
		{
			name:    "no log entry without initial stock",
			product: ledger.Product{Name: "gift card", Price: 50},

			wantRepoCallCnt: map[string]int{"SaveProduct": 1, "SaveLogEntry": 0},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
		},
		{
			name:    "save error rolls back",
			product: ledger.Product{Name: "ceramic mug", StockQuantity: 3},

			saveProductFunc: func(ctx context.Context, product *ledger.Product, options ...core.UpdateOptions) error {
				return errors.New("some unexpected error")
			},

			wantRepoCallCnt: map[string]int{"SaveProduct": 1, "SaveLogEntry": 0},
			wantTxCallCnt:   map[string]int{"Commit": 0, "Rollback": 1},
			wantErr:         true,
		},
		{
			name:    "log entry error rolls back the product",
			product: ledger.Product{Name: "ceramic mug", StockQuantity: 3},

			saveLogEntryFunc: func(ctx context.Context, entry *ledger.LogEntry, options ...core.UpdateOptions) error {
				return errors.New("some unexpected error")
			},

			wantRepoCallCnt: map[string]int{"SaveProduct": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 0, "Rollback": 1},
			wantErr:         true,
		},
	}

	for _, test := range tests {
		mockRepo := ledgerrepo.NewMockRepo()
		if test.saveProductFunc != nil {
			mockRepo.SaveProductFunc = test.saveProductFunc
		}
		if test.saveLogEntryFunc != nil {
			mockRepo.SaveLogEntryFunc = test.saveLogEntryFunc
		}

		mockTx := db.NewMockTransaction()
		mockRepo.BeginTransactionFunc = func(ctx context.Context) (core.Transaction, error) {
			return mockTx, nil
		}

		service := ledger.NewService(mockRepo, queue.NewMockQueue())

		t.Run(test.name, func(t *testing.T) {
			product := test.product
			err := service.CreateProduct(context.Background(), &product, 1)
			if test.wantErr && err == nil {
				t.Errorf("expected error, got none")
			} else if !test.wantErr && err != nil {
				t.Errorf("did not want error, got=%v", err)
			}

			for f, c := range test.wantRepoCallCnt {
				mockRepo.VerifyCount(f, c, t)
			}
			for f, c := range test.wantTxCallCnt {
				mockTx.VerifyCount(f, c, t)
			}

			if !test.wantErr && test.product.StockQuantity > 0 {
				entry := lastLogEntry(t, mockRepo)
				if entry.ChangeType != ledger.ChangePurchase {
					t.Errorf("change type got=%s want=%s", entry.ChangeType, ledger.ChangePurchase)
				}
				if entry.Note != "Initial stock" {
					t.Errorf("note got=%q want=%q", entry.Note, "Initial stock")
				}
				if entry.ChangeAmount != test.product.StockQuantity {
					t.Errorf("change amount got=%d want=%d", entry.ChangeAmount, test.product.StockQuantity)
				}
			}
		})
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string

		onHand     int64
		adjustment ledger.Adjustment

		getProductFunc func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error)

		wantRepoCallCnt map[string]int
		wantTxCallCnt   map[string]int
		wantStock       *int64
		wantChangeType  ledger.ChangeType
		wantErr         bool
	}{
		{
			name:       "positive delta is applied",
			onHand:     5,
			adjustment: ledger.Adjustment{ProductID: 1, Delta: 3, Note: "found in back room"},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantStock:       i64p(8),
			wantChangeType:  ledger.ChangeAdjustment,
		},
		{
			name:       "negative delta may drive stock negative",
			onHand:     2,
			adjustment: ledger.Adjustment{ProductID: 1, Delta: -5, Note: "stocktake correction"},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantStock:       i64p(-3),
			wantChangeType:  ledger.ChangeAdjustment,
		},
		{
			name:       "explicit change type is kept",
			onHand:     5,
			adjustment: ledger.Adjustment{ProductID: 1, Delta: 1, ChangeType: ledger.ChangeReturn},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantStock:       i64p(6),
			wantChangeType:  ledger.ChangeReturn,
		},
		{
			name:       "zero delta is rejected",
			onHand:     5,
			adjustment: ledger.Adjustment{ProductID: 1, Delta: 0},

			wantRepoCallCnt: map[string]int{"BeginTransaction": 0, "UpdateStock": 0, "SaveLogEntry": 0},
			wantTxCallCnt:   map[string]int{"Commit": 0, "Rollback": 0},
			wantErr:         true,
		},
		{
			name:       "missing product rolls back",
			adjustment: ledger.Adjustment{ProductID: 99, Delta: 3},

			getProductFunc: func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
				return ledger.Product{}, core.ErrNotFound
			},

			wantRepoCallCnt: map[string]int{"UpdateStock": 0, "SaveLogEntry": 0},
			wantTxCallCnt:   map[string]int{"Commit": 0, "Rollback": 1},
			wantErr:         true,
		},
	}

	for _, test := range tests {
		mockRepo := ledgerrepo.NewMockRepo()
		onHand := test.onHand
		if test.getProductFunc != nil {
			mockRepo.GetProductFunc = test.getProductFunc
		} else {
			mockRepo.GetProductFunc = func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
				return ledger.Product{ID: id, StockQuantity: onHand, UnitCost: 10}, nil
			}
		}

		mockTx := db.NewMockTransaction()
		mockRepo.BeginTransactionFunc = func(ctx context.Context) (core.Transaction, error) {
			return mockTx, nil
		}

		service := ledger.NewService(mockRepo, queue.NewMockQueue())

		t.Run(test.name, func(t *testing.T) {
			err := service.Adjust(context.Background(), test.adjustment)
			if test.wantErr && err == nil {
				t.Errorf("expected error, got none")
			} else if !test.wantErr && err != nil {
				t.Errorf("did not want error, got=%v", err)
			}

			for f, c := range test.wantRepoCallCnt {
				mockRepo.VerifyCount(f, c, t)
			}
			for f, c := range test.wantTxCallCnt {
				mockTx.VerifyCount(f, c, t)
			}
			if test.wantStock != nil {
				verifyStockUpdate(t, mockRepo, test.wantStock, nil)
				entry := lastLogEntry(t, mockRepo)
				if entry.ChangeAmount != test.adjustment.Delta {
					t.Errorf("change amount got=%d want=%d", entry.ChangeAmount, test.adjustment.Delta)
				}
				if entry.ChangeType != test.wantChangeType {
					t.Errorf("change type got=%s want=%s", entry.ChangeType, test.wantChangeType)
				}
			}
		})
	}
}

func TestRestock(t *testing.T) {
	tests := []struct {
		name string

		onHand  int64
		curCost float64
		request ledger.RestockRequest

		wantRepoCallCnt map[string]int
		wantTxCallCnt   map[string]int
		wantCost        float64
		wantStock       *int64
		wantNotePart    string
		wantErr         bool
	}{
		{
			name:    "cost is re-averaged",
			onHand:  10,
			curCost: 100,
			request: ledger.RestockRequest{ProductID: 1, Quantity: 5, UnitCost: f64p(130)},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantCost:        110.0,
			wantStock:       i64p(15),
			wantNotePart:    "unit cost 130.0, new average 110.0",
		},
		{
			name:    "negative on hand is costed from zero",
			onHand:  -3,
			curCost: 100,
			request: ledger.RestockRequest{ProductID: 1, Quantity: 5, UnitCost: f64p(200)},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantCost:        200.0,
			wantStock:       i64p(2),
		},
		{
			name:    "missing unit cost keeps the average",
			onHand:  4,
			curCost: 42.5,
			request: ledger.RestockRequest{ProductID: 1, Quantity: 6, Note: "resupply"},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantCost:        42.5,
			wantStock:       i64p(10),
		},
		{
			name:    "zero quantity is rejected",
			request: ledger.RestockRequest{ProductID: 1, Quantity: 0},

			wantRepoCallCnt: map[string]int{"BeginTransaction": 0, "UpdateStock": 0, "SaveLogEntry": 0},
			wantTxCallCnt:   map[string]int{"Commit": 0, "Rollback": 0},
			wantErr:         true,
		},
	}

	for _, test := range tests {
		mockRepo := ledgerrepo.NewMockRepo()
		onHand, curCost := test.onHand, test.curCost
		mockRepo.GetProductFunc = func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
			return ledger.Product{ID: id, StockQuantity: onHand, UnitCost: curCost}, nil
		}

		mockTx := db.NewMockTransaction()
		mockRepo.BeginTransactionFunc = func(ctx context.Context) (core.Transaction, error) {
			return mockTx, nil
		}

		service := ledger.NewService(mockRepo, queue.NewMockQueue())

		t.Run(test.name, func(t *testing.T) {
			newCost, err := service.Restock(context.Background(), test.request)
			if test.wantErr && err == nil {
				t.Errorf("expected error, got none")
			} else if !test.wantErr && err != nil {
				t.Errorf("did not want error, got=%v", err)
			}

			for f, c := range test.wantRepoCallCnt {
				mockRepo.VerifyCount(f, c, t)
			}
			for f, c := range test.wantTxCallCnt {
				mockTx.VerifyCount(f, c, t)
			}

			if test.wantErr {
				return
			}
			if newCost != test.wantCost {
				t.Errorf("new cost got=%v want=%v", newCost, test.wantCost)
			}
			verifyStockUpdate(t, mockRepo, test.wantStock, f64p(test.wantCost))
			entry := lastLogEntry(t, mockRepo)
			if entry.ChangeType != ledger.ChangePurchase {
				t.Errorf("change type got=%s want=%s", entry.ChangeType, ledger.ChangePurchase)
			}
			if test.wantNotePart != "" && !strings.Contains(entry.Note, test.wantNotePart) {
				t.Errorf("note got=%q want substring %q", entry.Note, test.wantNotePart)
			}
		})
	}
}

func TestTrySpend(t *testing.T) {
	tests := []struct {
		name string

		onHand int64
		change ledger.StockChange

		wantRepoCallCnt  map[string]int
		wantTxCallCnt    map[string]int
		wantQueueCallCnt map[string]int
		wantStock        *int64
		wantErr          bool
		wantShortage     bool
	}{
		{
			name:   "stock is debited",
			onHand: 10,
			change: ledger.StockChange{ProductID: 1, Quantity: 3, ChangeType: ledger.ChangeSale, ReferenceID: 7},

			wantRepoCallCnt:  map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:    map[string]int{"Commit": 1, "Rollback": 0},
			wantQueueCallCnt: map[string]int{"PublishStockLevel": 1},
			wantStock:        i64p(7),
		},
		{
			name:   "spending to exactly zero is allowed",
			onHand: 3,
			change: ledger.StockChange{ProductID: 1, Quantity: 3, ChangeType: ledger.ChangeSale},

			wantRepoCallCnt:  map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:    map[string]int{"Commit": 1, "Rollback": 0},
			wantQueueCallCnt: map[string]int{"PublishStockLevel": 1},
			wantStock:        i64p(0),
		},
		{
			name:   "shortage applies nothing",
			onHand: 2,
			change: ledger.StockChange{ProductID: 1, Quantity: 3, ChangeType: ledger.ChangeSale},

			wantRepoCallCnt:  map[string]int{"UpdateStock": 0, "SaveLogEntry": 0},
			wantTxCallCnt:    map[string]int{"Commit": 0, "Rollback": 1},
			wantQueueCallCnt: map[string]int{"PublishStockLevel": 0},
			wantErr:          true,
			wantShortage:     true,
		},
		{
			name:   "zero quantity is rejected",
			change: ledger.StockChange{ProductID: 1, Quantity: 0},

			wantRepoCallCnt:  map[string]int{"BeginTransaction": 0},
			wantTxCallCnt:    map[string]int{"Commit": 0, "Rollback": 0},
			wantQueueCallCnt: map[string]int{"PublishStockLevel": 0},
			wantErr:          true,
		},
	}

	for _, test := range tests {
		mockRepo := ledgerrepo.NewMockRepo()
		onHand := test.onHand
		mockRepo.GetProductFunc = func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
			return ledger.Product{ID: id, StockQuantity: onHand}, nil
		}

		mockTx := db.NewMockTransaction()
		mockRepo.BeginTransactionFunc = func(ctx context.Context) (core.Transaction, error) {
			return mockTx, nil
		}

		mockQueue := queue.NewMockQueue()
		service := ledger.NewService(mockRepo, mockQueue)

		t.Run(test.name, func(t *testing.T) {
			err := service.TrySpend(context.Background(), test.change)
			if test.wantErr && err == nil {
				t.Errorf("expected error, got none")
			} else if !test.wantErr && err != nil {
				t.Errorf("did not want error, got=%v", err)
			}
			if test.wantShortage {
				if _, ok := err.(*ledger.InsufficientStockError); !ok {
					t.Errorf("expected InsufficientStockError, got=%v", err)
				}
			}

			for f, c := range test.wantRepoCallCnt {
				mockRepo.VerifyCount(f, c, t)
			}
			for f, c := range test.wantTxCallCnt {
				mockTx.VerifyCount(f, c, t)
			}
			for f, c := range test.wantQueueCallCnt {
				mockQueue.VerifyCount(f, c, t)
			}
			if test.wantStock != nil {
				verifyStockUpdate(t, mockRepo, test.wantStock, nil)
				entry := lastLogEntry(t, mockRepo)
				if entry.ChangeAmount != -test.change.Quantity {
					t.Errorf("change amount got=%d want=%d", entry.ChangeAmount, -test.change.Quantity)
				}
			}
		})
	}
}

func TestTrySpendSharedTransaction(t *testing.T) {
	mockRepo := ledgerrepo.NewMockRepo()
	mockRepo.GetProductFunc = func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
		return ledger.Product{ID: id, StockQuantity: 10}, nil
	}

	mockQueue := queue.NewMockQueue()
	service := ledger.NewService(mockRepo, mockQueue)

	callerTx := db.NewMockTransaction()
	err := service.TrySpend(context.Background(),
		ledger.StockChange{ProductID: 1, Quantity: 2, ChangeType: ledger.ChangeSale},
		core.UpdateOptions{Tx: callerTx})
	if err != nil {
		t.Fatalf("did not want error, got=%v", err)
	}

	// The caller owns the transaction: no commit, no publish, no begin.
	mockRepo.VerifyCount("BeginTransaction", 0, t)
	callerTx.VerifyCount("Commit", 0, t)
	callerTx.VerifyCount("Rollback", 0, t)
	mockQueue.VerifyCount("PublishStockLevel", 0, t)
	mockRepo.VerifyCount("UpdateStock", 1, t)
	mockRepo.VerifyCount("SaveLogEntry", 1, t)
}

func TestTryRestore(t *testing.T) {
	tests := []struct {
		name string

		onHand int64
		change ledger.StockChange

		wantRepoCallCnt map[string]int
		wantTxCallCnt   map[string]int
		wantStock       *int64
		wantErr         bool
	}{
		{
			name:   "credit is applied",
			onHand: 0,
			change: ledger.StockChange{ProductID: 1, Quantity: 4, ChangeType: ledger.ChangeReturn, ReferenceID: 9},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantStock:       i64p(4),
		},
		{
			name:   "credit is unconditional",
			onHand: 100,
			change: ledger.StockChange{ProductID: 1, Quantity: 50, ChangeType: ledger.ChangeReturn},

			wantRepoCallCnt: map[string]int{"UpdateStock": 1, "SaveLogEntry": 1},
			wantTxCallCnt:   map[string]int{"Commit": 1, "Rollback": 0},
			wantStock:       i64p(150),
		},
		{
			name:   "zero quantity is rejected",
			change: ledger.StockChange{ProductID: 1, Quantity: 0},

			wantRepoCallCnt: map[string]int{"BeginTransaction": 0},
			wantTxCallCnt:   map[string]int{"Commit": 0, "Rollback": 0},
			wantErr:         true,
		},
	}

	for _, test := range tests {
		mockRepo := ledgerrepo.NewMockRepo()
		onHand := test.onHand
		mockRepo.GetProductFunc = func(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
			return ledger.Product{ID: id, StockQuantity: onHand}, nil
		}

		mockTx := db.NewMockTransaction()
		mockRepo.BeginTransactionFunc = func(ctx context.Context) (core.Transaction, error) {
			return mockTx, nil
		}

		service := ledger.NewService(mockRepo, queue.NewMockQueue())

		t.Run(test.name, func(t *testing.T) {
			err := service.TryRestore(context.Background(), test.change)
			if test.wantErr && err == nil {
				t.Errorf("expected error, got none")
			} else if !test.wantErr && err != nil {
				t.Errorf("did not want error, got=%v", err)
			}

			for f, c := range test.wantRepoCallCnt {
				mockRepo.VerifyCount(f, c, t)
			}
			for f, c := range test.wantTxCallCnt {
				mockTx.VerifyCount(f, c, t)
			}
			if test.wantStock != nil {
				verifyStockUpdate(t, mockRepo, test.wantStock, nil)
			}
		})
	}
}
