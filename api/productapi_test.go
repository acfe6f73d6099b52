package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-chi/chi"

	"github.com/atelierware/backoffice/api"
	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/testutil"
)

func setupProductTestServer() (*httptest.Server, *ledger.MockLedgerService) {
	mockSvc := ledger.NewMockLedgerService()
	productApi := api.NewProductApi(mockSvc)
	r := chi.NewRouter()
	productApi.ConfigureRouter(r)
	ts := httptest.NewServer(r)

	return ts, mockSvc
}

func getTestProducts() []ledger.Product {
	created := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	return []ledger.Product{
		{ID: 1, Name: "mat", Price: 25, UnitCost: 10, StockQuantity: 8, Created: created},
		{ID: 2, Name: "block", Price: 12, UnitCost: 4, StockQuantity: 30, Created: created},
		{ID: 3, Name: "strap", Price: 9.5, UnitCost: 2.5, StockQuantity: 0, Created: created},
	}
}

func TestProductList(t *testing.T) {
	ts, mockSvc := setupProductTestServer()
	defer ts.Close()

	tests := []struct {
		name string

		limit      int
		wantLimit  int
		offset     int
		wantOffset int
		products   []ledger.Product
		serviceErr error

		wantProducts   []ledger.Product
		wantStatusCode int
	}{
		{
			name:           "defaults are applied",
			limit:          -1,
			wantLimit:      50,
			offset:         -1,
			wantOffset:     0,
			products:       getTestProducts(),
			wantProducts:   getTestProducts(),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "limit and offset are passed through",
			limit:          5,
			wantLimit:      5,
			offset:         7,
			wantOffset:     7,
			products:       getTestProducts(),
			wantProducts:   getTestProducts(),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "service errors return internal server error",
			limit:          -1,
			wantLimit:      50,
			offset:         -1,
			wantOffset:     0,
			serviceErr:     errors.New("something bad happened"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gotLimit := -1
			gotOffset := -1
			mockSvc.GetAllProductsFunc = func(ctx context.Context, limit, offset int) ([]ledger.Product, error) {
				gotLimit = limit
				gotOffset = offset
				return test.products, test.serviceErr
			}

			url := ts.URL
			if test.limit > -1 {
				url += fmt.Sprintf("?limit=%d&offset=%d", test.limit, test.offset)
			}

			res, err := http.Get(url)
			if err != nil {
				t.Fatal(err)
			}

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantProducts != nil {
				got := []ledger.Product{}
				unmarshal(res, &got, t)

				if !reflect.DeepEqual(got, test.wantProducts) {
					t.Errorf("products\n got:%+v\nwant:%+v\n", got, test.wantProducts)
				}
			}

			if gotLimit != test.wantLimit {
				t.Errorf("limit got=%d want=%d", gotLimit, test.wantLimit)
			}

			if gotOffset != test.wantOffset {
				t.Errorf("offset got=%d want=%d", gotOffset, test.wantOffset)
			}
		})
	}
}

func TestProductCreate(t *testing.T) {
	ts, mockSvc := setupProductTestServer()
	defer ts.Close()

	tests := []struct {
		name string

		request    map[string]interface{}
		createFunc func(ctx context.Context, product *ledger.Product, actorID uint64) error

		wantStatusCode int
	}{
		{
			name:           "valid product is created",
			request:        map[string]interface{}{"name": "mat", "price": 25.0, "unitCost": 10.0, "stockQuantity": 5},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing name is rejected",
			request:        map[string]interface{}{"price": 25.0},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "negative price is rejected",
			request:        map[string]interface{}{"name": "mat", "price": -1.0},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "negative initial stock is rejected",
			request:        map[string]interface{}{"name": "mat", "stockQuantity": -5},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "service errors return internal server error",
			request: map[string]interface{}{"name": "mat", "price": 25.0},
			createFunc: func(ctx context.Context, product *ledger.Product, actorID uint64) error {
				return errors.New("something bad happened")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.createFunc != nil {
				mockSvc.CreateProductFunc = test.createFunc
			} else {
				mockSvc.CreateProductFunc = func(ctx context.Context, product *ledger.Product, actorID uint64) error {
					product.ID = 42
					return nil
				}
			}

			res := testutil.Put(ts.URL, test.request, t)

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantStatusCode == http.StatusCreated {
				got := ledger.Product{}
				unmarshal(res, &got, t)

				if got.ID != 42 {
					t.Errorf("product id got=%d want=%d", got.ID, 42)
				}
				if got.Name != test.request["name"] {
					t.Errorf("product name got=%s want=%s", got.Name, test.request["name"])
				}
			}
		})
	}
}

func TestProductGet(t *testing.T) {
	ts, mockSvc := setupProductTestServer()
	defer ts.Close()

	product := getTestProducts()[0]

	tests := []struct {
		name string
		url  string

		getFunc func(ctx context.Context, id uint64) (ledger.Product, error)

		wantProduct    *ledger.Product
		wantStatusCode int
	}{
		{
			name: "product is returned",
			url:  "/1",
			getFunc: func(ctx context.Context, id uint64) (ledger.Product, error) {
				return product, nil
			},
			wantProduct:    &product,
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unknown product returns not found",
			url:  "/99",
			getFunc: func(ctx context.Context, id uint64) (ledger.Product, error) {
				return ledger.Product{}, core.ErrNotFound
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "non-numeric id is rejected",
			url:            "/notanid",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service errors return internal server error",
			url:  "/1",
			getFunc: func(ctx context.Context, id uint64) (ledger.Product, error) {
				return ledger.Product{}, errors.New("something bad happened")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.getFunc != nil {
				mockSvc.GetProductFunc = test.getFunc
			}

			res, err := http.Get(ts.URL + test.url)
			if err != nil {
				t.Fatal(err)
			}

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantProduct != nil {
				got := ledger.Product{}
				unmarshal(res, &got, t)

				if !reflect.DeepEqual(got, *test.wantProduct) {
					t.Errorf("product\n got:%+v\nwant:%+v\n", got, *test.wantProduct)
				}
			}
		})
	}
}

func TestProductGetLog(t *testing.T) {
	ts, mockSvc := setupProductTestServer()
	defer ts.Close()

	mockSvc.GetProductFunc = func(ctx context.Context, id uint64) (ledger.Product, error) {
		return getTestProducts()[0], nil
	}

	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	entries := []ledger.LogEntry{
		{ID: 1, ProductID: 1, ChangeAmount: 5, ChangeType: ledger.ChangePurchase, CreatedBy: 9, Created: created},
		{ID: 2, ProductID: 1, ChangeAmount: -2, ChangeType: ledger.ChangeSale, ReferenceID: 77, CreatedBy: 9, Created: created},
	}

	gotProductID := uint64(0)
	mockSvc.GetLogEntriesFunc = func(ctx context.Context, productID uint64, limit, offset int) ([]ledger.LogEntry, error) {
		gotProductID = productID
		return entries, nil
	}

	res, err := http.Get(ts.URL + "/1/log")
	if err != nil {
		t.Fatal(err)
	}

	if res.StatusCode != http.StatusOK {
		t.Errorf("status code got=%d want=%d", res.StatusCode, http.StatusOK)
	}

	got := []ledger.LogEntry{}
	unmarshal(res, &got, t)

	if gotProductID != 1 {
		t.Errorf("product id got=%d want=%d", gotProductID, 1)
	}

	if !reflect.DeepEqual(got, entries) {
		t.Errorf("log entries\n got:%+v\nwant:%+v\n", got, entries)
	}
}

func TestProductRestock(t *testing.T) {
	ts, mockSvc := setupProductTestServer()
	defer ts.Close()

	mockSvc.GetProductFunc = func(ctx context.Context, id uint64) (ledger.Product, error) {
		return getTestProducts()[0], nil
	}

	tests := []struct {
		name string

		request     map[string]interface{}
		restockFunc func(ctx context.Context, rr ledger.RestockRequest) (float64, error)

		wantNewUnitCost float64
		wantStatusCode  int
	}{
		{
			name:    "stock is replenished",
			request: map[string]interface{}{"quantity": 5, "unitCost": 130.0},
			restockFunc: func(ctx context.Context, rr ledger.RestockRequest) (float64, error) {
				return 110.0, nil
			},
			wantNewUnitCost: 110.0,
			wantStatusCode:  http.StatusCreated,
		},
		{
			name:           "zero quantity is rejected",
			request:        map[string]interface{}{"quantity": 0},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "negative unit cost is rejected",
			request:        map[string]interface{}{"quantity": 5, "unitCost": -1.0},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "service errors return internal server error",
			request: map[string]interface{}{"quantity": 5},
			restockFunc: func(ctx context.Context, rr ledger.RestockRequest) (float64, error) {
				return 0, errors.New("something bad happened")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.restockFunc != nil {
				mockSvc.RestockFunc = test.restockFunc
			}

			res := testutil.Put(ts.URL+"/1/restock", test.request, t)

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantStatusCode == http.StatusCreated {
				got := api.RestockResponse{}
				unmarshal(res, &got, t)

				if got.NewUnitCost != test.wantNewUnitCost {
					t.Errorf("new unit cost got=%f want=%f", got.NewUnitCost, test.wantNewUnitCost)
				}
			}
		})
	}
}

func TestProductAdjust(t *testing.T) {
	ts, mockSvc := setupProductTestServer()
	defer ts.Close()

	mockSvc.GetProductFunc = func(ctx context.Context, id uint64) (ledger.Product, error) {
		return getTestProducts()[0], nil
	}

	tests := []struct {
		name string

		request    map[string]interface{}
		adjustFunc func(ctx context.Context, adj ledger.Adjustment, options ...core.UpdateOptions) error

		wantDelta      int64
		wantStatusCode int
	}{
		{
			name:           "positive adjustment is applied",
			request:        map[string]interface{}{"delta": 3, "note": "found during stocktake"},
			wantDelta:      3,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "negative adjustment is applied",
			request:        map[string]interface{}{"delta": -2},
			wantDelta:      -2,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "zero delta is rejected",
			request:        map[string]interface{}{"delta": 0},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown change type is rejected",
			request:        map[string]interface{}{"delta": 3, "changeType": "sabotage"},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "service errors return internal server error",
			request: map[string]interface{}{"delta": 3},
			adjustFunc: func(ctx context.Context, adj ledger.Adjustment, options ...core.UpdateOptions) error {
				return errors.New("something bad happened")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.adjustFunc != nil {
				mockSvc.AdjustFunc = test.adjustFunc
			} else {
				mockSvc.AdjustFunc = func(ctx context.Context, adj ledger.Adjustment, options ...core.UpdateOptions) error {
					return nil
				}
			}

			res := testutil.Put(ts.URL+"/1/adjustment", test.request, t)

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantStatusCode == http.StatusCreated {
				got := api.AdjustmentResponse{}
				unmarshal(res, &got, t)

				if got.Delta != test.wantDelta {
					t.Errorf("delta got=%d want=%d", got.Delta, test.wantDelta)
				}
			}
		})
	}
}
