package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-chi/chi"

	"github.com/atelierware/backoffice/api"
	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/booking"
	"github.com/atelierware/backoffice/testutil"
)

func setupBookingTestServer() (*httptest.Server, *booking.MockBookingService) {
	mockSvc := booking.NewMockBookingService()
	bookingApi := api.NewBookingApi(&mockSvc)
	r := chi.NewRouter()
	bookingApi.ConfigureRouter(r)
	ts := httptest.NewServer(r)

	return ts, &mockSvc
}

func getTestBooking() booking.Booking {
	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	slotID := uint64(3)
	return booking.Booking{
		ID:                21,
		CustomerID:        7,
		CourseID:          5,
		Status:            booking.StatusPending,
		SlotID:            &slotID,
		SessionsPurchased: 8,
		SessionsRemaining: 8,
		TotalAmount:       240,
		Created:           created,
	}
}

func TestBookingCreate(t *testing.T) {
	ts, mockSvc := setupBookingTestServer()
	defer ts.Close()

	start := time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	validRequest := map[string]interface{}{
		"customerId":        7,
		"courseId":          5,
		"sessionsPurchased": 8,
		"totalAmount":       240.0,
		"windowStart":       start.Format(time.RFC3339),
		"windowEnd":         end.Format(time.RFC3339),
	}

	tests := []struct {
		name string

		request    map[string]interface{}
		createFunc func(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error)

		wantStatusCode int
	}{
		{
			name:    "valid booking is created",
			request: validRequest,
			createFunc: func(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error) {
				return getTestBooking(), nil
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "booking without a window is created",
			request: map[string]interface{}{
				"customerId":        7,
				"courseId":          5,
				"sessionsPurchased": 4,
				"totalAmount":       120.0,
			},
			createFunc: func(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error) {
				bkg := getTestBooking()
				bkg.SlotID = nil
				return bkg, nil
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "zero sessions is rejected",
			request: map[string]interface{}{
				"customerId":        7,
				"courseId":          5,
				"sessionsPurchased": 0,
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "window start without end is rejected",
			request: map[string]interface{}{
				"customerId":        7,
				"courseId":          5,
				"sessionsPurchased": 8,
				"windowStart":       start.Format(time.RFC3339),
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "full slot returns conflict",
			request: validRequest,
			createFunc: func(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error) {
				return booking.Booking{}, &booking.SlotFullError{SlotID: 3, MaxCapacity: 8}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:    "service errors return internal server error",
			request: validRequest,
			createFunc: func(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error) {
				return booking.Booking{}, errors.New("something bad happened")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.createFunc != nil {
				mockSvc.CreateFunc = test.createFunc
			}

			res := testutil.Post(ts.URL, test.request, t)

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantStatusCode == http.StatusCreated {
				got := booking.Booking{}
				unmarshal(res, &got, t)

				if got.ID != getTestBooking().ID {
					t.Errorf("booking id got=%d want=%d", got.ID, getTestBooking().ID)
				}
				if got.SessionsRemaining != got.SessionsPurchased {
					t.Errorf("sessions remaining got=%d want=%d", got.SessionsRemaining, got.SessionsPurchased)
				}
			}
		})
	}
}

func TestBookingGet(t *testing.T) {
	ts, mockSvc := setupBookingTestServer()
	defer ts.Close()

	bkg := getTestBooking()

	tests := []struct {
		name string
		url  string

		getFunc func(ctx context.Context, id uint64) (booking.Booking, error)

		wantBooking    *booking.Booking
		wantStatusCode int
	}{
		{
			name: "booking is returned",
			url:  "/21",
			getFunc: func(ctx context.Context, id uint64) (booking.Booking, error) {
				return bkg, nil
			},
			wantBooking:    &bkg,
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unknown booking returns not found",
			url:  "/99",
			getFunc: func(ctx context.Context, id uint64) (booking.Booking, error) {
				return booking.Booking{}, core.ErrNotFound
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "non-numeric id is rejected",
			url:            "/notanid",
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.getFunc != nil {
				mockSvc.GetFunc = test.getFunc
			}

			res, err := http.Get(ts.URL + test.url)
			if err != nil {
				t.Fatal(err)
			}

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantBooking != nil {
				got := booking.Booking{}
				unmarshal(res, &got, t)

				if !reflect.DeepEqual(got, *test.wantBooking) {
					t.Errorf("booking\n got:%+v\nwant:%+v\n", got, *test.wantBooking)
				}
			}
		})
	}
}

func TestBookingUpdateStatus(t *testing.T) {
	ts, mockSvc := setupBookingTestServer()
	defer ts.Close()

	mockSvc.GetFunc = func(ctx context.Context, id uint64) (booking.Booking, error) {
		return getTestBooking(), nil
	}

	tests := []struct {
		name string

		request        map[string]interface{}
		transitionFunc func(ctx context.Context, bookingID uint64, newStatus booking.Status, actorID uint64) error

		wantStatus     booking.Status
		wantStatusCode int
	}{
		{
			name:           "booking is confirmed",
			request:        map[string]interface{}{"status": "confirmed"},
			wantStatus:     booking.StatusConfirmed,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "booking is cancelled",
			request:        map[string]interface{}{"status": "cancelled"},
			wantStatus:     booking.StatusCancelled,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "unknown status is rejected",
			request:        map[string]interface{}{"status": "vanished"},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "service errors return internal server error",
			request: map[string]interface{}{"status": "completed"},
			transitionFunc: func(ctx context.Context, bookingID uint64, newStatus booking.Status, actorID uint64) error {
				return errors.New("something bad happened")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.transitionFunc != nil {
				mockSvc.TransitionFunc = test.transitionFunc
			} else {
				mockSvc.TransitionFunc = func(ctx context.Context, bookingID uint64, newStatus booking.Status, actorID uint64) error {
					return nil
				}
			}

			res := testutil.Put(ts.URL+"/21/status", test.request, t)

			if res.StatusCode != test.wantStatusCode {
				t.Errorf("status code got=%d want=%d", res.StatusCode, test.wantStatusCode)
			}

			if test.wantStatusCode == http.StatusOK {
				got := booking.Booking{}
				unmarshal(res, &got, t)

				if got.Status != test.wantStatus {
					t.Errorf("status got=%s want=%s", got.Status, test.wantStatus)
				}
			}
		})
	}
}
