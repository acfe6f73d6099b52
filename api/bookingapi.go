package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/booking"
)

type BookingService interface {
	Create(ctx context.Context, req booking.CreateBookingRequest) (booking.Booking, error)
	Get(ctx context.Context, id uint64) (booking.Booking, error)
	GetAll(ctx context.Context, limit, offset int) ([]booking.Booking, error)
	Transition(ctx context.Context, bookingID uint64, newStatus booking.Status, actorID uint64) error
}

type BookingApi struct {
	service BookingService
}

func NewBookingApi(service BookingService) *BookingApi {
	return &BookingApi{service: service}
}

const (
	CtxKeyBooking CtxKey = "booking"
)

func (a *BookingApi) ConfigureRouter(r chi.Router) {
	r.With(Paginate).Get("/", a.List)
	r.Post("/", a.Create)

	r.Route("/{bookingId}", func(r chi.Router) {
		r.Use(a.BookingCtx)
		r.Get("/", a.Get)
		r.Put("/status", a.UpdateStatus)
	})
}

func (a *BookingApi) List(w http.ResponseWriter, r *http.Request) {
	limit := r.Context().Value(CtxKeyLimit).(int)
	offset := r.Context().Value(CtxKeyOffset).(int)

	bookings, err := a.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	RenderList(w, r, NewBookingListResponse(bookings))
}

func (a *BookingApi) Create(w http.ResponseWriter, r *http.Request) {
	data := &CreateBookingRequestDto{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	data.ActorID = actor(r)

	bkg, err := a.service.Create(r.Context(), *data.CreateBookingRequest)
	if err != nil {
		var fullErr *booking.SlotFullError
		if errors.As(err, &fullErr) {
			Render(w, r, ErrConflict(fullErr))
			return
		}
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	render.Status(r, http.StatusCreated)
	Render(w, r, NewBookingResponse(bkg))
}

func (a *BookingApi) BookingCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "bookingId"), 10, 64)
		if err != nil {
			Render(w, r, ErrInvalidRequest(errors.New("invalid booking id")))
			return
		}

		bkg, err := a.service.Get(r.Context(), id)

		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				Render(w, r, ErrNotFound)
			} else {
				log.Error().Err(err).Uint64("bookingId", id).Msg("error acquiring booking")
				Render(w, r, ErrInternalServer)
			}
			return
		}

		ctx := context.WithValue(r.Context(), CtxKeyBooking, bkg)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *BookingApi) Get(w http.ResponseWriter, r *http.Request) {
	bkg := r.Context().Value(CtxKeyBooking).(booking.Booking)

	render.Status(r, http.StatusOK)
	Render(w, r, NewBookingResponse(bkg))
}

func (a *BookingApi) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bkg := r.Context().Value(CtxKeyBooking).(booking.Booking)

	data := &BookingStatusUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := a.service.Transition(r.Context(), bkg.ID, data.status, actor(r)); err != nil {
		var fullErr *booking.SlotFullError
		if errors.As(err, &fullErr) {
			Render(w, r, ErrConflict(fullErr))
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			Render(w, r, ErrNotFound)
			return
		}
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	bkg.Status = data.status
	Render(w, r, NewBookingResponse(bkg))
}
