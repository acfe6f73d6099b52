package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/booking"
)

type SlotService interface {
	GetSlots(ctx context.Context, from, to time.Time) ([]booking.Slot, error)
	UpsertWindow(ctx context.Context, req booking.SlotWindowRequest) error
	SetCapacity(ctx context.Context, slotID uint64, newCapacity int32) error
}

type SlotApi struct {
	service SlotService
}

func NewSlotApi(service SlotService) *SlotApi {
	return &SlotApi{service: service}
}

func (a *SlotApi) ConfigureRouter(r chi.Router) {
	r.Get("/", a.List)
	r.Post("/window", a.UpsertWindow)
	r.Put("/{slotId}/capacity", a.SetCapacity)
}

func (a *SlotApi) List(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		Render(w, r, ErrInvalidRequest(errors.New("from is required in RFC3339 format")))
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		Render(w, r, ErrInvalidRequest(errors.New("to is required in RFC3339 format")))
		return
	}

	slots, err := a.service.GetSlots(r.Context(), from, to)
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	RenderList(w, r, NewSlotListResponse(slots))
}

func (a *SlotApi) UpsertWindow(w http.ResponseWriter, r *http.Request) {
	data := &SlotWindowRequestDto{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := a.service.UpsertWindow(r.Context(), *data.SlotWindowRequest); err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	render.Status(r, http.StatusCreated)
	Render(w, r, &SlotWindowResponse{})
}

func (a *SlotApi) SetCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "slotId"), 10, 64)
	if err != nil {
		Render(w, r, ErrInvalidRequest(errors.New("invalid slot id")))
		return
	}

	data := &SlotCapacityRequest{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := a.service.SetCapacity(r.Context(), id, data.MaxCapacity); err != nil {
		var occErr *booking.BelowOccupancyError
		if errors.As(err, &occErr) {
			Render(w, r, ErrConflict(occErr))
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

	Render(w, r, &SlotCapacityResponse{SlotID: id, MaxCapacity: data.MaxCapacity})
}
