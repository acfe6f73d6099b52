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
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/core/order"
)

type OrderService interface {
	Create(ctx context.Context, req order.CreateOrderRequest) (order.Order, error)
	Get(ctx context.Context, id uint64) (order.Order, error)
	GetAll(ctx context.Context, limit, offset int) ([]order.Order, error)
	Transition(ctx context.Context, orderID uint64, newStatus order.Status, actorID uint64) error
}

type OrderApi struct {
	service OrderService
}

func NewOrderApi(service OrderService) *OrderApi {
	return &OrderApi{service: service}
}

const (
	CtxKeyOrder CtxKey = "order"
)

func (a *OrderApi) ConfigureRouter(r chi.Router) {
	r.With(Paginate).Get("/", a.List)
	r.Post("/", a.Create)

	r.Route("/{orderId}", func(r chi.Router) {
		r.Use(a.OrderCtx)
		r.Get("/", a.Get)
		r.Put("/status", a.UpdateStatus)
	})
}

func (a *OrderApi) List(w http.ResponseWriter, r *http.Request) {
	limit := r.Context().Value(CtxKeyLimit).(int)
	offset := r.Context().Value(CtxKeyOffset).(int)

	orders, err := a.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	RenderList(w, r, NewOrderListResponse(orders))
}

func (a *OrderApi) Create(w http.ResponseWriter, r *http.Request) {
	data := &CreateOrderRequestDto{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	data.ActorID = actor(r)

	ord, err := a.service.Create(r.Context(), *data.CreateOrderRequest)
	if err != nil {
		var stockErr *ledger.InsufficientStockError
		if errors.As(err, &stockErr) {
			Render(w, r, ErrConflict(stockErr))
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

	render.Status(r, http.StatusCreated)
	Render(w, r, NewOrderResponse(ord))
}

func (a *OrderApi) OrderCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			Render(w, r, ErrInvalidRequest(errors.New("invalid order id")))
			return
		}

		ord, err := a.service.Get(r.Context(), id)

		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				Render(w, r, ErrNotFound)
			} else {
				log.Error().Err(err).Uint64("orderId", id).Msg("error acquiring order")
				Render(w, r, ErrInternalServer)
			}
			return
		}

		ctx := context.WithValue(r.Context(), CtxKeyOrder, ord)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *OrderApi) Get(w http.ResponseWriter, r *http.Request) {
	ord := r.Context().Value(CtxKeyOrder).(order.Order)

	render.Status(r, http.StatusOK)
	Render(w, r, NewOrderResponse(ord))
}

func (a *OrderApi) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ord := r.Context().Value(CtxKeyOrder).(order.Order)

	data := &OrderStatusUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := a.service.Transition(r.Context(), ord.ID, data.status, actor(r)); err != nil {
		var stockErr *ledger.InsufficientStockError
		if errors.As(err, &stockErr) {
			Render(w, r, ErrConflict(stockErr))
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

	ord.Status = data.status
	Render(w, r, NewOrderResponse(ord))
}
