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
)

type LedgerService interface {
	CreateProduct(ctx context.Context, product *ledger.Product, actorID uint64) error

	GetProduct(ctx context.Context, id uint64) (ledger.Product, error)
	GetAllProducts(ctx context.Context, limit, offset int) ([]ledger.Product, error)
	GetLogEntries(ctx context.Context, productID uint64, limit, offset int) ([]ledger.LogEntry, error)

	Adjust(ctx context.Context, adj ledger.Adjustment, options ...core.UpdateOptions) error
	Restock(ctx context.Context, rr ledger.RestockRequest) (float64, error)
}

type ProductApi struct {
	service LedgerService
}

func NewProductApi(service LedgerService) *ProductApi {
	return &ProductApi{service: service}
}

const (
	CtxKeyProduct CtxKey = "product"
)

func (a *ProductApi) ConfigureRouter(r chi.Router) {
	r.With(Paginate).Get("/", a.List)
	r.Put("/", a.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(a.ProductCtx)
		r.Get("/", a.Get)
		r.With(Paginate).Get("/log", a.GetLog)
		r.Put("/restock", a.Restock)
		r.Put("/adjustment", a.Adjust)
	})
}

func (a *ProductApi) List(w http.ResponseWriter, r *http.Request) {
	limit := r.Context().Value(CtxKeyLimit).(int)
	offset := r.Context().Value(CtxKeyOffset).(int)

	products, err := a.service.GetAllProducts(r.Context(), limit, offset)
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	RenderList(w, r, NewProductListResponse(products))
}

func (a *ProductApi) Create(w http.ResponseWriter, r *http.Request) {
	data := &CreateProductRequest{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := a.service.CreateProduct(r.Context(), &data.Product, actor(r)); err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	render.Status(r, http.StatusCreated)
	Render(w, r, NewProductResponse(data.Product))
}

func (a *ProductApi) ProductCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			Render(w, r, ErrInvalidRequest(errors.New("invalid product id")))
			return
		}

		product, err := a.service.GetProduct(r.Context(), id)

		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				Render(w, r, ErrNotFound)
			} else {
				log.Error().Err(err).Uint64("id", id).Msg("error acquiring product")
				Render(w, r, ErrInternalServer)
			}
			return
		}

		ctx := context.WithValue(r.Context(), CtxKeyProduct, product)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *ProductApi) Get(w http.ResponseWriter, r *http.Request) {
	product := r.Context().Value(CtxKeyProduct).(ledger.Product)

	render.Status(r, http.StatusOK)
	Render(w, r, NewProductResponse(product))
}

func (a *ProductApi) GetLog(w http.ResponseWriter, r *http.Request) {
	product := r.Context().Value(CtxKeyProduct).(ledger.Product)
	limit := r.Context().Value(CtxKeyLimit).(int)
	offset := r.Context().Value(CtxKeyOffset).(int)

	entries, err := a.service.GetLogEntries(r.Context(), product.ID, limit, offset)
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	RenderList(w, r, NewLogEntryListResponse(entries))
}

func (a *ProductApi) Restock(w http.ResponseWriter, r *http.Request) {
	product := r.Context().Value(CtxKeyProduct).(ledger.Product)

	data := &RestockRequestDto{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	data.ProductID = product.ID
	data.ActorID = actor(r)

	newCost, err := a.service.Restock(r.Context(), *data.RestockRequest)
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	render.Status(r, http.StatusCreated)
	Render(w, r, &RestockResponse{ProductID: product.ID, NewUnitCost: newCost})
}

func (a *ProductApi) Adjust(w http.ResponseWriter, r *http.Request) {
	product := r.Context().Value(CtxKeyProduct).(ledger.Product)

	data := &AdjustmentRequestDto{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	data.ProductID = product.ID
	data.ActorID = actor(r)

	if err := a.service.Adjust(r.Context(), *data.Adjustment); err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	render.Status(r, http.StatusCreated)
	Render(w, r, &AdjustmentResponse{ProductID: product.ID, Delta: data.Delta})
}
