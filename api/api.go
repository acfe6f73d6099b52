package api

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/config"
)

const (
	ApiPath     = "/api/v1"
	ProductPath = "/product"
	OrderPath   = "/order"
	BookingPath = "/booking"
	SlotPath    = "/slot"
	UserPath    = "/user"
)

func ConfigureRouter(cfg *config.Config, ledgerSvc LedgerService, orderSvc OrderService, bookingSvc BookingService, slotSvc SlotService, userSvc UserService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(Logging)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("UP"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/env", NewEnvApi(cfg).ConfigureRouter)
	r.With(Authenticate(userSvc)).Route(ApiPath, func(r chi.Router) {
		r.Route(ProductPath, NewProductApi(ledgerSvc).ConfigureRouter)
		r.Route(OrderPath, NewOrderApi(orderSvc).ConfigureRouter)
		r.Route(BookingPath, NewBookingApi(bookingSvc).ConfigureRouter)
		r.Route(SlotPath, NewSlotApi(slotSvc).ConfigureRouter)
		r.Route(UserPath, NewUserApi(userSvc).ConfigureRouter)
	})

	return r
}

func Render(w http.ResponseWriter, r *http.Request, rnd render.Renderer) {
	if err := render.Render(w, r, rnd); err != nil {
		log.Warn().Err(err).Msg("failed to render")
	}
}

func RenderList(w http.ResponseWriter, r *http.Request, l []render.Renderer) {
	if err := render.RenderList(w, r, l); err != nil {
		log.Warn().Err(err).Msg("failed to render")
	}
}
