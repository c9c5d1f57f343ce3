package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/cartpromo/internal/api/middleware"
	"github.com/nikolayk812/cartpromo/internal/api/web"
	"github.com/nikolayk812/cartpromo/internal/cart"
	"github.com/nikolayk812/cartpromo/internal/pricing"
	"github.com/nikolayk812/cartpromo/internal/promo"
	"github.com/nikolayk812/cartpromo/internal/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	Log        logrus.FieldLogger
	Carts      *cart.Service
	Promos     *promo.Engine
	Calculator *pricing.Calculator
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())
	a.mw = append(a.mw, middleware.Tenant())
	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	a.Router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	a.Handle(http.MethodPost, "/carts", HandleCreateCart(cfg.Carts))
	a.Handle(http.MethodGet, "/carts/{cart_id}", HandleShowCart(cfg.Carts))
	a.Handle(http.MethodGet, "/carts/{cart_id}/totals", HandleShowTotals(cfg.Calculator))
	a.Handle(http.MethodPost, "/carts/{cart_id}/items", HandleAddItem(cfg.Carts))
	a.Handle(http.MethodDelete, "/carts/{cart_id}/items", HandleClearCart(cfg.Carts))
	a.Handle(http.MethodPut, "/carts/{cart_id}/items/{product_id}/increment", HandleIncrementItem(cfg.Carts))
	a.Handle(http.MethodPut, "/carts/{cart_id}/items/{product_id}/decrement", HandleDecrementItem(cfg.Carts))
	a.Handle(http.MethodDelete, "/carts/{cart_id}/items/{product_id}", HandleRemoveItem(cfg.Carts))
	a.Handle(http.MethodPost, "/carts/{cart_id}/promo", HandleApplyPromo(cfg.Promos))
	a.Handle(http.MethodDelete, "/carts/{cart_id}/promo", HandleRemovePromo(cfg.Promos))

	a.Handle(http.MethodPost, "/promo-codes", HandleCreatePromo(cfg.Promos))
	a.Handle(http.MethodGet, "/promo-codes", HandleListPromos(cfg.Promos))
	a.Handle(http.MethodPost, "/promo-codes/validate", HandleValidatePromo(cfg.Promos))
	a.Handle(http.MethodGet, "/promo-codes/{id}", HandleShowPromo(cfg.Promos))
	a.Handle(http.MethodDelete, "/promo-codes/{id}", HandleDeactivatePromo(cfg.Promos))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {
	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {
			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
