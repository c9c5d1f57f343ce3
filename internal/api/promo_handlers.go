package api

import (
	"context"
	"net/http"

	"github.com/nikolayk812/cartpromo/internal/api/middleware"
	"github.com/nikolayk812/cartpromo/internal/api/web"
	"github.com/nikolayk812/cartpromo/internal/api/weberr"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/promo"
	"github.com/nikolayk812/cartpromo/internal/validate"
)

func HandleApplyPromo(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := cartIDParam(r)
		if err != nil {
			return err
		}

		var in PromoApply
		if err := decodeAndCheck(w, r, &in); err != nil {
			return err
		}

		v, err := e.Apply(ctx, middleware.ContextTenantID(ctx), cartID, in.Code)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toPromoValidation(v), http.StatusOK)
	}
}

func HandleRemovePromo(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := cartIDParam(r)
		if err != nil {
			return err
		}

		c, err := e.RemoveFromCart(ctx, middleware.ContextTenantID(ctx), cartID)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func HandleValidatePromo(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in PromoValidate
		if err := decodeAndCheck(w, r, &in); err != nil {
			return err
		}

		v, err := e.Validate(ctx, middleware.ContextTenantID(ctx), in.Code, in.CartTotal)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toPromoValidation(v), http.StatusOK)
	}
}

func HandleCreatePromo(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in PromoNew
		if err := decodeAndCheck(w, r, &in); err != nil {
			return err
		}

		p, err := e.Create(ctx, middleware.ContextTenantID(ctx), domain.PromoCode{
			Code:              in.Code,
			DiscountType:      domain.DiscountType(in.DiscountType),
			DiscountValue:     in.DiscountValue,
			ValidFrom:         in.ValidFrom,
			ValidUntil:        in.ValidUntil,
			UsageLimit:        in.UsageLimit,
			MinPurchaseAmount: in.MinPurchaseAmount,
			IsActive:          true,
		})
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toPromoCode(p), http.StatusCreated)
	}
}

func HandleShowPromo(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(err)
		}

		p, err := e.Get(ctx, middleware.ContextTenantID(ctx), id)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toPromoCode(p), http.StatusOK)
	}
}

// HandleListPromos lists active codes, or only the currently valid ones
// with ?valid=true.
func HandleListPromos(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		tenantID := middleware.ContextTenantID(ctx)

		var (
			promos []domain.PromoCode
			err    error
		)
		if r.URL.Query().Get("valid") == "true" {
			promos, err = e.ListValid(ctx, tenantID)
		} else {
			promos, err = e.ListActive(ctx, tenantID)
		}
		if err != nil {
			return weberr.FromDomain(err)
		}

		out := make([]PromoCode, 0, len(promos))
		for _, p := range promos {
			out = append(out, toPromoCode(p))
		}

		return web.Respond(ctx, w, out, http.StatusOK)
	}
}

func HandleDeactivatePromo(e *promo.Engine) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(err)
		}

		if err := e.Deactivate(ctx, middleware.ContextTenantID(ctx), id); err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
