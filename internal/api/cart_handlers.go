package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartpromo/internal/api/middleware"
	"github.com/nikolayk812/cartpromo/internal/api/web"
	"github.com/nikolayk812/cartpromo/internal/api/weberr"
	"github.com/nikolayk812/cartpromo/internal/cart"
	"github.com/nikolayk812/cartpromo/internal/pricing"
	"github.com/nikolayk812/cartpromo/internal/validate"
)

func HandleCreateCart(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		// the body is optional, and a chunked empty body has no content length
		var cn CartNew
		if err := web.Decode(w, r, &cn); err != nil && !errors.Is(err, io.EOF) {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(&cn); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := s.CreateCart(ctx, middleware.ContextTenantID(ctx), cn.UserID)
		if err != nil {
			return weberr.FromDomain(fmt.Errorf("creating cart: %w", err))
		}

		return web.Respond(ctx, w, toCart(c), http.StatusCreated)
	}
}

func HandleShowCart(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := cartIDParam(r)
		if err != nil {
			return err
		}

		c, err := s.GetCart(ctx, middleware.ContextTenantID(ctx), cartID)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func HandleShowTotals(calc *pricing.Calculator) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := cartIDParam(r)
		if err != nil {
			return err
		}

		totals, err := calc.Totals(ctx, middleware.ContextTenantID(ctx), cartID)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toTotals(totals), http.StatusOK)
	}
}

func HandleAddItem(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := cartIDParam(r)
		if err != nil {
			return err
		}

		var in ItemNew
		if err := decodeAndCheck(w, r, &in); err != nil {
			return err
		}

		productID, err := validate.ParseUUID(in.ProductID)
		if err != nil {
			return weberr.BadRequest(err)
		}

		c, err := s.AddItem(ctx, middleware.ContextTenantID(ctx), cartID, productID, in.Quantity)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func HandleIncrementItem(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		var in ItemIncrement
		if err := decodeAndCheck(w, r, &in); err != nil {
			return err
		}

		c, err := s.IncrementItem(ctx, middleware.ContextTenantID(ctx), cartID, productID, in.Quantity)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func HandleDecrementItem(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		var in ItemDecrement
		if err := decodeAndCheck(w, r, &in); err != nil {
			return err
		}

		c, err := s.DecrementItem(ctx, middleware.ContextTenantID(ctx), cartID, productID, in.Amount)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func HandleRemoveItem(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		c, err := s.RemoveItem(ctx, middleware.ContextTenantID(ctx), cartID, productID)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func HandleClearCart(s *cart.Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := cartIDParam(r)
		if err != nil {
			return err
		}

		c, err := s.ClearCart(ctx, middleware.ContextTenantID(ctx), cartID)
		if err != nil {
			return weberr.FromDomain(err)
		}

		return web.Respond(ctx, w, toCart(c), http.StatusOK)
	}
}

func decodeAndCheck(w http.ResponseWriter, r *http.Request, val any) error {
	if err := web.Decode(w, r, val); err != nil {
		return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	if err := validate.Check(val); err != nil {
		return weberr.BadRequest(err)
	}

	return nil
}

func cartIDParam(r *http.Request) (int64, error) {
	id, err := validate.ParseID(web.Param(r, "cart_id"))
	if err != nil {
		return 0, weberr.BadRequest(err)
	}
	return id, nil
}

func itemParams(r *http.Request) (int64, uuid.UUID, error) {
	cartID, err := cartIDParam(r)
	if err != nil {
		return 0, uuid.Nil, err
	}

	productID, err := validate.ParseUUID(web.Param(r, "product_id"))
	if err != nil {
		return 0, uuid.Nil, weberr.BadRequest(err)
	}

	return cartID, productID, nil
}
