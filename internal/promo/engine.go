// Package promo validates promo codes, applies them to carts and administers
// their lifecycle.
package promo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
	"github.com/nikolayk812/cartpromo/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
)

type Engine struct {
	promos   port.PromoCodeRepository
	carts    port.CartRepository
	tx       port.Transactor
	currency currency.Unit
	now      func() time.Time
	log      logrus.FieldLogger
}

type Option func(*Engine)

// WithClock overrides the time source used for window checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(
	promos port.PromoCodeRepository,
	carts port.CartRepository,
	tx port.Transactor,
	defaultCurrency currency.Unit,
	log logrus.FieldLogger,
	opts ...Option,
) *Engine {
	e := &Engine{
		promos:   promos,
		carts:    carts,
		tx:       tx,
		currency: defaultCurrency,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Create(ctx context.Context, tenantID string, promo domain.PromoCode) (domain.PromoCode, error) {
	code, err := domain.CheckPromoCode(promo.Code)
	if err != nil {
		return domain.PromoCode{}, err
	}
	promo.Code = code

	if err := promo.Validate(); err != nil {
		return domain.PromoCode{}, err
	}

	created, err := e.promos.CreatePromoCode(ctx, tenantID, promo)
	if err != nil {
		return domain.PromoCode{}, fmt.Errorf("promos.CreatePromoCode: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"tenant_id":  tenantID,
		"promo_code": created.Code,
		"promo_id":   created.ID,
	}).Info("promo code created")

	return created, nil
}

func (e *Engine) Get(ctx context.Context, tenantID string, id int64) (domain.PromoCode, error) {
	promo, err := e.promos.GetPromoCode(ctx, tenantID, id)
	if err != nil {
		return domain.PromoCode{}, fmt.Errorf("promos.GetPromoCode: %w", err)
	}
	return promo, nil
}

// Validate evaluates rawCode against cartTotal without recording usage.
// Rule failures are reported in the result, not as errors.
func (e *Engine) Validate(ctx context.Context, tenantID string, rawCode string, cartTotal decimal.Decimal) (domain.PromoValidation, error) {
	code, err := domain.CheckPromoCode(rawCode)
	if err != nil {
		return domain.PromoValidation{}, err
	}

	promo, err := e.promos.GetPromoCodeByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidPromo(domain.ReasonCodeNotFound), nil
		}
		return domain.PromoValidation{}, fmt.Errorf("promos.GetPromoCodeByCode: %w", err)
	}

	return promo.Check(e.now(), cartTotal), nil
}

// Apply validates rawCode against the cart subtotal, redeems one usage and
// attaches the code to the cart in a single transaction. Re-applying the
// code already attached to the cart does not redeem again.
func (e *Engine) Apply(ctx context.Context, tenantID string, cartID int64, rawCode string) (domain.PromoValidation, error) {
	code, err := domain.CheckPromoCode(rawCode)
	if err != nil {
		return domain.PromoValidation{}, err
	}

	var (
		result   domain.PromoValidation
		redeemed bool
	)
	err = e.tx.WithinTx(ctx, func(carts port.CartRepository, promos port.PromoCodeRepository) error {
		cart, err := carts.LockCart(ctx, tenantID, cartID)
		if err != nil {
			return fmt.Errorf("carts.LockCart: %w", err)
		}

		subtotal, err := pricing.Subtotal(cart, e.currency)
		if err != nil {
			return fmt.Errorf("pricing.Subtotal: %w", err)
		}

		promo, err := promos.GetPromoCodeByCode(ctx, tenantID, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.InvalidPromo(domain.ReasonCodeNotFound).Err(code)
			}
			return fmt.Errorf("promos.GetPromoCodeByCode: %w", err)
		}

		if cart.PromoCodeID != nil {
			if *cart.PromoCodeID != promo.ID {
				return domain.InvalidPromo(domain.ReasonPromoAlreadyOnCart).Err(code)
			}
			totals, err := pricing.Total(cart, &promo, e.currency)
			if err != nil {
				return fmt.Errorf("pricing.Total: %w", err)
			}
			result = domain.PromoValidation{Valid: true, Discount: totals.Discount.Amount}
			return nil
		}

		now := e.now()
		validation := promo.Check(now, subtotal.Amount)
		if !validation.Valid {
			return validation.Err(code)
		}

		_, ok, err := promos.RedeemPromoCode(ctx, tenantID, promo.ID, now)
		if err != nil {
			return fmt.Errorf("promos.RedeemPromoCode: %w", err)
		}
		if !ok {
			// a concurrent redemption changed the record after it was read
			latest, err := promos.GetPromoCode(ctx, tenantID, promo.ID)
			if err != nil {
				return fmt.Errorf("promos.GetPromoCode: %w", err)
			}
			validation = latest.Check(now, subtotal.Amount)
			if validation.Valid {
				validation = domain.InvalidPromo(domain.ReasonUsageLimitReached)
			}
			return validation.Err(code)
		}

		if err := carts.SetPromoCode(ctx, tenantID, cartID, &promo.ID); err != nil {
			return fmt.Errorf("carts.SetPromoCode: %w", err)
		}

		result = validation
		redeemed = true
		return nil
	})
	if err != nil {
		return domain.PromoValidation{}, err
	}

	if redeemed {
		e.log.WithFields(logrus.Fields{
			"tenant_id":  tenantID,
			"cart_id":    cartID,
			"promo_code": code,
			"discount":   result.Discount.StringFixed(domain.MoneyScale),
		}).Info("promo code applied")
	}

	return result, nil
}

// RemoveFromCart detaches the applied code. Redeemed usage is kept.
func (e *Engine) RemoveFromCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	if err := e.carts.SetPromoCode(ctx, tenantID, cartID, nil); err != nil {
		return domain.Cart{}, fmt.Errorf("carts.SetPromoCode: %w", err)
	}

	cart, err := e.carts.GetCart(ctx, tenantID, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}

func (e *Engine) Deactivate(ctx context.Context, tenantID string, id int64) error {
	found, err := e.promos.DeactivatePromoCode(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("promos.DeactivatePromoCode: %w", err)
	}
	if !found {
		return fmt.Errorf("promo code[%d]: %w", id, domain.ErrNotFound)
	}

	e.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"promo_id":  id,
	}).Info("promo code deactivated")

	return nil
}

func (e *Engine) ListActive(ctx context.Context, tenantID string) ([]domain.PromoCode, error) {
	promos, err := e.promos.ListActivePromoCodes(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("promos.ListActivePromoCodes: %w", err)
	}
	return promos, nil
}

// ListValid returns codes that are active and inside their window now. The
// list is informational; Apply always re-checks the live record.
func (e *Engine) ListValid(ctx context.Context, tenantID string) ([]domain.PromoCode, error) {
	promos, err := e.promos.ListValidPromoCodes(ctx, tenantID, e.now())
	if err != nil {
		return nil, fmt.Errorf("promos.ListValidPromoCodes: %w", err)
	}
	return promos, nil
}
