package pricing

import (
	"context"
	"fmt"

	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
	"golang.org/x/text/currency"
)

// Calculator loads a cart and its applied promo code and derives fresh
// totals. Nothing is cached between calls.
type Calculator struct {
	carts    port.CartRepository
	promos   port.PromoCodeRepository
	currency currency.Unit
}

func NewCalculator(carts port.CartRepository, promos port.PromoCodeRepository, defaultCurrency currency.Unit) *Calculator {
	return &Calculator{
		carts:    carts,
		promos:   promos,
		currency: defaultCurrency,
	}
}

func (c *Calculator) Totals(ctx context.Context, tenantID string, cartID int64) (domain.Totals, error) {
	cart, err := c.carts.GetCart(ctx, tenantID, cartID)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	var promo *domain.PromoCode
	if cart.PromoCodeID != nil {
		p, err := c.promos.GetPromoCode(ctx, tenantID, *cart.PromoCodeID)
		if err != nil {
			return domain.Totals{}, fmt.Errorf("promos.GetPromoCode: %w", err)
		}
		promo = &p
	}

	totals, err := Total(cart, promo, c.currency)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("Total: %w", err)
	}

	return totals, nil
}
