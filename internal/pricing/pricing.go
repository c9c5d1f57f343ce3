// Package pricing fixes line prices at add-time and derives checkout totals
// from the frozen line prices.
package pricing

import (
	"fmt"

	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// SnapshotPrice returns the unit price recorded on a new cart line: the
// catalog price at the instant of addition. Existing lines are never
// re-snapshotted.
func SnapshotPrice(product domain.Product) domain.Money {
	return domain.NewMoney(product.Price.Amount, product.Price.Currency)
}

// Subtotal sums price * quantity over the cart lines using each line's
// snapshot price. An empty cart yields zero in fallback currency.
func Subtotal(cart domain.Cart, fallback currency.Unit) (domain.Money, error) {
	if cart.IsEmpty() {
		return domain.ZeroMoney(fallback), nil
	}

	subtotal := domain.ZeroMoney(cart.Items[0].Price.Currency)
	for _, item := range cart.Items {
		var err error
		subtotal, err = subtotal.Add(item.Price.Mul(item.Quantity))
		if err != nil {
			return domain.Money{}, fmt.Errorf("product[%s]: %w", item.ProductID, err)
		}
	}

	return domain.NewMoney(subtotal.Amount, subtotal.Currency), nil
}

// Total subtracts the promo discount from the cart subtotal, flooring at
// zero. The discount is dropped when the subtotal no longer meets the
// promo's minimum purchase amount.
func Total(cart domain.Cart, promo *domain.PromoCode, fallback currency.Unit) (domain.Totals, error) {
	subtotal, err := Subtotal(cart, fallback)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("Subtotal: %w", err)
	}

	discount := decimal.Zero
	var code string
	if promo != nil {
		code = promo.Code
		if promo.MeetsMinPurchase(subtotal.Amount) {
			discount = promo.DiscountFor(subtotal.Amount)
		}
	}

	total := subtotal.Amount.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return domain.Totals{
		Subtotal:  subtotal,
		Discount:  domain.NewMoney(discount, subtotal.Currency),
		Total:     domain.NewMoney(total, subtotal.Currency),
		PromoCode: code,
	}, nil
}
