package api

import (
	"time"

	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/shopspring/decimal"
)

type CartNew struct {
	UserID *string `json:"userId" validate:"omitempty,min=1,max=64"`
}

type ItemNew struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type ItemIncrement struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type ItemDecrement struct {
	Amount int `json:"amount" validate:"required"`
}

type PromoApply struct {
	Code string `json:"code" validate:"required,min=3,max=50"`
}

type PromoValidate struct {
	Code      string          `json:"code" validate:"required,min=3,max=50"`
	CartTotal decimal.Decimal `json:"cartTotal"`
}

type PromoNew struct {
	Code              string           `json:"code" validate:"required,min=3,max=50"`
	DiscountType      string           `json:"discountType" validate:"required,oneof=PERCENT FIXED"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	ValidFrom         time.Time        `json:"validFrom" validate:"required"`
	ValidUntil        *time.Time       `json:"validUntil" validate:"omitempty,gtfield=ValidFrom"`
	UsageLimit        *int             `json:"usageLimit" validate:"omitempty,gte=0"`
	MinPurchaseAmount *decimal.Decimal `json:"minPurchaseAmount"`
}

type Item struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Cart struct {
	ID          int64     `json:"id"`
	UserID      *string   `json:"userId,omitempty"`
	PromoCodeID *int64    `json:"promoCodeId,omitempty"`
	Items       []Item    `json:"items"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Totals struct {
	Subtotal  string `json:"subtotal"`
	Discount  string `json:"discount"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	PromoCode string `json:"promoCode,omitempty"`
}

type PromoCode struct {
	ID                int64      `json:"id"`
	Code              string     `json:"code"`
	DiscountType      string     `json:"discountType"`
	DiscountValue     string     `json:"discountValue"`
	ValidFrom         time.Time  `json:"validFrom"`
	ValidUntil        *time.Time `json:"validUntil,omitempty"`
	UsageLimit        *int       `json:"usageLimit,omitempty"`
	UsageCount        int        `json:"usageCount"`
	MinPurchaseAmount *string    `json:"minPurchaseAmount,omitempty"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type PromoValidation struct {
	IsValid      bool   `json:"isValid"`
	Discount     string `json:"discount"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func toCart(c domain.Cart) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, Item{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			Price:     it.Price.Amount.StringFixed(domain.MoneyScale),
			Currency:  it.Price.Currency.String(),
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		})
	}

	return Cart{
		ID:          c.ID,
		UserID:      c.UserID,
		PromoCodeID: c.PromoCodeID,
		Items:       items,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toTotals(t domain.Totals) Totals {
	return Totals{
		Subtotal:  t.Subtotal.Amount.StringFixed(domain.MoneyScale),
		Discount:  t.Discount.Amount.StringFixed(domain.MoneyScale),
		Total:     t.Total.Amount.StringFixed(domain.MoneyScale),
		Currency:  t.Total.Currency.String(),
		PromoCode: t.PromoCode,
	}
}

func toPromoCode(p domain.PromoCode) PromoCode {
	out := PromoCode{
		ID:            p.ID,
		Code:          p.Code,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue.StringFixed(domain.MoneyScale),
		ValidFrom:     p.ValidFrom,
		ValidUntil:    p.ValidUntil,
		UsageLimit:    p.UsageLimit,
		UsageCount:    p.UsageCount,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.MinPurchaseAmount != nil {
		amount := p.MinPurchaseAmount.StringFixed(domain.MoneyScale)
		out.MinPurchaseAmount = &amount
	}
	return out
}

func toPromoValidation(v domain.PromoValidation) PromoValidation {
	return PromoValidation{
		IsValid:      v.Valid,
		Discount:     v.Discount.StringFixed(domain.MoneyScale),
		ErrorMessage: v.ErrorMessage,
	}
}
