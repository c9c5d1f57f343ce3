package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

const (
	MinPromoCodeLength = 3
	MaxPromoCodeLength = 50
)

// Reasons reported by PromoCode validation.
const (
	ReasonCodeNotFound       = "code not found"
	ReasonInactive           = "inactive"
	ReasonOutsideWindow      = "expired or not yet active"
	ReasonUsageLimitReached  = "usage limit reached"
	ReasonMinPurchaseNotMet  = "minimum purchase not met"
	ReasonPromoAlreadyOnCart = "another promo code is already applied"
)

var hundred = decimal.NewFromInt(100)

type PromoCode struct {
	ID                int64
	TenantID          string
	Code              string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	ValidFrom         time.Time
	ValidUntil        *time.Time
	UsageLimit        *int
	UsageCount        int
	MinPurchaseAmount *decimal.Decimal
	IsActive          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PromoValidation struct {
	Valid        bool
	Discount     decimal.Decimal
	ErrorMessage string
}

func InvalidPromo(reason string) PromoValidation {
	return PromoValidation{Discount: decimal.Zero, ErrorMessage: reason}
}

// Err converts a failed validation into an error wrapping ErrBadRequest.
func (v PromoValidation) Err(code string) error {
	if v.Valid {
		return nil
	}
	return fmt.Errorf("promo code[%s] %s: %w", code, v.ErrorMessage, ErrBadRequest)
}

// CheckPromoCode trims the raw code and enforces the length bounds.
func CheckPromoCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(code)
	if n < MinPromoCodeLength || n > MaxPromoCodeLength {
		return "", fmt.Errorf("promo code length[%d] must be between %d and %d: %w",
			n, MinPromoCodeLength, MaxPromoCodeLength, ErrBadRequest)
	}
	return code, nil
}

func (p PromoCode) InWindow(now time.Time) bool {
	if now.Before(p.ValidFrom) {
		return false
	}
	return p.ValidUntil == nil || !now.After(*p.ValidUntil)
}

func (p PromoCode) UsageExhausted() bool {
	return p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit
}

// Check runs the validity rules in order against the live record and, when
// all pass, computes the discount for cartTotal.
func (p PromoCode) Check(now time.Time, cartTotal decimal.Decimal) PromoValidation {
	switch {
	case !p.IsActive:
		return InvalidPromo(ReasonInactive)
	case !p.InWindow(now):
		return InvalidPromo(ReasonOutsideWindow)
	case p.UsageExhausted():
		return InvalidPromo(ReasonUsageLimitReached)
	case !p.MeetsMinPurchase(cartTotal):
		return InvalidPromo(ReasonMinPurchaseNotMet)
	}

	return PromoValidation{Valid: true, Discount: p.DiscountFor(cartTotal)}
}

func (p PromoCode) MeetsMinPurchase(cartTotal decimal.Decimal) bool {
	return p.MinPurchaseAmount == nil || cartTotal.GreaterThanOrEqual(*p.MinPurchaseAmount)
}

// DiscountFor never returns more than cartTotal nor less than zero.
func (p PromoCode) DiscountFor(cartTotal decimal.Decimal) decimal.Decimal {
	if !cartTotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch p.DiscountType {
	case DiscountPercent:
		discount = cartTotal.Mul(p.DiscountValue).Div(hundred).Round(MoneyScale)
	case DiscountFixed:
		discount = p.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, cartTotal)
}

// Validate checks an administrative definition before it is stored.
func (p PromoCode) Validate() error {
	if _, err := CheckPromoCode(p.Code); err != nil {
		return err
	}

	switch p.DiscountType {
	case DiscountPercent:
		if p.DiscountValue.GreaterThan(hundred) {
			return fmt.Errorf("percent discount[%s] exceeds 100: %w", p.DiscountValue, ErrBadRequest)
		}
	case DiscountFixed:
	default:
		return fmt.Errorf("discount type[%s] is not supported: %w", p.DiscountType, ErrBadRequest)
	}

	if p.DiscountValue.IsNegative() {
		return fmt.Errorf("discount value[%s] is negative: %w", p.DiscountValue, ErrBadRequest)
	}
	if p.ValidFrom.IsZero() {
		return fmt.Errorf("valid from is empty: %w", ErrBadRequest)
	}
	if p.ValidUntil != nil && !p.ValidUntil.After(p.ValidFrom) {
		return fmt.Errorf("valid until must be after valid from: %w", ErrBadRequest)
	}
	if p.UsageLimit != nil && *p.UsageLimit < 0 {
		return fmt.Errorf("usage limit[%d] is negative: %w", *p.UsageLimit, ErrBadRequest)
	}
	if p.MinPurchaseAmount != nil && p.MinPurchaseAmount.IsNegative() {
		return fmt.Errorf("min purchase amount[%s] is negative: %w", p.MinPurchaseAmount, ErrBadRequest)
	}

	return nil
}
