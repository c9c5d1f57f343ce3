package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID          int64
	TenantID    string
	UserID      *string
	PromoCodeID *int64
	Items       []CartItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a product placed in a cart. Price is the unit price captured
// when the line was created and is never rewritten afterwards.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
	Price     Money

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cart) Item(productID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CheckLineCurrency rejects a price whose currency differs from the lines
// already in the cart. A cart holds a single currency.
func CheckLineCurrency(cartID int64, lines []CartItem, price Money) error {
	if len(lines) == 0 || lines[0].Price.SameCurrency(price) {
		return nil
	}
	return fmt.Errorf("cart[%d] currency[%s] differs from price currency[%s]: %w",
		cartID, lines[0].Price.Currency, price.Currency, ErrBadRequest)
}

// Totals is the checkout breakdown of a cart.
type Totals struct {
	Subtotal  Money
	Discount  Money
	Total     Money
	PromoCode string
}
