package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartpromo/internal/domain"
)

// CartRepository is the Cart Line Store. Every mutation of a line is atomic
// per (cartID, productID) and scoped by tenantID.
type CartRepository interface {
	CreateCart(ctx context.Context, tenantID string, userID *string) (domain.Cart, error)
	GetCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error)
	// LockCart loads the cart row with FOR UPDATE semantics. Only meaningful
	// on a transaction-scoped repository.
	LockCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error)

	// AppendItem creates the line with item.Price as its snapshot, or adds
	// item.Quantity to an existing line keeping the original price.
	AppendItem(ctx context.Context, tenantID string, cartID int64, item domain.CartItem) (domain.CartItem, error)
	IncrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, delta int) (domain.CartItem, error)
	// DecrementItem subtracts amount; a line falling to zero or below is
	// deleted and reported with removed=true.
	DecrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, amount int) (item domain.CartItem, removed bool, err error)
	DeleteItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID) (bool, error)
	ClearCart(ctx context.Context, tenantID string, cartID int64) (int64, error)

	SetPromoCode(ctx context.Context, tenantID string, cartID int64, promoCodeID *int64) error
}

// Catalog resolves products for the tenant.
type Catalog interface {
	GetProduct(ctx context.Context, tenantID string, productID uuid.UUID) (domain.Product, error)
}
