package port

import (
	"context"
	"time"

	"github.com/nikolayk812/cartpromo/internal/domain"
)

type PromoCodeRepository interface {
	CreatePromoCode(ctx context.Context, tenantID string, promo domain.PromoCode) (domain.PromoCode, error)
	GetPromoCode(ctx context.Context, tenantID string, id int64) (domain.PromoCode, error)
	// GetPromoCodeByCode matches code case-insensitively.
	GetPromoCodeByCode(ctx context.Context, tenantID string, code string) (domain.PromoCode, error)
	ListActivePromoCodes(ctx context.Context, tenantID string) ([]domain.PromoCode, error)
	ListValidPromoCodes(ctx context.Context, tenantID string, at time.Time) ([]domain.PromoCode, error)
	DeactivatePromoCode(ctx context.Context, tenantID string, id int64) (bool, error)

	// RedeemPromoCode increments usage_count by one only if the code is still
	// active, inside its window at `at` and below its usage limit, in a single
	// conditional update. ok=false means no row qualified.
	RedeemPromoCode(ctx context.Context, tenantID string, id int64, at time.Time) (promo domain.PromoCode, ok bool, err error)
}

// Transactor runs fn with repositories bound to one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(carts CartRepository, promos PromoCodeRepository) error) error
}
