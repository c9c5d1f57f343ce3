package pricing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/pricing"
	"github.com/nikolayk812/cartpromo/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

const tenantID = "tenant-1"

func TestCalculator_Totals(t *testing.T) {
	ctx := t.Context()

	store, err := memory.New(domain.DefaultQuantityLimits())
	require.NoError(t, err)

	carts := store.Carts()
	promos := store.PromoCodes()
	calc := pricing.NewCalculator(carts, promos, currency.USD)

	cart, err := carts.CreateCart(ctx, tenantID, nil)
	require.NoError(t, err)

	totals, err := calc.Totals(ctx, tenantID, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00 USD", totals.Total.String())

	_, err = carts.AppendItem(ctx, tenantID, cart.ID, line("125.00", 4, currency.USD))
	require.NoError(t, err)

	promo, err := promos.CreatePromoCode(ctx, tenantID, domain.PromoCode{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	})
	require.NoError(t, err)
	require.NoError(t, carts.SetPromoCode(ctx, tenantID, cart.ID, &promo.ID))

	totals, err = calc.Totals(ctx, tenantID, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.00 USD", totals.Subtotal.String())
	assert.Equal(t, "50.00 USD", totals.Discount.String())
	assert.Equal(t, "450.00 USD", totals.Total.String())
	assert.Equal(t, "SAVE10", totals.PromoCode)

	_, err = calc.Totals(ctx, tenantID, cart.ID+100)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = calc.Totals(ctx, "other-tenant", cart.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculator_TotalsIgnoreCatalogChanges(t *testing.T) {
	ctx := t.Context()

	store, err := memory.New(domain.DefaultQuantityLimits())
	require.NoError(t, err)

	catalog := store.Catalog()
	carts := store.Carts()
	calc := pricing.NewCalculator(carts, store.PromoCodes(), currency.USD)

	product := domain.Product{
		ID:    uuid.New(),
		Name:  "mug",
		Price: domain.NewMoney(decimal.RequireFromString("19.99"), currency.USD),
	}
	require.NoError(t, catalog.SaveProduct(ctx, tenantID, product))

	cart, err := carts.CreateCart(ctx, tenantID, nil)
	require.NoError(t, err)

	stored, err := catalog.GetProduct(ctx, tenantID, product.ID)
	require.NoError(t, err)
	_, err = carts.AppendItem(ctx, tenantID, cart.ID, domain.CartItem{
		ProductID: product.ID,
		Quantity:  2,
		Price:     pricing.SnapshotPrice(stored),
	})
	require.NoError(t, err)

	product.Price = domain.NewMoney(decimal.RequireFromString("24.99"), currency.USD)
	require.NoError(t, catalog.SaveProduct(ctx, tenantID, product))

	totals, err := calc.Totals(ctx, tenantID, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "39.98 USD", totals.Total.String())
}
