package cart_test

import (
	"errors"
	"io"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartpromo/internal/cart"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

type serviceSuite struct {
	suite.Suite

	store    *memory.Store
	catalog  *memory.Catalog
	svc      *cart.Service
	tenantID string
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(serviceSuite))
}

// before each test
func (suite *serviceSuite) SetupTest() {
	limits := domain.DefaultQuantityLimits()

	var err error
	suite.store, err = memory.New(limits)
	suite.Require().NoError(err)

	suite.catalog = suite.store.Catalog()
	suite.tenantID = gofakeit.UUID()

	log := logrus.New()
	log.SetOutput(io.Discard)

	suite.svc, err = cart.NewService(suite.store.Carts(), suite.catalog, limits, log)
	suite.Require().NoError(err)
}

func (suite *serviceSuite) TestNewService_InvalidLimits() {
	_, err := cart.NewService(suite.store.Carts(), suite.catalog, domain.QuantityLimits{Min: 3, Max: 2}, logrus.New())
	suite.Error(err)
}

func (suite *serviceSuite) TestCreateAndGetCart() {
	t := suite.T()
	ctx := t.Context()

	userID := "user-1"
	created, err := suite.svc.CreateCart(ctx, suite.tenantID, &userID)
	require.NoError(t, err)

	got, err := suite.svc.GetCart(ctx, suite.tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, &userID, got.UserID)
	assert.Empty(t, got.Items)

	_, err = suite.svc.GetCart(ctx, gofakeit.UUID(), created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = suite.svc.CreateCart(ctx, "", nil)
	require.ErrorIs(t, err, domain.ErrTenantIDEmpty)
}

func (suite *serviceSuite) TestAddItem() {
	tests := []struct {
		name      string
		quantity  int
		unknown   bool
		wantQty   int
		wantError error
	}{
		{
			name:     "add item: ok",
			quantity: 2,
			wantQty:  2,
		},
		{
			name:     "add max quantity: ok",
			quantity: domain.DefaultMaxItemQuantity,
			wantQty:  domain.DefaultMaxItemQuantity,
		},
		{
			name:      "add zero quantity: error",
			quantity:  0,
			wantError: domain.ErrBadRequest,
		},
		{
			name:      "add above max quantity: error",
			quantity:  domain.DefaultMaxItemQuantity + 1,
			wantError: domain.ErrBadRequest,
		},
		{
			name:      "add unknown product: not found",
			quantity:  1,
			unknown:   true,
			wantError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			c := suite.createCart()
			product := suite.saveProduct("10.00", currency.USD)
			productID := product.ID
			if tt.unknown {
				productID = uuid.New()
			}

			got, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, productID, tt.quantity)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			require.Len(t, got.Items, 1)
			assert.Equal(t, productID, got.Items[0].ProductID)
			assert.Equal(t, tt.wantQty, got.Items[0].Quantity)
			assert.Equal(t, "10.00 USD", got.Items[0].Price.String())
		})
	}
}

func (suite *serviceSuite) TestAddItem_SnapshotPrice() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	product := suite.saveProduct("19.99", currency.USD)

	_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 1)
	require.NoError(t, err)

	product.Price = domain.NewMoney(decimal.RequireFromString("24.99"), currency.USD)
	require.NoError(t, suite.catalog.SaveProduct(ctx, suite.tenantID, product))

	got, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, "19.99 USD", got.Items[0].Price.String())

	got, err = suite.svc.IncrementItem(ctx, suite.tenantID, c.ID, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Items[0].Quantity)
	assert.Equal(t, "19.99 USD", got.Items[0].Price.String())

	// a fresh line picks up the new price
	other := suite.createCart()
	got, err = suite.svc.AddItem(ctx, suite.tenantID, other.ID, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "24.99 USD", got.Items[0].Price.String())
}

func (suite *serviceSuite) TestAddItem_ClampsAccumulatedQuantity() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	product := suite.saveProduct("1.00", currency.USD)

	_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 60)
	require.NoError(t, err)

	got, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxItemQuantity, got.Items[0].Quantity)
}

func (suite *serviceSuite) TestAddItem_CurrencyMismatch() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	usd := suite.saveProduct("1.00", currency.USD)
	eur := suite.saveProduct("1.00", currency.EUR)

	_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, usd.ID, 1)
	require.NoError(t, err)

	_, err = suite.svc.AddItem(ctx, suite.tenantID, c.ID, eur.ID, 1)
	require.ErrorIs(t, err, domain.ErrBadRequest)
}

func (suite *serviceSuite) TestAddItem_Concurrent() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	product := suite.saveProduct("2.50", currency.USD)

	const workers = 150

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := suite.svc.GetCart(ctx, suite.tenantID, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, min(workers, domain.DefaultMaxItemQuantity), got.Items[0].Quantity)
}

func (suite *serviceSuite) TestIncrementItem() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	product := suite.saveProduct("3.00", currency.USD)

	_, err := suite.svc.IncrementItem(ctx, suite.tenantID, c.ID, product.ID, 1)
	require.ErrorIs(t, err, domain.ErrNotFound, "line must exist")

	_, err = suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 1)
	require.NoError(t, err)

	got, err := suite.svc.IncrementItem(ctx, suite.tenantID, c.ID, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Quantity)

	_, err = suite.svc.IncrementItem(ctx, suite.tenantID, c.ID, product.ID, 0)
	require.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = suite.svc.IncrementItem(ctx, suite.tenantID, c.ID, uuid.New(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *serviceSuite) TestDecrementItem() {
	tests := []struct {
		name      string
		initial   int
		amount    int
		wantQty   int
		wantGone  bool
		wantError error
	}{
		{
			name:    "decrement: ok",
			initial: 5,
			amount:  2,
			wantQty: 3,
		},
		{
			name:     "decrement to zero removes line: ok",
			initial:  3,
			amount:   3,
			wantGone: true,
		},
		{
			name:     "decrement past zero removes line: ok",
			initial:  3,
			amount:   10,
			wantGone: true,
		},
		{
			name:    "negative amount increases: ok",
			initial: 3,
			amount:  -2,
			wantQty: 5,
		},
		{
			name:    "negative amount clamps to max: ok",
			initial: 98,
			amount:  -5,
			wantQty: domain.DefaultMaxItemQuantity,
		},
		{
			name:      "zero amount: error",
			initial:   3,
			amount:    0,
			wantError: domain.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			c := suite.createCart()
			product := suite.saveProduct("4.00", currency.USD)

			_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, tt.initial)
			require.NoError(t, err)

			got, err := suite.svc.DecrementItem(ctx, suite.tenantID, c.ID, product.ID, tt.amount)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			item, ok := got.Item(product.ID)
			if tt.wantGone {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, item.Quantity)
		})
	}
}

func (suite *serviceSuite) TestDecrementItem_BelowMinRemovesLine() {
	t := suite.T()
	ctx := t.Context()

	limits := domain.QuantityLimits{Min: 2, Max: 10}

	store, err := memory.New(limits)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, err := cart.NewService(store.Carts(), store.Catalog(), limits, log)
	require.NoError(t, err)

	product := domain.Product{
		ID:    uuid.New(),
		Name:  gofakeit.ProductName(),
		Price: domain.NewMoney(decimal.RequireFromString("4.00"), currency.USD),
	}
	require.NoError(t, store.Catalog().SaveProduct(ctx, suite.tenantID, product))

	c, err := svc.CreateCart(ctx, suite.tenantID, nil)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 4)
	require.NoError(t, err)

	got, err := svc.DecrementItem(ctx, suite.tenantID, c.ID, product.ID, 2)
	require.NoError(t, err)
	item, ok := got.Item(product.ID)
	require.True(t, ok, "quantity equal to min is kept")
	assert.Equal(t, 2, item.Quantity)

	got, err = svc.DecrementItem(ctx, suite.tenantID, c.ID, product.ID, 1)
	require.NoError(t, err)
	_, ok = got.Item(product.ID)
	assert.False(t, ok, "quantity below min removes the line")
}

func (suite *serviceSuite) TestAddItem_ConcurrentMixedCurrencies() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()

	var products []domain.Product
	for i := range 20 {
		cur := currency.USD
		if i%2 == 1 {
			cur = currency.EUR
		}
		products = append(products, suite.saveProduct("1.00", cur))
	}

	var g errgroup.Group
	for _, product := range products {
		g.Go(func() error {
			_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, product.ID, 1)
			if errors.Is(err, domain.ErrBadRequest) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := suite.svc.GetCart(ctx, suite.tenantID, c.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got.Items)
	for _, item := range got.Items {
		assert.Equal(t, got.Items[0].Price.Currency, item.Price.Currency)
	}
}

func (suite *serviceSuite) TestRemoveItem() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	keep := suite.saveProduct("1.00", currency.USD)
	drop := suite.saveProduct("2.00", currency.USD)

	_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, keep.ID, 1)
	require.NoError(t, err)
	_, err = suite.svc.AddItem(ctx, suite.tenantID, c.ID, drop.ID, 1)
	require.NoError(t, err)

	got, err := suite.svc.RemoveItem(ctx, suite.tenantID, c.ID, drop.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, keep.ID, got.Items[0].ProductID)

	_, err = suite.svc.RemoveItem(ctx, suite.tenantID, c.ID, drop.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = suite.svc.RemoveItem(ctx, suite.tenantID, c.ID+100, keep.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *serviceSuite) TestClearCart() {
	t := suite.T()
	ctx := t.Context()

	c := suite.createCart()
	for range 3 {
		p := suite.saveProduct("1.00", currency.USD)
		_, err := suite.svc.AddItem(ctx, suite.tenantID, c.ID, p.ID, 1)
		require.NoError(t, err)
	}

	got, err := suite.svc.ClearCart(ctx, suite.tenantID, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	// clearing an empty cart is fine
	_, err = suite.svc.ClearCart(ctx, suite.tenantID, c.ID)
	require.NoError(t, err)

	_, err = suite.svc.ClearCart(ctx, gofakeit.UUID(), c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *serviceSuite) createCart() domain.Cart {
	c, err := suite.svc.CreateCart(suite.T().Context(), suite.tenantID, nil)
	suite.Require().NoError(err)
	return c
}

func (suite *serviceSuite) saveProduct(price string, cur currency.Unit) domain.Product {
	product := domain.Product{
		ID:    uuid.New(),
		Name:  gofakeit.ProductName(),
		Price: domain.NewMoney(decimal.RequireFromString(price), cur),
	}
	suite.Require().NoError(suite.catalog.SaveProduct(suite.T().Context(), suite.tenantID, product))
	return product
}
