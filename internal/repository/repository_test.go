package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, *pgxpool.Pool, error) {
	container, connStr, err := testdb.StartPostgres(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("testdb.StartPostgres: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	return container, pool, nil
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE TABLE cart_items, carts, promo_codes, products RESTART IDENTITY CASCADE")
	return err
}

func randomCartItem(quantity int) domain.CartItem {
	return domain.CartItem{
		ProductID: uuid.MustParse(gofakeit.UUID()),
		Quantity:  quantity,
		// a cart holds one currency, so lines share USD
		Price: domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 100)), currency.USD),
	}
}

func randomMoney() domain.Money {
	return domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 100)), randomCurrency())
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func randomProduct(price domain.Money) domain.Product {
	return domain.Product{
		ID:    uuid.MustParse(gofakeit.UUID()),
		Name:  gofakeit.ProductName(),
		Price: price,
	}
}

var compareOpts = cmp.Options{
	cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	}),
	// NUMERIC(12,2) changes the exponent of round-tripped values
	cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	}),
}

func assertCartItem(t *testing.T, expected, actual domain.CartItem) {
	t.Helper()

	opts := append(compareOpts,
		cmpopts.IgnoreFields(domain.CartItem{}, "CreatedAt", "UpdatedAt"),
	)

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
}

func assertCartItems(t *testing.T, expected, actual []domain.CartItem) {
	t.Helper()

	opts := append(compareOpts,
		cmpopts.IgnoreFields(domain.CartItem{}, "CreatedAt", "UpdatedAt"),
		cmpopts.SortSlices(func(a, b domain.CartItem) bool {
			return a.ProductID.String() < b.ProductID.String()
		}),
		cmpopts.EquateEmpty(),
	)

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}

func assertPromoCode(t *testing.T, expected, actual domain.PromoCode) {
	t.Helper()

	opts := append(compareOpts,
		cmpopts.IgnoreFields(domain.PromoCode{}, "ID", "TenantID", "CreatedAt", "UpdatedAt"),
		// Postgres keeps microseconds
		cmpopts.EquateApproxTime(time.Millisecond),
	)

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.Positive(t, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
}
