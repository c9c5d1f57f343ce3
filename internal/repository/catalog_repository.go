package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartpromo/internal/db"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"golang.org/x/text/currency"
)

// Catalog reads products from the products table. Product lifecycle is owned
// elsewhere; SaveProduct exists for seeding and tests.
type Catalog struct {
	q *db.Queries
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{
		q: db.New(pool),
	}
}

func (c *Catalog) GetProduct(ctx context.Context, tenantID string, productID uuid.UUID) (domain.Product, error) {
	if tenantID == "" {
		return domain.Product{}, domain.ErrTenantIDEmpty
	}

	row, err := c.q.GetProduct(ctx, db.GetProductParams{ID: productID, TenantID: tenantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:    row.ID,
		Name:  row.Name,
		Price: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
	}, nil
}

func (c *Catalog) SaveProduct(ctx context.Context, tenantID string, product domain.Product) error {
	if tenantID == "" {
		return domain.ErrTenantIDEmpty
	}

	err := c.q.UpsertProduct(ctx, db.UpsertProductParams{
		ID:            product.ID,
		TenantID:      tenantID,
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
	})
	if err != nil {
		return fmt.Errorf("q.UpsertProduct: %w", err)
	}

	return nil
}
