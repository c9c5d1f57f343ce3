package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartpromo/internal/domain"
)

type productRecord struct {
	Key      string
	TenantID string
	Product  domain.Product
}

type Catalog struct {
	store *Store
}

func (c *Catalog) GetProduct(ctx context.Context, tenantID string, productID uuid.UUID) (domain.Product, error) {
	if tenantID == "" {
		return domain.Product{}, domain.ErrTenantIDEmpty
	}

	txn := c.store.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableProducts, "id", productID.String())
	if err != nil {
		return domain.Product{}, fmt.Errorf("txn.First: %w", err)
	}

	rec, ok := raw.(*productRecord)
	if !ok || rec.TenantID != tenantID {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	return rec.Product, nil
}

func (c *Catalog) SaveProduct(ctx context.Context, tenantID string, product domain.Product) error {
	if tenantID == "" {
		return domain.ErrTenantIDEmpty
	}

	txn := c.store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableProducts, "id", product.ID.String())
	if err != nil {
		return fmt.Errorf("txn.First: %w", err)
	}
	// an id owned by another tenant is left untouched
	if rec, ok := raw.(*productRecord); ok && rec.TenantID != tenantID {
		return nil
	}

	if err := txn.Insert(tableProducts, &productRecord{
		Key:      product.ID.String(),
		TenantID: tenantID,
		Product:  product,
	}); err != nil {
		return fmt.Errorf("txn.Insert: %w", err)
	}

	txn.Commit()
	return nil
}
