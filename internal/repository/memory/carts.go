package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/nikolayk812/cartpromo/internal/domain"
)

type cartRecord struct {
	ID          int64
	TenantID    string
	UserID      *string
	PromoCodeID *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type itemRecord struct {
	CartID     int64
	ProductKey string
	Item       domain.CartItem
}

func (r *repo) CreateCart(ctx context.Context, tenantID string, userID *string) (domain.Cart, error) {
	if tenantID == "" {
		return domain.Cart{}, domain.ErrTenantIDEmpty
	}

	now := time.Now().UTC()
	rec := &cartRecord{
		ID:        r.store.cartSeq.Add(1),
		TenantID:  tenantID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.write(func(txn *memdb.Txn) error {
		return txn.Insert(tableCarts, rec)
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("txn.Insert: %w", err)
	}

	return mapCartToDomain(rec, nil), nil
}

func (r *repo) GetCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	if tenantID == "" {
		return domain.Cart{}, domain.ErrTenantIDEmpty
	}

	var cart domain.Cart
	err := r.read(func(txn *memdb.Txn) error {
		rec, err := findCart(txn, tenantID, cartID)
		if err != nil {
			return err
		}

		items, err := findItems(txn, cartID)
		if err != nil {
			return err
		}

		cart = mapCartToDomain(rec, items)
		return nil
	})

	return cart, err
}

// LockCart is GetCart; a memdb write transaction already excludes other writers.
func (r *repo) LockCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	return r.GetCart(ctx, tenantID, cartID)
}

func (r *repo) AppendItem(ctx context.Context, tenantID string, cartID int64, item domain.CartItem) (domain.CartItem, error) {
	if tenantID == "" {
		return domain.CartItem{}, domain.ErrTenantIDEmpty
	}
	if item.Quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] is not positive: %w", item.Quantity, domain.ErrBadRequest)
	}
	if item.Price.Amount.IsNegative() {
		return domain.CartItem{}, fmt.Errorf("price[%s] is negative: %w", item.Price, domain.ErrBadRequest)
	}

	var result domain.CartItem
	err := r.write(func(txn *memdb.Txn) error {
		if _, err := findCart(txn, tenantID, cartID); err != nil {
			return err
		}

		lines, err := findItems(txn, cartID)
		if err != nil {
			return err
		}
		if err := domain.CheckLineCurrency(cartID, lines, item.Price); err != nil {
			return err
		}

		now := time.Now().UTC()
		existing, err := findItem(txn, cartID, item.ProductID)
		switch {
		case err == nil:
			// the original price snapshot wins
			result = existing.Item
			result.Quantity = r.store.limits.Clamp(existing.Item.Quantity + item.Quantity)
			result.UpdatedAt = now
		case isNotFound(err):
			result = domain.CartItem{
				ProductID: item.ProductID,
				Quantity:  r.store.limits.Clamp(item.Quantity),
				Price:     domain.NewMoney(item.Price.Amount, item.Price.Currency),
				CreatedAt: now,
				UpdatedAt: now,
			}
		default:
			return err
		}

		return txn.Insert(tableItems, &itemRecord{CartID: cartID, ProductKey: item.ProductID.String(), Item: result})
	})
	if err != nil {
		return domain.CartItem{}, err
	}

	return result, nil
}

func (r *repo) IncrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, delta int) (domain.CartItem, error) {
	if tenantID == "" {
		return domain.CartItem{}, domain.ErrTenantIDEmpty
	}
	if delta <= 0 {
		return domain.CartItem{}, fmt.Errorf("delta[%d] is not positive: %w", delta, domain.ErrBadRequest)
	}

	var result domain.CartItem
	err := r.write(func(txn *memdb.Txn) error {
		if _, err := findCart(txn, tenantID, cartID); err != nil {
			return itemNotFound(cartID, productID)
		}

		existing, err := findItem(txn, cartID, productID)
		if err != nil {
			return err
		}

		result = existing.Item
		result.Quantity = r.store.limits.Clamp(existing.Item.Quantity + delta)
		result.UpdatedAt = time.Now().UTC()

		return txn.Insert(tableItems, &itemRecord{CartID: cartID, ProductKey: existing.ProductKey, Item: result})
	})
	if err != nil {
		return domain.CartItem{}, err
	}

	return result, nil
}

func (r *repo) DecrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, amount int) (domain.CartItem, bool, error) {
	if tenantID == "" {
		return domain.CartItem{}, false, domain.ErrTenantIDEmpty
	}
	if amount == 0 {
		return domain.CartItem{}, false, fmt.Errorf("amount is zero: %w", domain.ErrBadRequest)
	}

	var (
		result  domain.CartItem
		removed bool
	)
	err := r.write(func(txn *memdb.Txn) error {
		if _, err := findCart(txn, tenantID, cartID); err != nil {
			return itemNotFound(cartID, productID)
		}

		existing, err := findItem(txn, cartID, productID)
		if err != nil {
			return err
		}

		result = existing.Item
		quantity := existing.Item.Quantity - amount
		if quantity < r.store.limits.Min {
			result.Quantity = 0
			removed = true
			return txn.Delete(tableItems, existing)
		}

		result.Quantity = r.store.limits.Clamp(quantity)
		result.UpdatedAt = time.Now().UTC()
		return txn.Insert(tableItems, &itemRecord{CartID: cartID, ProductKey: existing.ProductKey, Item: result})
	})
	if err != nil {
		return domain.CartItem{}, false, err
	}

	return result, removed, nil
}

func (r *repo) DeleteItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID) (bool, error) {
	if tenantID == "" {
		return false, domain.ErrTenantIDEmpty
	}

	var deleted bool
	err := r.write(func(txn *memdb.Txn) error {
		if _, err := findCart(txn, tenantID, cartID); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}

		existing, err := findItem(txn, cartID, productID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}

		deleted = true
		return txn.Delete(tableItems, existing)
	})

	return deleted, err
}

func (r *repo) ClearCart(ctx context.Context, tenantID string, cartID int64) (int64, error) {
	if tenantID == "" {
		return 0, domain.ErrTenantIDEmpty
	}

	var removed int
	err := r.write(func(txn *memdb.Txn) error {
		if _, err := findCart(txn, tenantID, cartID); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}

		var err error
		removed, err = txn.DeleteAll(tableItems, "cart_id", cartID)
		return err
	})

	return int64(removed), err
}

func (r *repo) SetPromoCode(ctx context.Context, tenantID string, cartID int64, promoCodeID *int64) error {
	if tenantID == "" {
		return domain.ErrTenantIDEmpty
	}

	return r.write(func(txn *memdb.Txn) error {
		rec, err := findCart(txn, tenantID, cartID)
		if err != nil {
			return err
		}

		updated := *rec
		updated.PromoCodeID = promoCodeID
		updated.UpdatedAt = time.Now().UTC()
		return txn.Insert(tableCarts, &updated)
	})
}

func findCart(txn *memdb.Txn, tenantID string, cartID int64) (*cartRecord, error) {
	raw, err := txn.First(tableCarts, "id", cartID)
	if err != nil {
		return nil, fmt.Errorf("txn.First: %w", err)
	}

	rec, ok := raw.(*cartRecord)
	if !ok || rec.TenantID != tenantID {
		return nil, fmt.Errorf("cart[%d]: %w", cartID, domain.ErrNotFound)
	}

	return rec, nil
}

func findItem(txn *memdb.Txn, cartID int64, productID uuid.UUID) (*itemRecord, error) {
	raw, err := txn.First(tableItems, "id", cartID, productID.String())
	if err != nil {
		return nil, fmt.Errorf("txn.First: %w", err)
	}

	rec, ok := raw.(*itemRecord)
	if !ok {
		return nil, itemNotFound(cartID, productID)
	}

	return rec, nil
}

func findItems(txn *memdb.Txn, cartID int64) ([]domain.CartItem, error) {
	it, err := txn.Get(tableItems, "cart_id", cartID)
	if err != nil {
		return nil, fmt.Errorf("txn.Get: %w", err)
	}

	var items []domain.CartItem
	for raw := it.Next(); raw != nil; raw = it.Next() {
		items = append(items, raw.(*itemRecord).Item)
	}

	slices.SortFunc(items, func(a, b domain.CartItem) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID.String(), b.ProductID.String())
	})

	return items, nil
}

func itemNotFound(cartID int64, productID uuid.UUID) error {
	return fmt.Errorf("cart[%d] product[%s]: %w", cartID, productID, domain.ErrNotFound)
}

func mapCartToDomain(rec *cartRecord, items []domain.CartItem) domain.Cart {
	return domain.Cart{
		ID:          rec.ID,
		TenantID:    rec.TenantID,
		UserID:      rec.UserID,
		PromoCodeID: rec.PromoCodeID,
		Items:       items,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
