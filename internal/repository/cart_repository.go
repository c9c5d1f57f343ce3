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
	"github.com/nikolayk812/cartpromo/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q      *db.Queries
	pool   *pgxpool.Pool
	limits domain.QuantityLimits
}

func NewCart(pool *pgxpool.Pool, limits domain.QuantityLimits) port.CartRepository {
	return &cartRepository{
		q:      db.New(pool),
		pool:   pool,
		limits: limits,
	}
}

func NewCartWithTx(tx pgx.Tx, limits domain.QuantityLimits) port.CartRepository {
	return &cartRepository{
		q:      db.New(tx),
		pool:   nil, // use provided transaction instead
		limits: limits,
	}
}

func (r *cartRepository) CreateCart(ctx context.Context, tenantID string, userID *string) (domain.Cart, error) {
	if tenantID == "" {
		return domain.Cart{}, domain.ErrTenantIDEmpty
	}

	dbCart, err := r.q.CreateCart(ctx, db.CreateCartParams{
		TenantID: tenantID,
		UserID:   userID,
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.CreateCart: %w", err)
	}

	return mapCartToDomain(dbCart, nil), nil
}

func (r *cartRepository) GetCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	return r.loadCart(ctx, tenantID, cartID, false)
}

func (r *cartRepository) LockCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	return r.loadCart(ctx, tenantID, cartID, true)
}

func (r *cartRepository) loadCart(ctx context.Context, tenantID string, cartID int64, lock bool) (domain.Cart, error) {
	if tenantID == "" {
		return domain.Cart{}, domain.ErrTenantIDEmpty
	}

	var (
		dbCart db.Cart
		err    error
		op     = "q.GetCart"
	)
	if lock {
		op = "q.LockCart"
		dbCart, err = r.q.LockCart(ctx, db.LockCartParams{ID: cartID, TenantID: tenantID})
	} else {
		dbCart, err = r.q.GetCart(ctx, db.GetCartParams{ID: cartID, TenantID: tenantID})
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, cartNotFound(cartID)
		}
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	dbCartItems, err := r.q.GetCartItems(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCartItems: %w", err)
	}

	items, err := mapCartItemRowsToDomain(dbCartItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapCartItemRowsToDomain: %w", err)
	}

	return mapCartToDomain(dbCart, items), nil
}

func (r *cartRepository) AppendItem(ctx context.Context, tenantID string, cartID int64, item domain.CartItem) (domain.CartItem, error) {
	if tenantID == "" {
		return domain.CartItem{}, domain.ErrTenantIDEmpty
	}
	if item.Quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] is not positive: %w", item.Quantity, domain.ErrBadRequest)
	}
	if item.Price.Amount.IsNegative() {
		return domain.CartItem{}, fmt.Errorf("price[%s] is negative: %w", item.Price, domain.ErrBadRequest)
	}

	// the cart row lock serializes appends so the currency check holds
	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.CartItem, error) {
		if _, err := q.LockCart(ctx, db.LockCartParams{ID: cartID, TenantID: tenantID}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.CartItem{}, cartNotFound(cartID)
			}
			return domain.CartItem{}, fmt.Errorf("q.LockCart: %w", err)
		}

		rows, err := q.GetCartItems(ctx, cartID)
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("q.GetCartItems: %w", err)
		}

		lines, err := mapCartItemRowsToDomain(rows)
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("mapCartItemRowsToDomain: %w", err)
		}

		if err := domain.CheckLineCurrency(cartID, lines, item.Price); err != nil {
			return domain.CartItem{}, err
		}

		row, err := q.AppendItem(ctx, db.AppendItemParams{
			ProductID:     item.ProductID,
			Quantity:      int32(item.Quantity),
			MaxQuantity:   int32(r.limits.Max),
			PriceAmount:   item.Price.Amount,
			PriceCurrency: item.Price.Currency.String(),
			CartID:        cartID,
			TenantID:      tenantID,
		})
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("q.AppendItem: %w", err)
		}

		return mapCartItemRowToDomain(db.GetCartItemsRow(row))
	})
}

func (r *cartRepository) IncrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, delta int) (domain.CartItem, error) {
	if tenantID == "" {
		return domain.CartItem{}, domain.ErrTenantIDEmpty
	}
	if delta <= 0 {
		return domain.CartItem{}, fmt.Errorf("delta[%d] is not positive: %w", delta, domain.ErrBadRequest)
	}

	row, err := r.q.IncrementItem(ctx, db.IncrementItemParams{
		Delta:       int32(delta),
		MaxQuantity: int32(r.limits.Max),
		CartID:      cartID,
		ProductID:   productID,
		TenantID:    tenantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CartItem{}, itemNotFound(cartID, productID)
		}
		return domain.CartItem{}, fmt.Errorf("q.IncrementItem: %w", err)
	}

	return mapCartItemRowToDomain(db.GetCartItemsRow(row))
}

type decrementResult struct {
	item    domain.CartItem
	removed bool
}

func (r *cartRepository) DecrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, amount int) (domain.CartItem, bool, error) {
	if tenantID == "" {
		return domain.CartItem{}, false, domain.ErrTenantIDEmpty
	}
	if amount == 0 {
		return domain.CartItem{}, false, fmt.Errorf("amount is zero: %w", domain.ErrBadRequest)
	}

	res, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (decrementResult, error) {
		locked, err := q.LockCartItem(ctx, db.LockCartItemParams{
			CartID:    cartID,
			ProductID: productID,
			TenantID:  tenantID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return decrementResult{}, itemNotFound(cartID, productID)
			}
			return decrementResult{}, fmt.Errorf("q.LockCartItem: %w", err)
		}

		item, err := mapCartItemRowToDomain(db.GetCartItemsRow(locked))
		if err != nil {
			return decrementResult{}, fmt.Errorf("mapCartItemRowToDomain: %w", err)
		}

		quantity := item.Quantity - amount
		if quantity < r.limits.Min {
			if _, err := q.DeleteItem(ctx, db.DeleteItemParams{
				CartID:    cartID,
				ProductID: productID,
				TenantID:  tenantID,
			}); err != nil {
				return decrementResult{}, fmt.Errorf("q.DeleteItem: %w", err)
			}

			item.Quantity = 0
			return decrementResult{item: item, removed: true}, nil
		}

		updated, err := q.SetItemQuantity(ctx, db.SetItemQuantityParams{
			Quantity:  int32(r.limits.Clamp(quantity)),
			CartID:    cartID,
			ProductID: productID,
		})
		if err != nil {
			return decrementResult{}, fmt.Errorf("q.SetItemQuantity: %w", err)
		}

		item, err = mapCartItemRowToDomain(db.GetCartItemsRow(updated))
		if err != nil {
			return decrementResult{}, fmt.Errorf("mapCartItemRowToDomain: %w", err)
		}

		return decrementResult{item: item}, nil
	})
	if err != nil {
		return domain.CartItem{}, false, err
	}

	return res.item, res.removed, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID) (bool, error) {
	if tenantID == "" {
		return false, domain.ErrTenantIDEmpty
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		CartID:    cartID,
		ProductID: productID,
		TenantID:  tenantID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, tenantID string, cartID int64) (int64, error) {
	if tenantID == "" {
		return 0, domain.ErrTenantIDEmpty
	}

	rowsAffected, err := r.q.ClearCart(ctx, db.ClearCartParams{
		CartID:   cartID,
		TenantID: tenantID,
	})
	if err != nil {
		return 0, fmt.Errorf("q.ClearCart: %w", err)
	}

	return rowsAffected, nil
}

func (r *cartRepository) SetPromoCode(ctx context.Context, tenantID string, cartID int64, promoCodeID *int64) error {
	if tenantID == "" {
		return domain.ErrTenantIDEmpty
	}

	rowsAffected, err := r.q.SetCartPromoCode(ctx, db.SetCartPromoCodeParams{
		PromoCodeID: promoCodeID,
		ID:          cartID,
		TenantID:    tenantID,
	})
	if err != nil {
		return fmt.Errorf("q.SetCartPromoCode: %w", err)
	}
	if rowsAffected == 0 {
		return cartNotFound(cartID)
	}

	return nil
}

func cartNotFound(cartID int64) error {
	return fmt.Errorf("cart[%d]: %w", cartID, domain.ErrNotFound)
}

func itemNotFound(cartID int64, productID uuid.UUID) error {
	return fmt.Errorf("cart[%d] product[%s]: %w", cartID, productID, domain.ErrNotFound)
}

func mapCartToDomain(row db.Cart, items []domain.CartItem) domain.Cart {
	return domain.Cart{
		ID:          row.ID,
		TenantID:    row.TenantID,
		UserID:      row.UserID,
		PromoCodeID: row.PromoCodeID,
		Items:       items,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapCartItemRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapCartItemRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapCartItemRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapCartItemRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
