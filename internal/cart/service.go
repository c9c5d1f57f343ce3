// Package cart implements the cart API: it validates business rules and
// delegates every mutation to the cart line store.
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
	"github.com/nikolayk812/cartpromo/internal/pricing"
	"github.com/sirupsen/logrus"
)

type Service struct {
	carts   port.CartRepository
	catalog port.Catalog
	limits  domain.QuantityLimits
	log     logrus.FieldLogger
}

func NewService(carts port.CartRepository, catalog port.Catalog, limits domain.QuantityLimits, log logrus.FieldLogger) (*Service, error) {
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("limits.Validate: %w", err)
	}

	return &Service{
		carts:   carts,
		catalog: catalog,
		limits:  limits,
		log:     log,
	}, nil
}

func (s *Service) CreateCart(ctx context.Context, tenantID string, userID *string) (domain.Cart, error) {
	cart, err := s.carts.CreateCart(ctx, tenantID, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.CreateCart: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"cart_id":   cart.ID,
	}).Info("cart created")

	return cart, nil
}

func (s *Service) GetCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, tenantID, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}

// AddItem places quantity units of the product in the cart. A new line takes
// the current catalog price; an existing line keeps its snapshot and only
// grows in quantity, up to the configured maximum.
func (s *Service) AddItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, quantity int) (domain.Cart, error) {
	if err := s.limits.Check(quantity); err != nil {
		return domain.Cart{}, err
	}

	if _, err := s.GetCart(ctx, tenantID, cartID); err != nil {
		return domain.Cart{}, err
	}

	product, err := s.catalog.GetProduct(ctx, tenantID, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	// the store rejects a price in a currency other than the cart's
	_, err = s.carts.AppendItem(ctx, tenantID, cartID, domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     pricing.SnapshotPrice(product),
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.AppendItem: %w", err)
	}

	return s.GetCart(ctx, tenantID, cartID)
}

func (s *Service) IncrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, fmt.Errorf("quantity[%d] must be positive: %w", quantity, domain.ErrBadRequest)
	}

	if err := s.checkExists(ctx, tenantID, cartID, productID); err != nil {
		return domain.Cart{}, err
	}

	if _, err := s.carts.IncrementItem(ctx, tenantID, cartID, productID, quantity); err != nil {
		return domain.Cart{}, fmt.Errorf("carts.IncrementItem: %w", err)
	}

	return s.GetCart(ctx, tenantID, cartID)
}

// DecrementItem lowers the line quantity by amount. Going to zero or below
// removes the line. A negative amount raises the quantity, capped at the
// configured maximum.
func (s *Service) DecrementItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID, amount int) (domain.Cart, error) {
	if amount == 0 {
		return domain.Cart{}, fmt.Errorf("amount must not be zero: %w", domain.ErrBadRequest)
	}

	if err := s.checkExists(ctx, tenantID, cartID, productID); err != nil {
		return domain.Cart{}, err
	}

	_, removed, err := s.carts.DecrementItem(ctx, tenantID, cartID, productID, amount)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.DecrementItem: %w", err)
	}

	if removed {
		s.log.WithFields(logrus.Fields{
			"tenant_id":  tenantID,
			"cart_id":    cartID,
			"product_id": productID,
		}).Debug("cart line removed by decrement")
	}

	return s.GetCart(ctx, tenantID, cartID)
}

func (s *Service) RemoveItem(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID) (domain.Cart, error) {
	if _, err := s.GetCart(ctx, tenantID, cartID); err != nil {
		return domain.Cart{}, err
	}

	deleted, err := s.carts.DeleteItem(ctx, tenantID, cartID, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.DeleteItem: %w", err)
	}
	if !deleted {
		return domain.Cart{}, fmt.Errorf("cart[%d] product[%s]: %w", cartID, productID, domain.ErrNotFound)
	}

	return s.GetCart(ctx, tenantID, cartID)
}

func (s *Service) ClearCart(ctx context.Context, tenantID string, cartID int64) (domain.Cart, error) {
	if _, err := s.GetCart(ctx, tenantID, cartID); err != nil {
		return domain.Cart{}, err
	}

	removed, err := s.carts.ClearCart(ctx, tenantID, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.ClearCart: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"cart_id":   cartID,
		"removed":   removed,
	}).Info("cart cleared")

	return s.GetCart(ctx, tenantID, cartID)
}

func (s *Service) checkExists(ctx context.Context, tenantID string, cartID int64, productID uuid.UUID) error {
	if _, err := s.GetCart(ctx, tenantID, cartID); err != nil {
		return err
	}

	if _, err := s.catalog.GetProduct(ctx, tenantID, productID); err != nil {
		return fmt.Errorf("catalog.GetProduct: %w", err)
	}

	return nil
}
