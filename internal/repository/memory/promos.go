package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/nikolayk812/cartpromo/internal/domain"
)

type promoRecord struct {
	ID       int64
	TenantID string
	Code     string
	Promo    domain.PromoCode
}

func (r *repo) CreatePromoCode(ctx context.Context, tenantID string, promo domain.PromoCode) (domain.PromoCode, error) {
	if tenantID == "" {
		return domain.PromoCode{}, domain.ErrTenantIDEmpty
	}

	err := r.write(func(txn *memdb.Txn) error {
		existing, err := txn.First(tablePromos, "code", tenantID, promo.Code)
		if err != nil {
			return fmt.Errorf("txn.First: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("promo code[%s] already exists: %w", promo.Code, domain.ErrBadRequest)
		}

		now := time.Now().UTC()
		promo.ID = r.store.promoSeq.Add(1)
		promo.TenantID = tenantID
		promo.UsageCount = 0
		promo.CreatedAt = now
		promo.UpdatedAt = now

		return txn.Insert(tablePromos, newPromoRecord(promo))
	})
	if err != nil {
		return domain.PromoCode{}, err
	}

	return promo, nil
}

func (r *repo) GetPromoCode(ctx context.Context, tenantID string, id int64) (domain.PromoCode, error) {
	if tenantID == "" {
		return domain.PromoCode{}, domain.ErrTenantIDEmpty
	}

	var promo domain.PromoCode
	err := r.read(func(txn *memdb.Txn) error {
		rec, err := findPromo(txn, tenantID, id)
		if err != nil {
			return err
		}
		promo = rec.Promo
		return nil
	})

	return promo, err
}

func (r *repo) GetPromoCodeByCode(ctx context.Context, tenantID string, code string) (domain.PromoCode, error) {
	if tenantID == "" {
		return domain.PromoCode{}, domain.ErrTenantIDEmpty
	}

	var promo domain.PromoCode
	err := r.read(func(txn *memdb.Txn) error {
		raw, err := txn.First(tablePromos, "code", tenantID, code)
		if err != nil {
			return fmt.Errorf("txn.First: %w", err)
		}
		if raw == nil {
			return fmt.Errorf("promo code[%s]: %w", code, domain.ErrNotFound)
		}
		promo = raw.(*promoRecord).Promo
		return nil
	})

	return promo, err
}

func (r *repo) ListActivePromoCodes(ctx context.Context, tenantID string) ([]domain.PromoCode, error) {
	return r.listPromos(tenantID, func(p domain.PromoCode) bool {
		return p.IsActive
	})
}

func (r *repo) ListValidPromoCodes(ctx context.Context, tenantID string, at time.Time) ([]domain.PromoCode, error) {
	return r.listPromos(tenantID, func(p domain.PromoCode) bool {
		return p.IsActive && p.InWindow(at)
	})
}

func (r *repo) listPromos(tenantID string, keep func(domain.PromoCode) bool) ([]domain.PromoCode, error) {
	if tenantID == "" {
		return nil, domain.ErrTenantIDEmpty
	}

	promos := []domain.PromoCode{}
	err := r.read(func(txn *memdb.Txn) error {
		it, err := txn.Get(tablePromos, "tenant_id", tenantID)
		if err != nil {
			return fmt.Errorf("txn.Get: %w", err)
		}

		for raw := it.Next(); raw != nil; raw = it.Next() {
			if p := raw.(*promoRecord).Promo; keep(p) {
				promos = append(promos, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByID(promos)
	return promos, nil
}

func (r *repo) DeactivatePromoCode(ctx context.Context, tenantID string, id int64) (bool, error) {
	if tenantID == "" {
		return false, domain.ErrTenantIDEmpty
	}

	var found bool
	err := r.write(func(txn *memdb.Txn) error {
		rec, err := findPromo(txn, tenantID, id)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}

		found = true
		promo := rec.Promo
		promo.IsActive = false
		promo.UpdatedAt = time.Now().UTC()
		return txn.Insert(tablePromos, newPromoRecord(promo))
	})

	return found, err
}

func (r *repo) RedeemPromoCode(ctx context.Context, tenantID string, id int64, at time.Time) (domain.PromoCode, bool, error) {
	if tenantID == "" {
		return domain.PromoCode{}, false, domain.ErrTenantIDEmpty
	}

	var (
		promo    domain.PromoCode
		redeemed bool
	)
	err := r.write(func(txn *memdb.Txn) error {
		rec, err := findPromo(txn, tenantID, id)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}

		p := rec.Promo
		if !p.IsActive || !p.InWindow(at) || p.UsageExhausted() {
			return nil
		}

		p.UsageCount++
		p.UpdatedAt = time.Now().UTC()
		if err := txn.Insert(tablePromos, newPromoRecord(p)); err != nil {
			return fmt.Errorf("txn.Insert: %w", err)
		}

		promo, redeemed = p, true
		return nil
	})
	if err != nil {
		return domain.PromoCode{}, false, err
	}

	return promo, redeemed, nil
}

func newPromoRecord(p domain.PromoCode) *promoRecord {
	return &promoRecord{
		ID:       p.ID,
		TenantID: p.TenantID,
		Code:     strings.ToLower(p.Code),
		Promo:    p,
	}
}

func findPromo(txn *memdb.Txn, tenantID string, id int64) (*promoRecord, error) {
	raw, err := txn.First(tablePromos, "id", id)
	if err != nil {
		return nil, fmt.Errorf("txn.First: %w", err)
	}

	rec, ok := raw.(*promoRecord)
	if !ok || rec.TenantID != tenantID {
		return nil, fmt.Errorf("promo code[%d]: %w", id, domain.ErrNotFound)
	}

	return rec, nil
}

func sortByID(promos []domain.PromoCode) {
	slices.SortFunc(promos, func(a, b domain.PromoCode) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
