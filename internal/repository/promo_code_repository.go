package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartpromo/internal/db"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type promoCodeRepository struct {
	q *db.Queries
}

func NewPromoCode(pool *pgxpool.Pool) port.PromoCodeRepository {
	return &promoCodeRepository{
		q: db.New(pool),
	}
}

func NewPromoCodeWithTx(tx pgx.Tx) port.PromoCodeRepository {
	return &promoCodeRepository{
		q: db.New(tx),
	}
}

func (r *promoCodeRepository) CreatePromoCode(ctx context.Context, tenantID string, promo domain.PromoCode) (domain.PromoCode, error) {
	if tenantID == "" {
		return domain.PromoCode{}, domain.ErrTenantIDEmpty
	}

	params := db.CreatePromoCodeParams{
		TenantID:      tenantID,
		Code:          promo.Code,
		DiscountType:  string(promo.DiscountType),
		DiscountValue: promo.DiscountValue,
		ValidFrom:     promo.ValidFrom,
		ValidUntil:    promo.ValidUntil,
		IsActive:      promo.IsActive,
	}
	if promo.UsageLimit != nil {
		limit := int32(*promo.UsageLimit)
		params.UsageLimit = &limit
	}
	if promo.MinPurchaseAmount != nil {
		params.MinPurchaseAmount = decimal.NewNullDecimal(*promo.MinPurchaseAmount)
	}

	row, err := r.q.CreatePromoCode(ctx, params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.PromoCode{}, fmt.Errorf("promo code[%s] already exists: %w", promo.Code, domain.ErrBadRequest)
		}
		return domain.PromoCode{}, fmt.Errorf("q.CreatePromoCode: %w", err)
	}

	return mapPromoCodeToDomain(row), nil
}

func (r *promoCodeRepository) GetPromoCode(ctx context.Context, tenantID string, id int64) (domain.PromoCode, error) {
	if tenantID == "" {
		return domain.PromoCode{}, domain.ErrTenantIDEmpty
	}

	row, err := r.q.GetPromoCode(ctx, db.GetPromoCodeParams{ID: id, TenantID: tenantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PromoCode{}, fmt.Errorf("promo code[%d]: %w", id, domain.ErrNotFound)
		}
		return domain.PromoCode{}, fmt.Errorf("q.GetPromoCode: %w", err)
	}

	return mapPromoCodeToDomain(row), nil
}

func (r *promoCodeRepository) GetPromoCodeByCode(ctx context.Context, tenantID string, code string) (domain.PromoCode, error) {
	if tenantID == "" {
		return domain.PromoCode{}, domain.ErrTenantIDEmpty
	}

	row, err := r.q.GetPromoCodeByCode(ctx, db.GetPromoCodeByCodeParams{TenantID: tenantID, Code: code})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PromoCode{}, fmt.Errorf("promo code[%s]: %w", code, domain.ErrNotFound)
		}
		return domain.PromoCode{}, fmt.Errorf("q.GetPromoCodeByCode: %w", err)
	}

	return mapPromoCodeToDomain(row), nil
}

func (r *promoCodeRepository) ListActivePromoCodes(ctx context.Context, tenantID string) ([]domain.PromoCode, error) {
	if tenantID == "" {
		return nil, domain.ErrTenantIDEmpty
	}

	rows, err := r.q.ListActivePromoCodes(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("q.ListActivePromoCodes: %w", err)
	}

	return mapPromoCodesToDomain(rows), nil
}

func (r *promoCodeRepository) ListValidPromoCodes(ctx context.Context, tenantID string, at time.Time) ([]domain.PromoCode, error) {
	if tenantID == "" {
		return nil, domain.ErrTenantIDEmpty
	}

	rows, err := r.q.ListValidPromoCodes(ctx, db.ListValidPromoCodesParams{TenantID: tenantID, At: at})
	if err != nil {
		return nil, fmt.Errorf("q.ListValidPromoCodes: %w", err)
	}

	return mapPromoCodesToDomain(rows), nil
}

func (r *promoCodeRepository) DeactivatePromoCode(ctx context.Context, tenantID string, id int64) (bool, error) {
	if tenantID == "" {
		return false, domain.ErrTenantIDEmpty
	}

	rowsAffected, err := r.q.DeactivatePromoCode(ctx, db.DeactivatePromoCodeParams{ID: id, TenantID: tenantID})
	if err != nil {
		return false, fmt.Errorf("q.DeactivatePromoCode: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *promoCodeRepository) RedeemPromoCode(ctx context.Context, tenantID string, id int64, at time.Time) (domain.PromoCode, bool, error) {
	if tenantID == "" {
		return domain.PromoCode{}, false, domain.ErrTenantIDEmpty
	}

	row, err := r.q.RedeemPromoCode(ctx, db.RedeemPromoCodeParams{ID: id, TenantID: tenantID, At: at})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PromoCode{}, false, nil
		}
		return domain.PromoCode{}, false, fmt.Errorf("q.RedeemPromoCode: %w", err)
	}

	return mapPromoCodeToDomain(row), true, nil
}

func mapPromoCodeToDomain(row db.PromoCode) domain.PromoCode {
	promo := domain.PromoCode{
		ID:            row.ID,
		TenantID:      row.TenantID,
		Code:          row.Code,
		DiscountType:  domain.DiscountType(row.DiscountType),
		DiscountValue: row.DiscountValue,
		ValidFrom:     row.ValidFrom,
		ValidUntil:    row.ValidUntil,
		UsageCount:    int(row.UsageCount),
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}

	if row.UsageLimit != nil {
		limit := int(*row.UsageLimit)
		promo.UsageLimit = &limit
	}
	if row.MinPurchaseAmount.Valid {
		amount := row.MinPurchaseAmount.Decimal
		promo.MinPurchaseAmount = &amount
	}

	return promo
}

func mapPromoCodesToDomain(rows []db.PromoCode) []domain.PromoCode {
	promos := make([]domain.PromoCode, 0, len(rows))
	for _, row := range rows {
		promos = append(promos, mapPromoCodeToDomain(row))
	}
	return promos
}
