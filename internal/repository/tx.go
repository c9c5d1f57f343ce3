package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartpromo/internal/db"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
)

func withTx[T any](ctx context.Context, pool *pgxpool.Pool, q *db.Queries, fn func(q *db.Queries) (T, error)) (T, error) {
	// a nil pool means the repository is already bound to a transaction
	if pool == nil {
		return fn(q)
	}

	var result T
	err := inTx(ctx, pool, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(db.New(tx))
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (txErr error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

type transactor struct {
	pool   *pgxpool.Pool
	limits domain.QuantityLimits
}

func NewTransactor(pool *pgxpool.Pool, limits domain.QuantityLimits) port.Transactor {
	return &transactor{
		pool:   pool,
		limits: limits,
	}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(carts port.CartRepository, promos port.PromoCodeRepository) error) error {
	return inTx(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(NewCartWithTx(tx, t.limits), NewPromoCodeWithTx(tx))
	})
}
