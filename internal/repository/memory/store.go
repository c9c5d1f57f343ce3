// Package memory is a go-memdb backed implementation of the cart, promo code
// and catalog ports. Write transactions are serialized by memdb, which gives
// every mutation the same atomicity the Postgres store gets from row locks.
package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
)

const (
	tableCarts    = "carts"
	tableItems    = "cart_items"
	tablePromos   = "promo_codes"
	tableProducts = "products"
)

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableCarts: {
			Name: tableCarts,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {Name: "id", Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
			},
		},
		tableItems: {
			Name: tableItems,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
						&memdb.IntFieldIndex{Field: "CartID"},
						&memdb.StringFieldIndex{Field: "ProductKey"},
					}},
				},
				"cart_id": {Name: "cart_id", Indexer: &memdb.IntFieldIndex{Field: "CartID"}},
			},
		},
		tablePromos: {
			Name: tablePromos,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {Name: "id", Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
				"code": {
					Name:   "code",
					Unique: true,
					Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
						&memdb.StringFieldIndex{Field: "TenantID"},
						&memdb.StringFieldIndex{Field: "Code", Lowercase: true},
					}},
				},
				"tenant_id": {Name: "tenant_id", Indexer: &memdb.StringFieldIndex{Field: "TenantID"}},
			},
		},
		tableProducts: {
			Name: tableProducts,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Key"}},
			},
		},
	},
}

type Store struct {
	db     *memdb.MemDB
	limits domain.QuantityLimits

	cartSeq  atomic.Int64
	promoSeq atomic.Int64
}

func New(limits domain.QuantityLimits) (*Store, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("memdb.NewMemDB: %w", err)
	}

	return &Store{
		db:     db,
		limits: limits,
	}, nil
}

func (s *Store) Carts() port.CartRepository {
	return &repo{store: s}
}

func (s *Store) PromoCodes() port.PromoCodeRepository {
	return &repo{store: s}
}

func (s *Store) Catalog() *Catalog {
	return &Catalog{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(carts port.CartRepository, promos port.PromoCodeRepository) error) error {
	txn := s.db.Txn(true)

	r := &repo{store: s, txn: txn}
	if err := fn(r, r); err != nil {
		txn.Abort()
		return err
	}

	txn.Commit()
	return nil
}

// repo runs each call in its own memdb transaction unless bound to txn.
type repo struct {
	store *Store
	txn   *memdb.Txn
}

func (r *repo) write(fn func(txn *memdb.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}

	txn := r.store.db.Txn(true)
	if err := fn(txn); err != nil {
		txn.Abort()
		return err
	}

	txn.Commit()
	return nil
}

func (r *repo) read(fn func(txn *memdb.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}

	txn := r.store.db.Txn(false)
	defer txn.Abort()

	return fn(txn)
}
