package shop

import (
	"context"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
)

// Store is the slice of the persistence layer the order session engine needs.
// WithTx runs the closure against a transaction-bound view so a stock debit
// and the paired order line update commit or roll back together.
type Store interface {
	GetProduct(ctx context.Context, productID int64) (*storage.Product, error)
	SetProductStock(ctx context.Context, productID int64, quantity int) error

	ListOrderedProductIDs(ctx context.Context, userID int64) ([]int64, error)
	GetOrderLine(ctx context.Context, productID, userID int64) (*storage.OrderLine, error)
	UpsertOrderLine(ctx context.Context, productID, userID int64, quantity int) error
	DeleteOrderLine(ctx context.Context, productID, userID int64) error
	DeleteAllOrderLines(ctx context.Context, userID int64) error
	CountOrderLines(ctx context.Context, userID int64) (int, error)

	WithTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	st *storage.Store
}

// NewStore adapts the sqlx-backed storage to the engine's Store interface.
func NewStore(st *storage.Store) Store {
	return sqlStore{st: st}
}

func (s sqlStore) GetProduct(ctx context.Context, productID int64) (*storage.Product, error) {
	return s.st.GetProduct(ctx, productID)
}

func (s sqlStore) SetProductStock(ctx context.Context, productID int64, quantity int) error {
	return s.st.SetProductStock(ctx, productID, quantity)
}

func (s sqlStore) ListOrderedProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.st.ListOrderedProductIDs(ctx, userID)
}

func (s sqlStore) GetOrderLine(ctx context.Context, productID, userID int64) (*storage.OrderLine, error) {
	return s.st.GetOrderLine(ctx, productID, userID)
}

func (s sqlStore) UpsertOrderLine(ctx context.Context, productID, userID int64, quantity int) error {
	return s.st.UpsertOrderLine(ctx, productID, userID, quantity)
}

func (s sqlStore) DeleteOrderLine(ctx context.Context, productID, userID int64) error {
	return s.st.DeleteOrderLine(ctx, productID, userID)
}

func (s sqlStore) DeleteAllOrderLines(ctx context.Context, userID int64) error {
	return s.st.DeleteAllOrderLines(ctx, userID)
}

func (s sqlStore) CountOrderLines(ctx context.Context, userID int64) (int, error) {
	return s.st.CountOrderLines(ctx, userID)
}

func (s sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.st.WithTx(ctx, func(tx *storage.Store) error {
		return fn(sqlStore{st: tx})
	})
}
