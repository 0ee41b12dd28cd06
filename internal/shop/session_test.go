package shop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
)

// memStore is an in-memory Store used to exercise the engine without a
// database. Line order mirrors ledger insertion order.
type memStore struct {
	mu       sync.Mutex
	products map[int64]*storage.Product
	lines    []*storage.OrderLine
	nextID   int64

	// failures maps a method name to an error returned on its next call.
	failures map[string]error
}

func newMemStore(products ...storage.Product) *memStore {
	m := &memStore{
		products: make(map[int64]*storage.Product),
		failures: make(map[string]error),
	}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
	}
	return m
}

func (m *memStore) fail(method string) error {
	if err, ok := m.failures[method]; ok {
		delete(m.failures, method)
		return err
	}
	return nil
}

func (m *memStore) GetProduct(_ context.Context, productID int64) (*storage.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetProduct"); err != nil {
		return nil, err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) SetProductStock(_ context.Context, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetProductStock"); err != nil {
		return err
	}
	p, ok := m.products[productID]
	if !ok {
		return storage.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (m *memStore) ListOrderedProductIDs(_ context.Context, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListOrderedProductIDs"); err != nil {
		return nil, err
	}
	var ids []int64
	for _, line := range m.lines {
		if line.UserID == userID {
			ids = append(ids, line.ProductID)
		}
	}
	return ids, nil
}

func (m *memStore) GetOrderLine(_ context.Context, productID, userID int64) (*storage.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetOrderLine"); err != nil {
		return nil, err
	}
	for _, line := range m.lines {
		if line.ProductID == productID && line.UserID == userID {
			cp := *line
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UpsertOrderLine(_ context.Context, productID, userID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpsertOrderLine"); err != nil {
		return err
	}
	for _, line := range m.lines {
		if line.ProductID == productID && line.UserID == userID {
			line.Quantity = quantity
			return nil
		}
	}
	m.nextID++
	m.lines = append(m.lines, &storage.OrderLine{
		ID:        m.nextID,
		Quantity:  quantity,
		ProductID: productID,
		UserID:    userID,
	})
	return nil
}

func (m *memStore) DeleteOrderLine(_ context.Context, productID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteOrderLine"); err != nil {
		return err
	}
	for i, line := range m.lines {
		if line.ProductID == productID && line.UserID == userID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) DeleteAllOrderLines(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteAllOrderLines"); err != nil {
		return err
	}
	kept := m.lines[:0]
	for _, line := range m.lines {
		if line.UserID != userID {
			kept = append(kept, line)
		}
	}
	m.lines = kept
	return nil
}

func (m *memStore) CountOrderLines(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CountOrderLines"); err != nil {
		return 0, err
	}
	count := 0
	for _, line := range m.lines {
		if line.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) WithTx(_ context.Context, fn func(Store) error) error {
	return fn(m)
}

// unitTotal reports stock plus reserved units across all orders for a product.
func (m *memStore) unitTotal(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.products[productID].Quantity
	for _, line := range m.lines {
		if line.ProductID == productID {
			total += line.Quantity
		}
	}
	return total
}

const userID = int64(100)

func product(id int64, name string, price float64, stock int) storage.Product {
	return storage.Product{
		ID: id, Name: name, Title: name, Price: price, Quantity: stock,
		IsActive: true, CategoryID: 1,
	}
}

func TestSelectCreatesThenMergesLine(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	sel, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	require.True(t, sel.Added)
	require.Equal(t, 1, sel.LineQuantity)
	require.Equal(t, 4, sel.Stock)

	sel, err = engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	require.True(t, sel.Added)
	require.Equal(t, 2, sel.LineQuantity)
	require.Equal(t, 3, sel.Stock)

	count, err := store.CountOrderLines(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, count, "repeat selection must not create a duplicate line")
	require.Equal(t, 5, store.unitTotal(1))
}

func TestSelectOutOfStockIsNoOp(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 0))
	engine := NewEngine(store)
	ctx := context.Background()

	sel, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	require.False(t, sel.Added)
	require.Equal(t, 0, sel.LineQuantity)

	count, err := store.CountOrderLines(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestSelectUnknownProduct(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	_, err := engine.Select(context.Background(), userID, 42)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIncreaseThenDecreaseIsIdempotent(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)

	line, err := engine.Increase(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 2, line.Quantity)

	line, err = engine.Decrease(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity)

	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 4, p.Quantity)
	require.Equal(t, 5, store.unitTotal(1))
}

func TestIncreaseAtZeroStockIsNoOp(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 1))
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)

	// Stock is now exhausted; a further increase changes nothing.
	line, err := engine.Increase(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity)

	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, p.Quantity)
}

func TestDecreaseNeverDropsBelowOne(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)

	line, err := engine.Decrease(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity)

	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 4, p.Quantity)

	line, err = engine.Decrease(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity, "decrease at quantity 1 must be a no-op")

	p, err = store.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 4, p.Quantity)
}

func TestRemoveCurrentReturnsStock(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := engine.Select(ctx, userID, 1)
		require.NoError(t, err)
	}
	_, err := engine.OpenOrder(ctx, userID)
	require.NoError(t, err)

	_, err = engine.RemoveCurrent(ctx, userID)
	require.ErrorIs(t, err, ErrEmptyOrder)

	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 5, p.Quantity, "removal must return the full reserved quantity")

	count, err := store.CountOrderLines(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRemoveCurrentShiftsCursor(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5), product(2, "tea", 4.0, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.Select(ctx, userID, 2)
	require.NoError(t, err)
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)

	line, err := engine.RemoveCurrent(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 0, line.Step, "cursor clamps at the first line")
	require.Equal(t, 1, line.Total)
	require.Equal(t, int64(2), line.ProductID, "the former second line is now current")

	count, err := store.CountOrderLines(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCheckout(t *testing.T) {
	store := newMemStore(product(1, "coffee", 10.0, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := engine.Select(ctx, userID, 1)
		require.NoError(t, err)
	}

	receipt, err := engine.Checkout(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 30.0, receipt.Cost)
	require.Equal(t, 3, receipt.Quantity)

	count, err := store.CountOrderLines(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, count, "checkout clears the ledger")

	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, p.Quantity, "checkout must not return reserved stock")

	_, err = engine.OpenOrder(ctx, userID)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCheckoutEmptyOrder(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	_, err := engine.Checkout(context.Background(), userID)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestNavigationClamps(t *testing.T) {
	store := newMemStore(
		product(1, "coffee", 9.5, 5),
		product(2, "tea", 4.0, 5),
		product(3, "milk", 2.5, 5),
	)
	engine := NewEngine(store)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := engine.Select(ctx, userID, id)
		require.NoError(t, err)
	}

	line, err := engine.OpenOrder(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 0, line.Step)
	require.Equal(t, 3, line.Total)

	line, err = engine.StepBack(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 0, line.Step, "step back at the first line stays put")

	for _, want := range []int{1, 2, 2} {
		line, err = engine.StepForward(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, want, line.Step)
	}
	require.Equal(t, int64(3), line.ProductID)

	line, err = engine.StepBack(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Step)
	require.Equal(t, int64(2), line.ProductID)
}

func TestOpenOrderEmpty(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5))
	engine := NewEngine(store)

	_, err := engine.OpenOrder(context.Background(), userID)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestStockInvariantAcrossMutations(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 7), product(2, "tea", 4.0, 3))
	engine := NewEngine(store)
	ctx := context.Background()

	check := func() {
		t.Helper()
		require.Equal(t, 7, store.unitTotal(1))
		require.Equal(t, 3, store.unitTotal(2))
	}

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	check()
	_, err = engine.Select(ctx, userID, 2)
	require.NoError(t, err)
	check()
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err = engine.Increase(ctx, userID)
		require.NoError(t, err)
		check()
	}
	_, err = engine.Decrease(ctx, userID)
	require.NoError(t, err)
	check()
	_, err = engine.StepForward(ctx, userID)
	require.NoError(t, err)
	_, err = engine.Increase(ctx, userID)
	require.NoError(t, err)
	check()
	_, err = engine.RemoveCurrent(ctx, userID)
	require.NoError(t, err)
	check()
}

func TestPersistenceFailureLeavesCursorUnchanged(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5), product(2, "tea", 4.0, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.Select(ctx, userID, 2)
	require.NoError(t, err)
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)
	line, err := engine.StepForward(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Step)

	boom := errors.New("connection reset")
	store.failures["ListOrderedProductIDs"] = boom
	_, err = engine.StepBack(ctx, userID)
	require.ErrorIs(t, err, boom)

	store.failures["UpsertOrderLine"] = boom
	_, err = engine.Increase(ctx, userID)
	require.ErrorIs(t, err, boom)

	line, err = engine.CurrentLine(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1, line.Step, "failed operations must not move the cursor")
	require.Equal(t, int64(2), line.ProductID)
}

func TestInvalidCursorResetsSession(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 5), product(2, "tea", 4.0, 5))
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.Select(ctx, userID, 1)
	require.NoError(t, err)
	_, err = engine.Select(ctx, userID, 2)
	require.NoError(t, err)
	_, err = engine.OpenOrder(ctx, userID)
	require.NoError(t, err)
	_, err = engine.StepForward(ctx, userID)
	require.NoError(t, err)

	// The ledger shrinks behind the engine's back.
	require.NoError(t, store.DeleteOrderLine(ctx, 2, userID))

	_, err = engine.CurrentLine(ctx, userID)
	require.ErrorIs(t, err, ErrInvalidCursor)

	line, err := engine.CurrentLine(ctx, userID)
	require.NoError(t, err, "session resets after a cursor violation")
	require.Equal(t, 0, line.Step)
	require.Equal(t, int64(1), line.ProductID)
}
