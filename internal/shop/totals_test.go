package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	store := newMemStore(
		product(1, "coffee", 9.5, 10),
		product(2, "tea", 4.0, 10),
	)
	ctx := context.Background()
	require.NoError(t, store.UpsertOrderLine(ctx, 1, userID, 2))
	require.NoError(t, store.UpsertOrderLine(ctx, 2, userID, 3))

	totals, err := Totals(ctx, store, userID)
	require.NoError(t, err)
	require.Equal(t, 2*9.5+3*4.0, totals.Cost)
	require.Equal(t, 5, totals.Quantity)
}

func TestTotalsEmptyOrder(t *testing.T) {
	store := newMemStore()

	totals, err := Totals(context.Background(), store, userID)
	require.NoError(t, err)
	require.Zero(t, totals.Cost)
	require.Zero(t, totals.Quantity)
}

func TestTotalsPropagatesReadFailure(t *testing.T) {
	store := newMemStore(product(1, "coffee", 9.5, 10))
	ctx := context.Background()
	require.NoError(t, store.UpsertOrderLine(ctx, 1, userID, 1))

	boom := errors.New("read failed")
	store.failures["GetProduct"] = boom

	_, err := Totals(ctx, store, userID)
	require.ErrorIs(t, err, boom)
}
