package shop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductDraftHappyPath(t *testing.T) {
	var draft ProductDraft

	require.Error(t, draft.Validate())

	require.NoError(t, draft.SetCategory(3))
	require.NoError(t, draft.SetName("Arabica beans 1kg"))
	require.NoError(t, draft.SetTitle("Arabica"))
	require.NoError(t, draft.SetPrice(" 12.90 "))
	require.False(t, draft.Complete())
	require.NoError(t, draft.SetQuantity("25"))

	require.NoError(t, draft.Validate())
	require.Equal(t, int64(3), draft.CategoryID)
	require.Equal(t, "Arabica beans 1kg", draft.Name)
	require.Equal(t, "Arabica", draft.Title)
	require.Equal(t, 12.90, draft.Price)
	require.Equal(t, 25, draft.Quantity)
}

func TestProductDraftRejectsBadInput(t *testing.T) {
	var draft ProductDraft

	require.Error(t, draft.SetCategory(0))
	require.Error(t, draft.SetName("   "))
	require.Error(t, draft.SetTitle(""))
	require.Error(t, draft.SetPrice("twelve"))
	require.Error(t, draft.SetPrice("-1"))
	require.Error(t, draft.SetQuantity("2.5"))
	require.Error(t, draft.SetQuantity("-3"))
	require.False(t, draft.Complete())
}

func TestProductDraftIncomplete(t *testing.T) {
	var draft ProductDraft
	require.NoError(t, draft.SetCategory(1))
	require.NoError(t, draft.SetName("x"))

	require.ErrorIs(t, draft.Validate(), ErrDraftIncomplete)
}
