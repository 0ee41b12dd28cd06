package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Semiproducts", Unique: "cat", Data: "1"},
		{Text: "Grocery", Unique: "cat", Data: "2"},
	})

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)
	require.Equal(t, "Semiproducts", markup.InlineKeyboard[0][0].Text)
}

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"},
	}

	markup := InlineButtonsNPerRow(buttons, 2)
	require.Len(t, markup.InlineKeyboard, 3)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.Len(t, markup.InlineKeyboard[2], 1)

	// n <= 1 falls back to one button per row
	markup = InlineButtonsNPerRow(buttons, 0)
	require.Len(t, markup.InlineKeyboard, 5)
}

func TestSingleCancelMarkup(t *testing.T) {
	markup := SingleCancelMarkup("cancel", "add_product")
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	require.Equal(t, defaultCancelButtonText, markup.InlineKeyboard[0][0].Text)
}

func TestReplyButtons(t *testing.T) {
	markup := ReplyButtons([]string{"one", "two"}, []string{"three"})
	require.True(t, markup.ResizeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 2)
	require.Len(t, markup.ReplyKeyboard[0], 2)
}
