package callbacks

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		unique  string
		payload string
	}{
		{name: "unique with payload", data: "\\fproduct|17", unique: "product", payload: "17"},
		{name: "unique only", data: "\\forder", unique: "order", payload: ""},
		{name: "no prefix", data: "delete_product|3|9", unique: "delete_product", payload: "3|9"},
		{name: "empty", data: "", unique: "", payload: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(&tele.Callback{Data: tt.data})
			require.Equal(t, tt.unique, unique)
			require.Equal(t, tt.payload, payload)
		})
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	require.Empty(t, unique)
	require.Empty(t, payload)
}
