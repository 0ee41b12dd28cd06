package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	require.Equal(t, "ok", Status(nil))
	require.Equal(t, "error", Status(errors.New("boom")))
}

func TestRoundMS(t *testing.T) {
	require.Equal(t, time.Duration(0), RoundMS(-time.Second))
	require.Equal(t, 2*time.Millisecond, RoundMS(1500*time.Microsecond))
}

func TestSummarizeStrings(t *testing.T) {
	joined, truncated := SummarizeStrings([]string{"a", "b", "c"}, 2)
	require.Equal(t, "a, b", joined)
	require.True(t, truncated)

	joined, truncated = SummarizeStrings([]string{"a"}, 2)
	require.Equal(t, "a", joined)
	require.False(t, truncated)
}

func TestSanitizeStripsControlRunes(t *testing.T) {
	require.Equal(t, "abc", Sanitize("a\x00b\x1bc"))
	require.Equal(t, "a\nb\tc", Sanitize("a\nb\tc"))
}

func TestSanitizeLimit(t *testing.T) {
	require.Equal(t, "", SanitizeLimit("anything", 0))
	require.Equal(t, "ab", SanitizeLimit("abcd", 2))
	require.Equal(t, "abcd", SanitizeLimit("abcd", 10))
}

func TestBuildRID(t *testing.T) {
	require.Equal(t, "5:10:20", BuildRID(5, 10, 20))
}

func TestContextMeta(t *testing.T) {
	ctx := WithRID(Background(), "1:2:3")
	require.Equal(t, "1:2:3", RIDFrom(ctx))

	ctx = WithHandler(ctx, "order")
	require.Equal(t, "order", HandlerFrom(ctx))

	ctx = WithUpdateMeta(ctx, 1, 77, 88)
	require.Equal(t, int64(77), UserIDFrom(ctx))
}
