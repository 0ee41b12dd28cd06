package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateLifecycle(t *testing.T) {
	m := NewMemoryManager()

	require.Equal(t, StateIdle, m.GetState(7))
	require.False(t, m.InProgress(7))

	m.SetState(7, State("add_product:name"))
	require.Equal(t, State("add_product:name"), m.GetState(7))
	require.True(t, m.InProgress(7))
	require.True(t, m.HasState(7))

	m.ClearState(7)
	require.Equal(t, StateIdle, m.GetState(7))
	require.False(t, m.InProgress(7))
}

func TestTempDataRoundTrip(t *testing.T) {
	m := NewMemoryManager()

	_, ok := m.GetTemp(1, "draft")
	require.False(t, ok)

	m.SetTemp(1, "draft", "payload")
	v, ok := m.GetTemp(1, "draft")
	require.True(t, ok)
	require.Equal(t, "payload", v)

	m.SetTemp(1, "category_id", int64(42))
	id, ok := m.GetTempInt64(1, "category_id")
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	// wrong type does not satisfy the int64 accessor
	_, ok = m.GetTempInt64(1, "draft")
	require.False(t, ok)

	m.ClearTemp(1, "draft")
	_, ok = m.GetTemp(1, "draft")
	require.False(t, ok)
}

func TestClearDropsWholeSession(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(9, State("add_category:name"))
	m.SetTemp(9, "k", 1)
	m.Clear(9)

	require.Equal(t, StateIdle, m.GetState(9))
	_, ok := m.GetTemp(9, "k")
	require.False(t, ok)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, State("add_category:name"))
	require.True(t, m.InProgress(1))
	require.False(t, m.InProgress(2))

	m.SetTemp(1, "k", "a")
	_, ok := m.GetTemp(2, "k")
	require.False(t, ok)
}
