package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFireRunsHooksInOrderUntilHandled(t *testing.T) {
	tbl := NewTable()
	var order []int

	tbl.Register(EventChatMessage, func(Args) (bool, error) {
		order = append(order, 1)
		return false, nil
	})
	tbl.Register(EventChatMessage, func(Args) (bool, error) {
		order = append(order, 2)
		return true, nil
	})
	tbl.Register(EventChatMessage, func(Args) (bool, error) {
		order = append(order, 3)
		return false, nil
	})

	handled, err := tbl.Fire(EventChatMessage, Args{"text": "hi"})
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, []int{1, 2}, order)
}

func TestFireWithNoHooksIsUnhandled(t *testing.T) {
	tbl := NewTable()
	handled, err := tbl.Fire(EventPlayerLogin, nil)
	require.NoError(t, err)
	require.False(t, handled)
}

func TestFirePropagatesHandlerError(t *testing.T) {
	tbl := NewTable()
	boom := errors.New("boom")
	tbl.Register(EventEnemyKill, func(Args) (bool, error) { return false, boom })

	_, err := tbl.Fire(EventEnemyKill, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
}

func TestHasHooksAndUnregister(t *testing.T) {
	tbl := NewTable()
	require.False(t, tbl.HasHooks(EventItemDrop))

	tbl.Register(EventItemDrop, func(Args) (bool, error) { return false, nil })
	require.True(t, tbl.HasHooks(EventItemDrop))

	tbl.Unregister(EventItemDrop)
	require.False(t, tbl.HasHooks(EventItemDrop))
}
