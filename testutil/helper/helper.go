package helper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Silviu-Marian/reedux/reducers"
	"github.com/Silviu-Marian/reedux/reducers/memstore"
)

// Action types used by the arithmetic test reducers.
const (
	ActionIncrement reducers.ActionType = "INC"
	ActionDecrement reducers.ActionType = "DEC"
	ActionPower     reducers.ActionType = "POW"
)

func GivenStore(t testing.TB, options ...memstore.Option) *memstore.Store {
	store, err := memstore.New(reducers.IdentityTransition, options...)
	require.NoError(t, err, "error in arranging test data")

	return store
}

func GivenBinding(t testing.TB, store *memstore.Store, options ...reducers.Option) *reducers.Binding {
	binding, err := reducers.Bind(store, options...)
	require.NoError(t, err, "error in arranging test data")

	return binding
}

// GivenNumbersSlice declares slice with initialValue and the arithmetic reducers used throughout the tests:
// INC adds one, DEC subtracts one, POW squares.
func GivenNumbersSlice(binding *reducers.Binding, name string, initialValue int) *reducers.Slice {
	slice := binding.DeclareSlice(name, initialValue)

	slice.AddReducerForType(ActionIncrement, reducers.TypedReducer(func(n int, _ reducers.Action) int { return n + 1 }))
	slice.AddReducerForType(ActionDecrement, reducers.TypedReducer(func(n int, _ reducers.Action) int { return n - 1 }))
	slice.AddReducerForType(ActionPower, reducers.TypedReducer(func(n int, _ reducers.Action) int { return n * n }))

	return slice
}

func WhenDispatched(t testing.TB, store reducers.Store, actionTypes ...reducers.ActionType) {
	for _, actionType := range actionTypes {
		require.NoError(t, store.Dispatch(reducers.Action{Type: actionType}), "error dispatching %q", actionType)
	}
}
