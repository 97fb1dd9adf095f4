// Package reducers layers dynamic, incremental reducer registration on top of a running store.
//
// A store holds a single state tree and runs one root transition per dispatched action.
// This package lets callers declare named slices of that tree, and attach reducers to them,
// after the store already exists:
//
//	binding, err := reducers.Bind(store, reducers.WithRootTransition(existingRoot))
//	if err != nil {
//		// handle error
//	}
//
//	numbers := binding.DeclareSlice("numbers", 0) // visible in store.GetState() right away
//	numbers.AddReducerForType("POW", reducers.TypedReducer(func(n int, _ reducers.Action) int {
//		return n * n
//	}))
//	numbers.AddUnconditionalReducer(logEveryAction)
//
//	_ = store.Dispatch(reducers.Action{Type: "POW"})
//
// Key types:
//   - Binding: a handle on the registry of one store; binding the same store again shares it
//   - Slice: attaches typed or unconditional reducers to one declared slice
//   - State: an immutable tree, compared by pointer to detect changes
//   - Action: a Type discriminator plus an opaque Payload
//
// For every action, a slice runs the reducers registered for the action's type and then its
// unconditional reducers, each group in registration order. The store's existing root transition,
// when supplied, runs first. When no layer produced a different value, the incoming *State is
// returned unchanged.
package reducers
