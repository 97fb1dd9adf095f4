// Package memstore provides an in-memory implementation of the reducers.Store interface.
//
// It is a deliberately small state container: it holds one state tree, runs the installed root
// transition once per dispatched action, and keeps the result when it is a different *State.
// Middleware, subscriptions and persistence are out of its scope.
//
// Replacing the root transition dispatches reducers.ActionReplace, so slices declared through a
// reducers.Binding show their initial values in GetState right away.
//
// Usage examples:
//
//	store, _ := memstore.New(rootTransition)
//
//	// Starting from a preloaded state and logging operations
//	store, _ := memstore.New(
//		rootTransition,
//		memstore.WithPreloadedStateJSON([]byte(`{"numbers":0}`)),
//		memstore.WithLogger(slog.Default()),
//	)
//
//	binding, _ := reducers.Bind(store)
//	numbers := binding.DeclareSlice("numbers", 0)
//	err := store.Dispatch(reducers.Action{Type: "INC"})
package memstore
