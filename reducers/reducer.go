package reducers

// Reducer computes the next value of a slice from its previous value and an action.
// Reducers must not mutate the value they receive; returning it unchanged signals "no change".
type Reducer func(value any, action Action) any

// RootTransition computes the next whole state tree from the previous one and an action.
// The previous state is nil before the first action was reduced.
type RootTransition func(state *State, action Action) *State

// IdentityTransition is the root transition used when no existing one was supplied.
func IdentityTransition(state *State, _ Action) *State {
	return state
}

// TypedReducer adapts a reducer working on T to a Reducer.
// When the slice value is not a T (e.g. nil), fn receives the zero value of T.
func TypedReducer[T any](fn func(value T, action Action) T) Reducer {
	return func(value any, action Action) any {
		typed, _ := value.(T)
		return fn(typed, action)
	}
}

// foldReducers applies reducers in order, each one consuming the result of the previous one.
func foldReducers(value any, action Action, reducers []Reducer) any {
	for _, reducer := range reducers {
		value = reducer(value, action)
	}

	return value
}
