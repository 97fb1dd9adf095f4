package reducers_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silviu-Marian/reedux/reducers"
	. "github.com/Silviu-Marian/reedux/testutil/helper" //nolint:revive
)

func Test_Bind_NilStore(t *testing.T) {
	var store *storeWithoutState

	binding, err := reducers.Bind(store)

	assert.ErrorIs(t, err, reducers.ErrNilStore)
	assert.Nil(t, binding)
}

func Test_Bind_NilRootTransitionOption(t *testing.T) {
	store := GivenStore(t)

	binding, err := reducers.Bind(store, reducers.WithRootTransition(nil))

	assert.ErrorIs(t, err, reducers.ErrNilRootTransition)
	assert.Nil(t, binding)
}

func Test_Bind_DoesNotTouchTheStore(t *testing.T) {
	store := &storeWithoutState{}

	_, err := reducers.Bind(store)
	require.NoError(t, err)

	assert.Zero(t, store.replaced, "Bind should not install a root transition")
}

func Test_DeclareSlice_InitialValueIsVisibleImmediately(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)

	binding.DeclareSlice("numbers", 0)

	assert.Equal(t, 0, store.GetState().Value("numbers"))
}

func Test_DeclareSlice_TwoSlicesOnEmptyState(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)

	binding.DeclareSlice("a", 1)
	binding.DeclareSlice("b", "two")

	state := store.GetState()
	assert.Equal(t, []string{"a", "b"}, state.Keys())
	assert.Equal(t, 1, state.Value("a"))
	assert.Equal(t, "two", state.Value("b"))
	assert.Equal(t, []string{"a", "b"}, binding.Slices())
}

func Test_DeclareSlice_NilInitialValueStillCreatesTheKey(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)

	binding.DeclareSlice("empty", nil)

	assert.True(t, store.GetState().Has("empty"))
	assert.Nil(t, store.GetState().Value("empty"))
}

func Test_Numbers_Scenario(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	GivenNumbersSlice(binding, "numbers", 0)

	expected := []int{1, 2, 4, 3}
	for i, actionType := range []reducers.ActionType{ActionIncrement, ActionIncrement, ActionPower, ActionDecrement} {
		WhenDispatched(t, store, actionType)

		assert.Equal(t, expected[i], store.GetState().Value("numbers"), "after %s", actionType)
	}
}

func Test_Numbers_Scenario_WithExistingRootTransition(t *testing.T) {
	existing := func(state *reducers.State, action reducers.Action) *reducers.State {
		n, _ := state.Value("numbers").(int)

		switch action.Type {
		case ActionIncrement:
			return state.With("numbers", n+1)
		case ActionDecrement:
			return state.With("numbers", n-1)
		default:
			return state
		}
	}

	store := GivenStore(t)
	binding := GivenBinding(t, store, reducers.WithRootTransition(existing))
	binding.DeclareSlice("numbers", 0).
		AddReducerForType(ActionPower, reducers.TypedReducer(func(n int, _ reducers.Action) int { return n * n }))

	assert.Equal(t, 0, store.GetState().Value("numbers"))

	expected := []int{1, 2, 4, 3}
	for i, actionType := range []reducers.ActionType{ActionIncrement, ActionIncrement, ActionPower, ActionDecrement} {
		WhenDispatched(t, store, actionType)

		assert.Equal(t, expected[i], store.GetState().Value("numbers"), "after %s", actionType)
	}
}

func Test_Slice_TypedReducersRunBeforeUnconditionalOnes(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	trail := binding.DeclareSlice("trail", "")

	trail.AddUnconditionalReducer(appendTo("u1"))
	trail.AddReducerForType("X", appendTo("t1"))
	trail.AddUnconditionalReducer(appendTo("u2"))
	trail.AddReducerForType("X", appendTo("t2"))
	trail.AddReducerForType("Y", appendTo("y"))

	WhenDispatched(t, store, "X")

	assert.Equal(t, "t1t2u1u2", store.GetState().Value("trail"))
	assert.Equal(t, 5, trail.ReducerCount())
}

func Test_Slice_ActionWithoutTypeOnlyRunsUnconditionalReducers(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	trail := binding.DeclareSlice("trail", "")
	trail.AddReducerForType("X", appendTo("t"))
	trail.AddUnconditionalReducer(appendTo("u"))

	require.NoError(t, store.Dispatch(reducers.Action{Payload: "ignored"}))

	assert.Equal(t, "u", store.GetState().Value("trail"))
}

func Test_Slice_EmptyActionTypeRegistersUnconditionalReducer(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	trail := binding.DeclareSlice("trail", "")

	trail.AddReducerForType("", appendTo("u"))

	WhenDispatched(t, store, "ANY")
	assert.Equal(t, "u", store.GetState().Value("trail"))
}

func Test_Slice_ReducersReceiveThePayload(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	total := binding.DeclareSlice("total", 0)
	total.AddReducerForType("ADD", reducers.TypedReducer(func(n int, action reducers.Action) int {
		amount, _ := action.Payload.(int)
		return n + amount
	}))

	require.NoError(t, store.Dispatch(reducers.Action{Type: "ADD", Payload: 5}))
	require.NoError(t, store.Dispatch(reducers.Action{Type: "ADD", Payload: 7}))

	assert.Equal(t, 12, store.GetState().Value("total"))
}

func Test_Slice_Name(t *testing.T) {
	binding := GivenBinding(t, GivenStore(t))

	assert.Equal(t, "numbers", binding.DeclareSlice("numbers", 0).Name())
}

func Test_Transition_UnchangedStateKeepsItsIdentity(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	GivenNumbersSlice(binding, "numbers", 0)
	before := store.GetState()

	WhenDispatched(t, store, "UNKNOWN")

	assert.Same(t, before, store.GetState(), "a no-op action should keep the same state pointer")
}

func Test_Transition_NonComparableSliceValueKeepsStateIdentity(t *testing.T) {
	type settings struct {
		Tags []string
	}

	store := GivenStore(t)
	binding := GivenBinding(t, store)
	binding.DeclareSlice("settings", settings{Tags: []string{"a"}})
	passThrough := binding.DeclareSlice("passThrough", settings{Tags: []string{"b"}})
	passThrough.AddUnconditionalReducer(func(value any, _ reducers.Action) any { return value })
	before := store.GetState()

	WhenDispatched(t, store, "UNRELATED")

	assert.Same(t, before, store.GetState(), "structs holding the same slice should count as unchanged")
}

func Test_Transition_ChangedStateIsANewTree(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	GivenNumbersSlice(binding, "numbers", 0)
	before := store.GetState()

	WhenDispatched(t, store, ActionIncrement)

	assert.NotSame(t, before, store.GetState())
	assert.Equal(t, 0, before.Value("numbers"), "the previous state should not be mutated")
}

func Test_Transition_ReferenceTypedSliceWithSameReferenceIsUnchanged(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	items := binding.DeclareSlice("items", map[string]int{})
	items.AddReducerForType("PUT", func(value any, action reducers.Action) any {
		current, _ := value.(map[string]int)
		next := make(map[string]int, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[action.Payload.(string)]++

		return next
	})
	items.AddUnconditionalReducer(func(value any, _ reducers.Action) any { return value })
	before := store.GetState()

	WhenDispatched(t, store, "NOOP")
	assert.Same(t, before, store.GetState())

	require.NoError(t, store.Dispatch(reducers.Action{Type: "PUT", Payload: "x"}))
	assert.Equal(t, map[string]int{"x": 1}, store.GetState().Value("items"))
}

func Test_WithRootTransition_RunsBeneathTheSlices(t *testing.T) {
	legacy := func(state *reducers.State, action reducers.Action) *reducers.State {
		switch action.Type {
		case "SET_LEGACY":
			return state.With("legacy", action.Payload)
		case "RESET_NUMBERS":
			return state.With("numbers", 100)
		default:
			return state
		}
	}

	store := GivenStore(t)
	binding := GivenBinding(t, store, reducers.WithRootTransition(legacy))
	GivenNumbersSlice(binding, "numbers", 0)

	require.NoError(t, store.Dispatch(reducers.Action{Type: "SET_LEGACY", Payload: "kept"}))
	WhenDispatched(t, store, ActionIncrement)

	state := store.GetState()
	assert.Equal(t, "kept", state.Value("legacy"))
	assert.Equal(t, 1, state.Value("numbers"))
	assert.Equal(t, []string{"numbers", "legacy"}, state.Keys())

	WhenDispatched(t, store, "RESET_NUMBERS")
	assert.Equal(t, 100, store.GetState().Value("numbers"), "slices should start from the value produced beneath them")

	WhenDispatched(t, store, ActionIncrement)
	assert.Equal(t, 101, store.GetState().Value("numbers"))
}

func Test_WithRootTransition_DroppedSliceKeyFallsBackToIncomingState(t *testing.T) {
	legacy := func(_ *reducers.State, action reducers.Action) *reducers.State {
		return reducers.EmptyState().With("legacy", action.Type)
	}

	store := GivenStore(t)
	binding := GivenBinding(t, store, reducers.WithRootTransition(legacy))
	GivenNumbersSlice(binding, "numbers", 0)

	WhenDispatched(t, store, ActionIncrement)
	WhenDispatched(t, store, ActionIncrement)

	state := store.GetState()
	assert.Equal(t, 2, state.Value("numbers"), "a slice missing from the root's result should continue from the incoming state")
	assert.Equal(t, ActionIncrement, state.Value("legacy"))
}

func Test_WithRootTransition_ViaLaterBindIsUsedByNextDeclaration(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	GivenNumbersSlice(binding, "numbers", 0)

	GivenBinding(t, store, reducers.WithRootTransition(func(state *reducers.State, action reducers.Action) *reducers.State {
		if action.Type == "MARK" {
			return state.With("marked", true)
		}
		return state
	}))

	WhenDispatched(t, store, "MARK")
	assert.False(t, store.GetState().Has("marked"), "the installed transition was composed before the option was supplied")

	binding.DeclareSlice("other", "x")
	WhenDispatched(t, store, "MARK")
	assert.Equal(t, true, store.GetState().Value("marked"))
}

func Test_Bind_SameStoreSharesTheRegistry(t *testing.T) {
	store := GivenStore(t)
	first := GivenBinding(t, store)
	GivenNumbersSlice(first, "numbers", 0)

	second := GivenBinding(t, store)
	second.DeclareSlice("other", "x")

	assert.Equal(t, first.RegistryID(), second.RegistryID())
	assert.Equal(t, []string{"numbers", "other"}, first.Slices())

	WhenDispatched(t, store, ActionIncrement)
	assert.Equal(t, 1, store.GetState().Value("numbers"), "reducers registered through the first binding should survive the second declaration")
}

func Test_Bind_DistinctStoresNeverShare(t *testing.T) {
	storeA, storeB := GivenStore(t), GivenStore(t)
	bindingA, bindingB := GivenBinding(t, storeA), GivenBinding(t, storeB)

	GivenNumbersSlice(bindingA, "numbers", 0)

	assert.NotEqual(t, bindingA.RegistryID(), bindingB.RegistryID())
	assert.Empty(t, bindingB.Slices())
	assert.False(t, storeB.GetState().Has("numbers"))
}

func Test_Release(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	GivenNumbersSlice(binding, "numbers", 0)

	assert.True(t, reducers.Release(store))
	assert.False(t, reducers.Release(store), "a second release should find nothing")

	WhenDispatched(t, store, ActionIncrement)
	assert.Equal(t, 1, store.GetState().Value("numbers"), "the installed transition should keep working")

	rebound := GivenBinding(t, store)
	assert.NotEqual(t, binding.RegistryID(), rebound.RegistryID())
	assert.Empty(t, rebound.Slices())
}

func Test_DeclareSlice_RedeclareKeepsReducersAndValue(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	GivenNumbersSlice(binding, "numbers", 0)
	WhenDispatched(t, store, ActionIncrement)

	numbers := binding.DeclareSlice("numbers", 50)

	assert.Equal(t, 1, store.GetState().Value("numbers"), "a stored value should win over the new initial value")
	assert.Equal(t, 3, numbers.ReducerCount())
	assert.Equal(t, []string{"numbers"}, binding.Slices())

	WhenDispatched(t, store, ActionIncrement)
	assert.Equal(t, 2, store.GetState().Value("numbers"))
}

func Test_DeclareSlice_FromInsideAReducer(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	trigger := binding.DeclareSlice("trigger", 0)
	trigger.AddReducerForType("SPAWN", func(value any, _ reducers.Action) any {
		binding.DeclareSlice("spawned", "hello")
		return value
	})

	WhenDispatched(t, store, "SPAWN")

	assert.Equal(t, "hello", store.GetState().Value("spawned"), "the slice should be visible once the dispatch declaring it returns")
	assert.Equal(t, []string{"trigger", "spawned"}, binding.Slices())
}

func Test_DeclareSlice_DuringConcurrentDispatch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	store := GivenStore(t)
	binding := GivenBinding(t, store)
	binding.DeclareSlice("slow", 0).AddReducerForType("SLOW", func(value any, _ reducers.Action) any {
		close(entered)
		<-release
		return value
	})

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Dispatch(reducers.Action{Type: "SLOW"}))
	}()

	<-entered
	binding.DeclareSlice("late", "hello")
	close(release)
	wg.Wait()

	assert.Equal(t, "hello", store.GetState().Value("late"), "the initial value should not be lost to the running dispatch")
	assert.Equal(t, []string{"slow", "late"}, store.GetState().Keys())
}

func Test_Transition_PanickingReducerPropagates(t *testing.T) {
	store := GivenStore(t)
	binding := GivenBinding(t, store)
	numbers := GivenNumbersSlice(binding, "numbers", 0)
	numbers.AddReducerForType("BOOM", func(any, reducers.Action) any { panic("boom") })
	before := store.GetState()

	assert.PanicsWithValue(t, "boom", func() { _ = store.Dispatch(reducers.Action{Type: "BOOM"}) })

	assert.Same(t, before, store.GetState(), "a panicking dispatch should leave the state untouched")

	WhenDispatched(t, store, ActionIncrement)
	assert.Equal(t, 1, store.GetState().Value("numbers"), "the store should accept dispatches after a panic")
}

func Test_TypedReducer_NonMatchingValueBecomesZero(t *testing.T) {
	reducer := reducers.TypedReducer(func(n int, _ reducers.Action) int { return n + 1 })

	assert.Equal(t, 1, reducer(nil, reducers.Action{}))
	assert.Equal(t, 1, reducer("not a number", reducers.Action{}))
	assert.Equal(t, 6, reducer(5, reducers.Action{}))
}

func Test_IdentityTransition(t *testing.T) {
	state := reducers.EmptyState().With("a", 1)

	assert.Same(t, state, reducers.IdentityTransition(state, reducers.Action{Type: "X"}))
	assert.Nil(t, reducers.IdentityTransition(nil, reducers.Action{}))
}

func Test_Action_HasType(t *testing.T) {
	assert.True(t, reducers.Action{Type: "X"}.HasType())
	assert.False(t, reducers.Action{Payload: 1}.HasType())
}

func appendTo(marker string) reducers.Reducer {
	return reducers.TypedReducer(func(trail string, _ reducers.Action) string {
		return trail + marker
	})
}

// storeWithoutState records root replacements without ever running them.
type storeWithoutState struct {
	replaced int
}

func (s *storeWithoutState) GetState() *reducers.State { return nil }

func (s *storeWithoutState) Dispatch(reducers.Action) error { return nil }

func (s *storeWithoutState) ReplaceReducer(reducers.RootTransition) { s.replaced++ }
