package reducers

// Slice attaches reducers to one declared slice of the state tree.
//
// Reducers are shared with every composed root transition of the store, so they take effect on the
// next dispatched action without the root transition being reinstalled.
type Slice struct {
	name     string
	registry *registry
}

// Name returns the slice's key in the state tree.
func (s *Slice) Name() string {
	return s.name
}

// AddUnconditionalReducer appends reducer to the reducers that run for every action.
// They run in registration order, after the typed reducers of the action's type.
func (s *Slice) AddUnconditionalReducer(reducer Reducer) {
	s.registry.mu.Lock()
	s.registry.unconditional[s.name] = append(s.registry.unconditional[s.name], reducer)
	s.registry.mu.Unlock()

	s.registry.observeReducerAdded(s.name, "")
}

// AddReducerForType appends reducer to the reducers that run for actions of actionType.
// They run in registration order, before the unconditional reducers.
// An empty actionType registers an unconditional reducer.
func (s *Slice) AddReducerForType(actionType ActionType, reducer Reducer) {
	if actionType == "" {
		s.AddUnconditionalReducer(reducer)
		return
	}

	s.registry.mu.Lock()
	byType := s.registry.typed[s.name]
	byType[actionType] = append(byType[actionType], reducer)
	s.registry.mu.Unlock()

	s.registry.observeReducerAdded(s.name, actionType)
}

// ReducerCount returns the number of reducers attached to the slice, typed and unconditional.
func (s *Slice) ReducerCount() int {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	count := len(s.registry.unconditional[s.name])
	for _, reducers := range s.registry.typed[s.name] {
		count += len(reducers)
	}

	return count
}
