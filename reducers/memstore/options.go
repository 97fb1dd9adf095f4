package memstore

import (
	"github.com/Silviu-Marian/reedux/reducers"
)

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithPreloadedState sets the state the store starts from, before the init action is reduced.
func WithPreloadedState(state *reducers.State) Option {
	return func(s *Store) error {
		s.state = state
		return nil
	}
}

// WithPreloadedStateJSON decodes a JSON object and uses it as the preloaded state.
func WithPreloadedStateJSON(data []byte) Option {
	return func(s *Store) error {
		state, err := reducers.UnmarshalState(data)
		if err != nil {
			return err
		}

		s.state = state

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: dispatched actions with their duration
// Info level: root transition replacements
// Warn level: rejected dispatches.
func WithLogger(logger reducers.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}
