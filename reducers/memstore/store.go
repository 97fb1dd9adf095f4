package memstore

import (
	"errors"
	"sync"
	"time"

	"github.com/Silviu-Marian/reedux/reducers"
)

// ErrDispatchInProgress is returned when an action is dispatched while another one is being reduced.
var ErrDispatchInProgress = errors.New("dispatch already in progress, reducers may not dispatch actions")

const (
	logMsgDispatched       = "action dispatched"
	logMsgDispatchRejected = "dispatch rejected"
	logMsgReducerReplaced  = "root transition replaced"
	logAttrActionType      = "action_type"
	logAttrChanged         = "changed"
	logAttrDurationMS      = "duration_ms"
	logAttrError           = "error"
	logAttrDeferred        = "deferred"
)

// Store is an in-memory state container. It is safe for concurrent use, dispatches are not
// queued: a Dispatch during another one fails with ErrDispatchInProgress.
type Store struct {
	mu             sync.Mutex
	state          *reducers.State
	root           reducers.RootTransition
	dispatching    bool
	replacePending bool
	logger         reducers.Logger
}

// New creates a Store running root and reduces reducers.ActionInit once.
func New(root reducers.RootTransition, options ...Option) (*Store, error) {
	if root == nil {
		return nil, reducers.ErrNilRootTransition
	}

	s := &Store{root: root}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	if err := s.Dispatch(reducers.Action{Type: reducers.ActionInit}); err != nil {
		return nil, err
	}

	return s, nil
}

// GetState returns the current state tree.
func (s *Store) GetState() *reducers.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Dispatch reduces action with the installed root transition and keeps the result
// when it is a different state. A panicking reducer aborts the dispatch and the panic propagates.
//
// When the root transition was replaced while action was being reduced, reducers.ActionReplace is
// reduced with the new root before Dispatch returns.
func (s *Store) Dispatch(action reducers.Action) error {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		s.logWarn(logMsgDispatchRejected, logAttrActionType, action.Type, logAttrError, ErrDispatchInProgress.Error())

		return ErrDispatchInProgress
	}
	s.dispatching = true
	s.mu.Unlock()

	s.reduce(action)

	return nil
}

// ReplaceReducer installs root and reduces reducers.ActionReplace with it.
// During a dispatch, the replace action is reduced once that dispatch is done.
func (s *Store) ReplaceReducer(root reducers.RootTransition) {
	if root == nil {
		s.logWarn(logMsgReducerReplaced, logAttrError, reducers.ErrNilRootTransition.Error())
		return
	}

	s.mu.Lock()
	s.root = root
	if s.dispatching {
		s.replacePending = true
		s.mu.Unlock()
		s.logInfo(logMsgReducerReplaced, logAttrDeferred, true)

		return
	}
	s.dispatching = true
	s.mu.Unlock()

	s.logInfo(logMsgReducerReplaced, logAttrDeferred, false)

	s.reduce(reducers.Action{Type: reducers.ActionReplace})
}

// reduce must be called with s.dispatching set. It clears the flag when done, after reducing
// every replace action requested in the meantime.
func (s *Store) reduce(action reducers.Action) {
	done := false
	defer func() {
		if !done {
			s.mu.Lock()
			s.dispatching = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		root, previous := s.root, s.state
		s.mu.Unlock()

		start := time.Now()
		next := root(previous, action)
		duration := time.Since(start)

		changed := next != previous

		s.mu.Lock()
		if changed {
			s.state = next
		}
		replacePending := s.replacePending
		s.replacePending = false
		if !replacePending {
			s.dispatching = false
			done = true
		}
		s.mu.Unlock()

		s.logDebug(logMsgDispatched, logAttrActionType, action.Type, logAttrChanged, changed, logAttrDurationMS, duration.Milliseconds())

		if !replacePending {
			return
		}

		action = reducers.Action{Type: reducers.ActionReplace}
	}
}

func (s *Store) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Store) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

var _ reducers.Store = (*Store)(nil)
