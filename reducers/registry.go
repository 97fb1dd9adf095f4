package reducers

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/google/uuid"
)

// Store is the state container slices are layered onto.
//
// The registry only ever calls ReplaceReducer. It relies on the store invoking the installed
// root transition exactly once per dispatched action and keeping the result as the new state.
type Store interface {
	GetState() *State
	Dispatch(action Action) error
	ReplaceReducer(root RootTransition)
}

// registries associates registry state with store identities.
// Keys are weak pointers, so an entry never keeps its store alive.
var (
	registriesMu sync.Mutex
	registries   = make(map[any]*registry)
)

type registry struct {
	id  string
	obs atomic.Pointer[observers]

	mu               sync.RWMutex
	order            []string
	sliceTransitions map[string]sliceTransition
	unconditional    map[string][]Reducer
	typed            map[string]map[ActionType][]Reducer
	rootTransition   RootTransition

	cleanup runtime.Cleanup
}

// sliceTransition computes the next value of one slice. ok is false when the slice key is absent.
type sliceTransition func(previous any, ok bool, action Action) any

type declaredSlice struct {
	name       string
	transition sliceTransition
}

func newRegistry() *registry {
	r := &registry{
		id:               uuid.NewString(),
		sliceTransitions: make(map[string]sliceTransition),
		unconditional:    make(map[string][]Reducer),
		typed:            make(map[string]map[ActionType][]Reducer),
		rootTransition:   IdentityTransition,
	}
	r.obs.Store(&observers{})

	return r
}

// Binding ties a store to its registry. All Bindings of one store share the same registry.
type Binding struct {
	store    Store
	registry *registry
}

// Bind looks up or creates the registry associated with store and returns a Binding to it.
//
// Registries are keyed by store identity: binding the same store twice yields Bindings that share
// slices and reducers, while two distinct stores never share anything. The registry is dropped
// when the store is garbage collected, or earlier via Release.
//
// Bind does not touch the store; the root transition is only installed by DeclareSlice.
//
// The store must be passed as its concrete pointer type (e.g. *memstore.Store), since that pointer
// is the identity registries are keyed by. A value only known as a reducers.Store interface cannot
// be bound; keep the concrete pointer around for Bind and Release.
func Bind[S any, P interface {
	*S
	Store
}](store P, options ...Option) (*Binding, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	cfg := bindConfig{}
	for _, option := range options {
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}

	reg, created := registryFor((*S)(store))
	reg.configure(cfg)
	reg.logBound(created, cfg.rootTransition != nil)

	return &Binding{store: store, registry: reg}, nil
}

// Release drops the registry associated with store. It reports whether there was one.
// Root transitions already installed on the store keep working; a later Bind starts from scratch.
func Release[S any, P interface {
	*S
	Store
}](store P) bool {
	if store == nil {
		return false
	}

	key := weak.Make((*S)(store))

	registriesMu.Lock()
	reg, ok := registries[key]
	delete(registries, key)
	registriesMu.Unlock()

	if ok {
		reg.cleanup.Stop()
	}

	return ok
}

func registryFor[S any](store *S) (*registry, bool) {
	key := weak.Make(store)

	registriesMu.Lock()
	defer registriesMu.Unlock()

	if reg, ok := registries[key]; ok {
		return reg, false
	}

	reg := newRegistry()
	reg.cleanup = runtime.AddCleanup(store, forgetRegistry[S], key)
	registries[key] = reg

	return reg, true
}

func forgetRegistry[S any](key weak.Pointer[S]) {
	registriesMu.Lock()
	defer registriesMu.Unlock()

	delete(registries, key)
}

func (r *registry) configure(cfg bindConfig) {
	if cfg.rootTransition != nil {
		r.mu.Lock()
		r.rootTransition = cfg.rootTransition
		r.mu.Unlock()
	}

	next := *r.obs.Load()
	if cfg.logger != nil {
		next.logger = cfg.logger
	}
	if cfg.contextualLogger != nil {
		next.contextualLogger = cfg.contextualLogger
	}
	if cfg.metricsCollector != nil {
		next.metricsCollector = cfg.metricsCollector
	}
	if cfg.tracingCollector != nil {
		next.tracingCollector = cfg.tracingCollector
	}
	r.obs.Store(&next)
}

// RegistryID returns the identifier of the registry this Binding is attached to.
func (b *Binding) RegistryID() string {
	return b.registry.id
}

// Slices returns the declared slice names in declaration order.
func (b *Binding) Slices() []string {
	b.registry.mu.RLock()
	defer b.registry.mu.RUnlock()

	return append([]string(nil), b.registry.order...)
}

// DeclareSlice declares the slice name with initialValue and installs a freshly composed root
// transition on the store. It returns the Slice used to attach reducers.
//
// Redeclaring a name keeps its reducers and its position, but replaces the slice's initial value.
// The initial value only applies while no value is stored under name.
func (b *Binding) DeclareSlice(name string, initialValue any) *Slice {
	reg := b.registry
	ctx, span := reg.startDeclareSliceSpan(name)

	reg.mu.Lock()
	redeclared := reg.declare(name, initialValue)
	root := reg.composeRootTransition()
	sliceCount := len(reg.order)
	reg.mu.Unlock()

	b.store.ReplaceReducer(root)

	reg.observeSliceDeclared(ctx, span, name, redeclared, sliceCount)

	return &Slice{name: name, registry: reg}
}

// declare must be called with r.mu held.
func (r *registry) declare(name string, initialValue any) bool {
	_, redeclared := r.sliceTransitions[name]
	if !redeclared {
		r.order = append(r.order, name)
	}

	r.sliceTransitions[name] = r.newSliceTransition(name, initialValue)

	if _, ok := r.unconditional[name]; !ok {
		r.unconditional[name] = make([]Reducer, 0)
	}

	if _, ok := r.typed[name]; !ok {
		r.typed[name] = make(map[ActionType][]Reducer)
	}

	return redeclared
}

// newSliceTransition folds the typed reducers for the action's type, then the unconditional ones.
// Reducer lists are looked up on every call, so reducers added later are picked up without
// recomposing anything.
func (r *registry) newSliceTransition(name string, initialValue any) sliceTransition {
	return func(previous any, ok bool, action Action) any {
		if !ok {
			previous = initialValue
		}

		typed, unconditional := r.reducersFor(name, action.Type)
		if len(typed) == 0 && len(unconditional) == 0 {
			return previous
		}

		next := foldReducers(previous, action, typed)

		return foldReducers(next, action, unconditional)
	}
}

// reducersFor returns the current reducer lists. No reducer runs while the lock is held,
// so reducers may declare slices or register reducers themselves.
func (r *registry) reducersFor(name string, actionType ActionType) (typed, unconditional []Reducer) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if actionType != "" {
		typed = r.typed[name][actionType]
	}

	return typed, r.unconditional[name]
}

func (r *registry) declaredSlices() []declaredSlice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	declared := make([]declaredSlice, 0, len(r.order))
	for _, name := range r.order {
		declared = append(declared, declaredSlice{name: name, transition: r.sliceTransitions[name]})
	}

	return declared
}

// composeRootTransition must be called with r.mu held.
//
// The composed transition runs the root transition stored at composition time, then every declared
// slice on top of its result. It returns the incoming state pointer unless some layer produced a
// different value, so stores and their consumers can rely on pointer comparison.
func (r *registry) composeRootTransition() RootTransition {
	base := r.rootTransition

	return func(state *State, action Action) *State {
		started := time.Now()
		ctx, span := r.startTransitionSpan(action)
		defer r.observeTransitionPanic(ctx, span)

		if state == nil {
			state = EmptyState()
		}

		candidate := base(state, action)
		changed := candidate != state

		declared := r.declaredSlices()
		entries := make([]stateEntry, 0, len(declared))

		for _, slice := range declared {
			previous, ok := candidate.Lookup(slice.name)
			if !ok {
				previous, ok = state.Lookup(slice.name)
			}

			next := slice.transition(previous, ok, action)
			if !ok || !SameValue(previous, next) {
				changed = true
			}

			entries = append(entries, stateEntry{key: slice.name, value: next})
		}

		r.observeTransition(ctx, span, action, changed, len(declared), time.Since(started))

		if !changed {
			return state
		}

		return candidate.overlay(entries)
	}
}
