package reducers

import (
	"reflect"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

// State is an immutable, insertion-ordered tree of top-level values keyed by name.
//
// A nil *State stands for "no state yet". Every method is safe to call on a nil receiver.
// Methods that change something return a new *State and leave the receiver untouched,
// which is what makes pointer comparison a valid change check.
type State struct {
	keys   []string
	values map[string]any
}

// EmptyState returns a state without any keys.
func EmptyState() *State {
	return &State{values: make(map[string]any)}
}

// NewState builds a state from a plain map. Keys are ordered lexically since maps carry no order.
func NewState(values map[string]any) *State {
	s := &State{
		keys:   make([]string, 0, len(values)),
		values: make(map[string]any, len(values)),
	}

	for key, value := range values {
		s.keys = append(s.keys, key)
		s.values[key] = value
	}

	slices.Sort(s.keys)

	return s
}

// Lookup returns the value stored under key and whether the key exists.
func (s *State) Lookup(key string) (any, bool) {
	if s == nil {
		return nil, false
	}

	value, ok := s.values[key]

	return value, ok
}

// Value returns the value stored under key, or nil if the key does not exist.
func (s *State) Value(key string) any {
	value, _ := s.Lookup(key)

	return value
}

// Has reports whether key exists.
func (s *State) Has(key string) bool {
	_, ok := s.Lookup(key)

	return ok
}

// Keys returns the keys in insertion order.
func (s *State) Keys() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.keys)
}

// Len returns the number of keys.
func (s *State) Len() int {
	if s == nil {
		return 0
	}

	return len(s.keys)
}

// ToMap returns a shallow copy of the state as a plain map.
func (s *State) ToMap() map[string]any {
	m := make(map[string]any, s.Len())
	if s == nil {
		return m
	}

	for key, value := range s.values {
		m[key] = value
	}

	return m
}

// With returns a new state with key set to value.
func (s *State) With(key string, value any) *State {
	return s.overlay([]stateEntry{{key: key, value: value}})
}

type stateEntry struct {
	key   string
	value any
}

// overlay copies the state once and sets all entries on the copy. New keys are appended in entry order.
func (s *State) overlay(entries []stateEntry) *State {
	next := &State{
		keys:   make([]string, 0, s.Len()+len(entries)),
		values: make(map[string]any, s.Len()+len(entries)),
	}

	if s != nil {
		next.keys = append(next.keys, s.keys...)
		for key, value := range s.values {
			next.values[key] = value
		}
	}

	for _, entry := range entries {
		if _, exists := next.values[entry.key]; !exists {
			next.keys = append(next.keys, entry.key)
		}
		next.values[entry.key] = entry.value
	}

	return next
}

// MarshalJSON encodes the state as a JSON object, keeping insertion order.
func (s *State) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigFastest.BorrowStream(nil)
	defer jsoniter.ConfigFastest.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, key := range s.Keys() {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(key)
		stream.WriteVal(s.values[key])
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

// UnmarshalState decodes a JSON object into a new state, keeping the key order of the document.
// Nested values are decoded into plain Go values (map[string]any, []any, float64, string, bool, nil).
func UnmarshalState(data []byte) (*State, error) {
	iter := jsoniter.ConfigFastest.BorrowIterator(data)
	defer jsoniter.ConfigFastest.ReturnIterator(iter)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, ErrInvalidStateJSON
	}

	var entries []stateEntry
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		entries = append(entries, stateEntry{key: field, value: it.Read()})
		return true
	})

	if iter.Error != nil {
		return nil, ErrInvalidStateJSON
	}

	return EmptyState().overlay(entries), nil
}

// SameValue reports whether b is the same value as a in the reference sense used for change detection.
//
// Maps, slices, pointers, channels and funcs are the same when they point at the same memory.
// Structs and arrays are the same when all their fields or elements are. Other values are the same
// when they are equal.
func SameValue(a, b any) bool {
	return sameValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Slice:
		return a.Len() == b.Len() && a.Pointer() == b.Pointer()

	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()

	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}

		return sameValue(a.Elem(), b.Elem())

	case reflect.Struct:
		for i := range a.NumField() {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}

		return true

	case reflect.Array:
		for i := range a.Len() {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}

		return true

	default:
		return a.Equal(b)
	}
}
