package reducers

import (
	"errors"
)

var ErrNilStore = errors.New("nil store supplied")
var ErrNilRootTransition = errors.New("nil root transition supplied")
var ErrInvalidStateJSON = errors.New("state json is not a valid object")

// ActionType is the discriminator selecting which typed reducers fire for an Action.
type ActionType = string

const (
	// ActionInit is dispatched by stores when they are created.
	ActionInit ActionType = "@@reedux/INIT"

	// ActionReplace is dispatched by stores after their root transition was replaced.
	ActionReplace ActionType = "@@reedux/REPLACE"
)

// Action is the value dispatched to a store.
//
// An empty Type means the action carries no discriminator, so only unconditional reducers fire.
// Payload is opaque and passed through untouched.
type Action struct {
	Type    ActionType
	Payload any
}

// HasType reports whether the action carries a discriminator.
func (a Action) HasType() bool {
	return a.Type != ""
}
