package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition requested status change is not allowed from the current status
var ErrInvalidTransition = errors.New("domain: invalid status transition")

// TransitionError names the entity and both states of a rejected transition
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func NewTransitionError(entity, from, to string) *TransitionError {
	return &TransitionError{Entity: entity, From: from, To: to}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition from %q to %q", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
