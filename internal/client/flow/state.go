// Package flow owns the screen-level state of the client: which step of the
// sign-in flow the user is on and what the signed-in user may do.
//
// All transitions go through Transition, a pure function, so the flow can be
// tested without any terminal or network.
package flow

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid transition")

type State int

const (
	Credentials State = iota
	Verifying
	Acknowledging
	Authenticated
	Deactivated
)

func (s State) String() string {
	switch s {
	case Credentials:
		return "credentials"
	case Verifying:
		return "verifying"
	case Acknowledging:
		return "acknowledging"
	case Authenticated:
		return "authenticated"
	case Deactivated:
		return "deactivated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Event int

const (
	Submitted Event = iota
	Back
	Verified
	Acknowledged
	Inactive
	Reactivated
	SignedOut
)

func (e Event) String() string {
	switch e {
	case Submitted:
		return "submitted"
	case Back:
		return "back"
	case Verified:
		return "verified"
	case Acknowledged:
		return "acknowledged"
	case Inactive:
		return "inactive"
	case Reactivated:
		return "reactivated"
	case SignedOut:
		return "signed-out"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

type edge struct {
	from State
	on   Event
}

var transitions = map[edge]State{
	{Credentials, Submitted}:      Verifying,
	{Verifying, Back}:             Credentials,
	{Verifying, Verified}:         Acknowledging,
	{Acknowledging, Acknowledged}: Authenticated,
	{Acknowledging, Inactive}:     Deactivated,
	{Acknowledging, SignedOut}:    Credentials,
	{Authenticated, SignedOut}:    Credentials,
	{Deactivated, Reactivated}:    Authenticated,
	{Deactivated, SignedOut}:      Credentials,
}

// Transition returns the state reached from s on e.
func Transition(s State, e Event) (State, error) {
	next, ok := transitions[edge{s, e}]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
	}
	return next, nil
}
