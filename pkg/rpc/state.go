package rpc

import (
	"fmt"
	"slices"
)

// State is a point in the lifecycle of a request or an inbound envelope.
// Outbound requests move Built → Signed → Sent; inbound envelopes move
// Received → Parsed → Verified or Rejected. No state is ever left backwards.
type State uint32

const (
	StateBuilt State = iota + 1
	StateSigned
	StateSent
	StateReceived
	StateParsed
	StateVerified
	StateRejected
)

var transitions = map[State][]State{
	StateBuilt:    {StateSigned},
	StateSigned:   {StateSent},
	StateReceived: {StateParsed, StateRejected},
	StateParsed:   {StateVerified, StateRejected},
}

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateSigned:
		return "signed"
	case StateSent:
		return "sent"
	case StateReceived:
		return "received"
	case StateParsed:
		return "parsed"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// CanTransition reports whether to directly follows s.
func (s State) CanTransition(to State) bool {
	return slices.Contains(transitions[s], to)
}

// IsFinal reports whether no transition leaves s.
func (s State) IsFinal() bool {
	return len(transitions[s]) == 0
}
