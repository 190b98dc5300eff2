package rpc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		from, to rpc.State
		allowed  bool
	}{
		{rpc.StateBuilt, rpc.StateSigned, true},
		{rpc.StateSigned, rpc.StateSent, true},
		{rpc.StateBuilt, rpc.StateSent, false},
		{rpc.StateSent, rpc.StateSigned, false},
		{rpc.StateSigned, rpc.StateBuilt, false},
		{rpc.StateReceived, rpc.StateParsed, true},
		{rpc.StateReceived, rpc.StateRejected, true},
		{rpc.StateReceived, rpc.StateVerified, false},
		{rpc.StateParsed, rpc.StateVerified, true},
		{rpc.StateParsed, rpc.StateRejected, true},
		{rpc.StateVerified, rpc.StateRejected, false},
		{rpc.StateRejected, rpc.StateVerified, false},
		{rpc.StateSent, rpc.StateReceived, false},
	}

	for _, tc := range tcs {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to))
		})
	}

	for _, s := range []rpc.State{rpc.StateSent, rpc.StateVerified, rpc.StateRejected} {
		assert.True(t, s.IsFinal(), s.String())
	}
	for _, s := range []rpc.State{rpc.StateBuilt, rpc.StateSigned, rpc.StateReceived, rpc.StateParsed} {
		assert.False(t, s.IsFinal(), s.String())
	}
	assert.Equal(t, "State(42)", rpc.State(42).String())
}
