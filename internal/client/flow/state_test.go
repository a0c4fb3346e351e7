package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Valid(t *testing.T) {
	tests := []struct {
		from State
		on   Event
		want State
	}{
		{Credentials, Submitted, Verifying},
		{Verifying, Back, Credentials},
		{Verifying, Verified, Acknowledging},
		{Acknowledging, Acknowledged, Authenticated},
		{Acknowledging, Inactive, Deactivated},
		{Acknowledging, SignedOut, Credentials},
		{Authenticated, SignedOut, Credentials},
		{Deactivated, Reactivated, Authenticated},
		{Deactivated, SignedOut, Credentials},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.on.String(), func(t *testing.T) {
			got, err := Transition(tt.from, tt.on)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_InvalidKeepsState(t *testing.T) {
	states := []State{Credentials, Verifying, Acknowledging, Authenticated, Deactivated}
	events := []Event{Submitted, Back, Verified, Acknowledged, Inactive, Reactivated, SignedOut}

	valid := 0
	for _, s := range states {
		for _, e := range events {
			got, err := Transition(s, e)
			if err == nil {
				valid++
				continue
			}
			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, s, got)
		}
	}
	assert.Equal(t, len(transitions), valid)
}

func TestTransition_NoSessionWithoutVerification(t *testing.T) {
	// the only way into a signed-in state passes through Verified
	for _, e := range []Event{Submitted, Back, Acknowledged, Inactive, Reactivated, SignedOut} {
		got, _ := Transition(Credentials, e)
		assert.NotEqual(t, Authenticated, got)
		assert.NotEqual(t, Deactivated, got)
		got, _ = Transition(Verifying, e)
		assert.NotEqual(t, Authenticated, got)
		assert.NotEqual(t, Deactivated, got)
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "verifying", Verifying.String())
	assert.Equal(t, "state(99)", State(99).String())
	assert.Equal(t, "signed-out", SignedOut.String())
	assert.Equal(t, "event(99)", Event(99).String())
}
