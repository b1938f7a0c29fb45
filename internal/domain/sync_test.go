package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from SyncState
		to   SyncState
		want bool
	}{
		{SyncStateIdle, SyncStateResolvingAccount, true},
		{SyncStateResolvingAccount, SyncStateFetchingRemote, true},
		{SyncStateFetchingRemote, SyncStateReconciling, true},
		{SyncStateReconciling, SyncStateDone, true},
		{SyncStateFetchingRemote, SyncStateError, true},
		{SyncStateIdle, SyncStateFetchingRemote, false},
		{SyncStateResolvingAccount, SyncStateReconciling, false},
		{SyncStateDone, SyncStateError, false},
		{SyncStateError, SyncStateIdle, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSyncState_IsTerminal(t *testing.T) {
	assert.True(t, SyncStateDone.IsTerminal())
	assert.True(t, SyncStateError.IsTerminal())
	assert.False(t, SyncStateReconciling.IsTerminal())
}

func TestSyncOutcome_Succeeded(t *testing.T) {
	var nilOutcome *SyncOutcome

	assert.False(t, nilOutcome.Succeeded())
	assert.True(t, (&SyncOutcome{State: SyncStateDone}).Succeeded())
	assert.False(t, (&SyncOutcome{State: SyncStateError}).Succeeded())
}
