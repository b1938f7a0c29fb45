package domain

import (
	"fmt"
	"time"
)

// SyncState representa a etapa de sincronização de uma conta
type SyncState string

const (
	SyncStateIdle             SyncState = "IDLE"
	SyncStateResolvingAccount SyncState = "RESOLVING_ACCOUNT"
	SyncStateFetchingRemote   SyncState = "FETCHING_REMOTE"
	SyncStateReconciling      SyncState = "RECONCILING"
	SyncStateDone             SyncState = "DONE"
	SyncStateError            SyncState = "ERROR"
)

var syncTransitions = map[SyncState][]SyncState{
	SyncStateIdle:             {SyncStateResolvingAccount, SyncStateError},
	SyncStateResolvingAccount: {SyncStateFetchingRemote, SyncStateError},
	SyncStateFetchingRemote:   {SyncStateReconciling, SyncStateError},
	SyncStateReconciling:      {SyncStateDone, SyncStateError},
}

func (s SyncState) IsTerminal() bool {
	return s == SyncStateDone || s == SyncStateError
}

// CanTransitionTo diz se a transição é permitida pela máquina de estados
func (s SyncState) CanTransitionTo(next SyncState) bool {
	for _, allowed := range syncTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type InvalidTransitionError struct {
	From SyncState
	To   SyncState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid sync transition from %s to %s", e.From, e.To)
}

// SyncOutcome é o resultado da sincronização de uma conta
type SyncOutcome struct {
	AccountID         string          `json:"account_id"`
	State             SyncState       `json:"state"`
	Campaigns         []*Campaign     `json:"campaigns"`
	SyncedCount       int             `json:"synced_count"`
	Errors            []string        `json:"errors,omitempty"`
	Failure           *AccountFailure `json:"failure,omitempty"`
	ReconnectRequired bool            `json:"reconnect_required"`
	StartedAt         time.Time       `json:"started_at"`
	FinishedAt        time.Time       `json:"finished_at"`
	Err               error           `json:"-"`
}

func (o *SyncOutcome) Succeeded() bool {
	return o != nil && o.State == SyncStateDone
}

// InsightSyncOutcome é o resultado da sincronização de insights por campanha
type InsightSyncOutcome struct {
	AccountID     string          `json:"account_id"`
	UpsertedCount int             `json:"upserted_count"`
	Skipped       []string        `json:"skipped,omitempty"`
	Failure       *AccountFailure `json:"failure,omitempty"`
}

// CampaignsSyncedEvent é publicado após cada sincronização concluída com sucesso
type CampaignsSyncedEvent struct {
	UserID      string    `json:"user_id"`
	AccountID   string    `json:"account_id"`
	ExternalID  string    `json:"external_id"`
	SyncedCount int       `json:"synced_count"`
	SyncedAt    time.Time `json:"synced_at"`
}
