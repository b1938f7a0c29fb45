package syncing

import (
	"context"
	"sync"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

// run acompanha a máquina de estados de uma sincronização
type run struct {
	ctx     context.Context
	outcome *domain.SyncOutcome
}

func newRun(ctx context.Context, outcome *domain.SyncOutcome) *run {
	outcome.State = domain.SyncStateIdle
	return &run{ctx: ctx, outcome: outcome}
}

func (r *run) transition(next domain.SyncState) error {
	current := r.outcome.State
	if !current.CanTransitionTo(next) {
		return &domain.InvalidTransitionError{From: current, To: next}
	}

	log.ForContext(r.ctx).WithFields(log.Fields{
		"account_id": r.outcome.AccountID,
		"state":      next,
	}).Debug("sync: transição de estado")

	r.outcome.State = next
	return nil
}

// fail leva a execução para ERROR a partir de qualquer estado não terminal
func (r *run) fail(err error) {
	if r.outcome.State.IsTerminal() {
		return
	}

	r.outcome.State = domain.SyncStateError
	r.outcome.Err = err

	failure := domain.NewAccountFailure(r.outcome.AccountID, err)
	r.outcome.Failure = &failure
	r.outcome.ReconnectRequired = failure.ReconnectRequired
}

// accountLocks serializa sincronizações da mesma conta dentro do processo
type accountLocks struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func newAccountLocks() *accountLocks {
	return &accountLocks{running: make(map[string]struct{})}
}

func (l *accountLocks) TryLock(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.running[key]; busy {
		return false
	}
	l.running[key] = struct{}{}
	return true
}

func (l *accountLocks) Unlock(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.running, key)
}
