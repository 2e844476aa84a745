// Package nonce implements the durable monotonic counter behind approval
// nonces. Any nonce <= counter is implicitly "used"; every issued nonce is
// strictly greater than all previously issued ones, across restarts.
package nonce

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"zkml-cosigner/shared"
)

// state is the persisted ledger document.
type state struct {
	Counter uint64 `json:"counter"`
}

// Ledger is the nonce counter. It is exclusively owned by the cosigner
// process; IssueNext serializes concurrent callers so no two verifications
// receive the same nonce.
type Ledger struct {
	mu      sync.Mutex
	counter uint64
	backing Backing
	logger  *shared.Logger
}

// Load reads ledger state from the backing store. Absent or corrupt state
// starts the counter at 0: the ledger favors availability over strict
// continuity, accepting lost history on storage failure.
func Load(backing Backing, logger *shared.Logger) *Ledger {
	ledger := &Ledger{backing: backing, logger: logger}

	data, err := backing.Load()
	if err != nil {
		return ledger
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return ledger
	}
	ledger.counter = s.Counter
	return ledger
}

// Counter returns the current counter value.
func (l *Ledger) Counter() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counter
}

// IssueNext atomically increments the counter, persists the new value, and
// returns it as the issued nonce. Persistence failure is logged but does
// not block issuance; the counter's role is uniqueness under normal
// operation, not absolute durability.
func (l *Ledger) IssueNext() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counter++
	nonce := l.counter

	data, err := json.Marshal(state{Counter: nonce})
	if err == nil {
		err = l.backing.Save(data)
	}
	if err != nil && l.logger != nil {
		l.logger.Error("failed to persist nonce state",
			zap.Uint64("nonce", nonce), zap.Error(err))
	}
	return nonce
}
