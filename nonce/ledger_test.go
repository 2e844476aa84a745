package nonce

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestLedgerSequentialIssuance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonce_state.json")

	ledger := Load(NewFileBacking(path), nil)
	if ledger.Counter() != 0 {
		t.Fatalf("fresh ledger counter = %d, want 0", ledger.Counter())
	}

	for want := uint64(1); want <= 5; want++ {
		if got := ledger.IssueNext(); got != want {
			t.Errorf("issued nonce %d, want %d", got, want)
		}
	}

	t.Run("reload preserves counter", func(t *testing.T) {
		reloaded := Load(NewFileBacking(path), nil)
		if reloaded.Counter() != 5 {
			t.Errorf("reloaded counter = %d, want 5", reloaded.Counter())
		}
		if got := reloaded.IssueNext(); got != 6 {
			t.Errorf("issued nonce %d after reload, want 6", got)
		}
	})
}

func TestLedgerCorruptStateStartsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonce_state.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ledger := Load(NewFileBacking(path), nil)
	if ledger.Counter() != 0 {
		t.Errorf("counter after corrupt load = %d, want 0", ledger.Counter())
	}
	if got := ledger.IssueNext(); got != 1 {
		t.Errorf("first nonce after corrupt load = %d, want 1", got)
	}
}

func TestLedgerConcurrentIssuance(t *testing.T) {
	const callers = 64

	ledger := Load(NewMemoryBacking(), nil)

	var wg sync.WaitGroup
	results := make(chan uint64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.IssueNext()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[uint64]bool, callers)
	for nonce := range results {
		if nonce < 1 || nonce > callers {
			t.Errorf("nonce %d outside expected range [1, %d]", nonce, callers)
		}
		if seen[nonce] {
			t.Errorf("nonce %d issued twice", nonce)
		}
		seen[nonce] = true
	}
	if len(seen) != callers {
		t.Errorf("issued %d distinct nonces, want %d", len(seen), callers)
	}
	if ledger.Counter() != callers {
		t.Errorf("final counter = %d, want %d", ledger.Counter(), callers)
	}
}

// failingBacking rejects every save, simulating a storage outage.
type failingBacking struct{}

func (failingBacking) Load() ([]byte, error) { return nil, os.ErrNotExist }
func (failingBacking) Save([]byte) error     { return errors.New("disk full") }

func TestLedgerPersistFailureDoesNotBlockIssuance(t *testing.T) {
	ledger := Load(failingBacking{}, nil)

	// Availability over durability: the nonce is still issued.
	if got := ledger.IssueNext(); got != 1 {
		t.Errorf("issued nonce %d, want 1", got)
	}
	if got := ledger.IssueNext(); got != 2 {
		t.Errorf("issued nonce %d, want 2", got)
	}
}

func TestFileBackingRoundtrip(t *testing.T) {
	dir := t.TempDir()
	backing := NewFileBacking(filepath.Join(dir, "state.json"))

	if _, err := backing.Load(); err == nil {
		t.Error("expected error loading absent state")
	}
	if err := backing.Save([]byte(`{"counter":9}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := backing.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != `{"counter":9}` {
		t.Errorf("loaded %q", data)
	}
}
