package nonce

import (
	"fmt"
	"os"
	"sync"
)

// Backing is the injected persistence side effect of the ledger. Keeping
// persistence out of the counter type lets tests run against an in-memory
// store and lets deployments choose stricter write policies.
type Backing interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileBacking persists ledger state as a JSON file, rewritten via a
// temp-file rename after every issuance.
type FileBacking struct {
	path string
}

func NewFileBacking(path string) *FileBacking {
	return &FileBacking{path: path}
}

func (f *FileBacking) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *FileBacking) Save(data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}

// MemoryBacking is an in-memory store for tests and ephemeral deployments.
type MemoryBacking struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBacking() *MemoryBacking {
	return &MemoryBacking{}
}

func (m *MemoryBacking) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, os.ErrNotExist
	}
	return m.data, nil
}

func (m *MemoryBacking) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
