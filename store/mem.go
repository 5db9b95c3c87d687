package store

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrWriteFailed is returned by a MemStore configured to simulate a
// persistence failure (storage unavailable, quota exceeded).
var ErrWriteFailed = errors.New("store: write failed")

// MemStore is the in-memory Store used by tests and local experiments.
type MemStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage

	// FailWrites makes every Put return ErrWriteFailed without mutating
	// anything, mimicking a degraded storage substrate.
	FailWrites bool
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]json.RawMessage)}
}

func (s *MemStore) Get(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *MemStore) Put(key string, v any) error {
	if s.FailWrites {
		return ErrWriteFailed
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Update stages writes in a shadow copy and publishes them only when fn
// succeeds, mirroring the transactional semantics of the gorm store.
func (s *MemStore) Update(fn func(tx Store) error) error {
	shadow := NewMemStore()
	shadow.FailWrites = s.FailWrites
	s.mu.Lock()
	for k, v := range s.data {
		shadow.data[k] = v
	}
	s.mu.Unlock()

	if err := fn(shadow); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = shadow.data
	s.mu.Unlock()
	return nil
}

// SetRaw seeds an arbitrary byte value, letting tests exercise the
// fail-soft path on corrupt entries.
func (s *MemStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}
