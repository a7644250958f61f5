package kv

import "errors"

// MemorySlot is an in-process Slot. It counts writes and can be told to fail
// them, which the store tests rely on.
type MemorySlot struct {
	data    map[string][]byte
	writes  int
	FailPut error // returned by Put and Delete when non-nil
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (m *MemorySlot) Get(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put stores a copy of value.
func (m *MemorySlot) Put(key string, value []byte) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	if key == "" {
		return errors.New("empty key")
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.writes++
	return nil
}

// Delete removes key.
func (m *MemorySlot) Delete(key string) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	delete(m.data, key)
	m.writes++
	return nil
}

// Writes returns how many Put and Delete calls succeeded.
func (m *MemorySlot) Writes() int { return m.writes }

// Close is a no-op.
func (m *MemorySlot) Close() error { return nil }
