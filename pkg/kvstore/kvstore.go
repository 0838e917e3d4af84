// Package kvstore provides a small scoped key-value store with pluggable
// persistence. The session manager keeps the `{user, token}` pair in one of
// these under a fixed key.
//
// Three drivers exist:
//
//	Memory: process-local, used in tests
//	File:   single JSON file, optionally AES-GCM encrypted (APP_KEY)
//	Redis:  shared store for multi-process setups
package kvstore

import (
	"encoding/json"
	"sync"
)

// Store is a scoped key-value store. Get reports (found, error) and
// unmarshals into dest on a hit.
type Store interface {
	Get(key string, dest interface{}) (bool, error)
	Set(key string, value interface{}) error
	Delete(key string) error
}

// ─── Memory driver ────────────────────────────────────────────────────────────

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]json.RawMessage{}}
}

func (m *Memory) Get(key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
