package kv

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development.
// It honors TTLs against an injectable clock.
type MemoryStore struct {
	mu      sync.RWMutex
	strings map[string]memEntry
	hashes  map[string]map[string]string
	hashExp map[string]int64
	sets    map[string]map[string]struct{}

	// Now is the clock used for TTL checks. Defaults to time.Now.
	Now func() time.Time
}

type memEntry struct {
	value     string
	expiresAt int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strings: map[string]memEntry{},
		hashes:  map[string]map[string]string{},
		hashExp: map[string]int64{},
		sets:    map[string]map[string]struct{}{},
		Now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.strings[key]
	if !ok || expired(e.expiresAt, m.Now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strings[key] = memEntry{value: value, expiresAt: m.deadline(ttl)}
	return nil
}

func (m *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]string{}
	if expired(m.hashExp[key], m.Now()) {
		return out, nil
	}
	for f, v := range m.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (m *MemoryStore) HSet(_ context.Context, key string, fields map[string]string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hashes[key]
	if h == nil || expired(m.hashExp[key], m.Now()) {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for f, v := range fields {
		h[f] = v
	}
	m.hashExp[key] = m.deadline(ttl)
	return nil
}

func (m *MemoryStore) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sets[key]
	if s == nil {
		s = map[string]struct{}{}
		m.sets[key] = s
	}
	s[member] = struct{}{}
	return nil
}

func (m *MemoryStore) SRem(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets[key], member)
	return nil
}

func (m *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := []string{}
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return m.Now().Add(ttl).UnixMilli()
}
