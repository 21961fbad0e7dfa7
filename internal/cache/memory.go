package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is a bounded in-process cache backed by an expirable LRU.
// The LRU's TTL applies uniformly, so per-call TTLs shorter than the
// configured one are honored by stamping each entry with its own expiry.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
}

type memoryEntry struct {
	value  string
	expiry time.Time
}

func NewMemory(maxKeys int, ttl time.Duration) (*Memory, error) {
	if maxKeys < 1 {
		return nil, fmt.Errorf("memory cache requires a positive key bound (got %d)", maxKeys)
	}
	return &Memory{
		lru: expirable.NewLRU[string, memoryEntry](maxKeys, nil, ttl),
	}, nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	entry, ok := m.lru.Get(key)
	if !ok || time.Now().After(entry.expiry) {
		return "", ErrMiss
	}
	return entry.value, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.lru.Add(key, memoryEntry{
		value:  value,
		expiry: time.Now().Add(ttl),
	})
	return nil
}
