// Package buildcache memoizes build results by a content fingerprint.
package buildcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores finished results.
// Implementations must be safe for concurrent use.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Put(key string, v V)
}

// Memory is an in-process Cache.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{entries: make(map[string]V)}
}

func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	return v, ok
}

func (m *Memory[V]) Put(key string, v V) {
	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
}

func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Group computes every key at most once.
//
// Concurrent callers with the same key wait for a single computation.
// Failed computations are not stored, so a later call retries.
type Group[V any] struct {
	cache  Cache[V]
	flight singleflight.Group
}

func NewGroup[V any](cache Cache[V]) *Group[V] {
	return &Group[V]{cache: cache}
}

// Do returns the stored result for key or computes it with fn.
// cached is false only for the caller that ran fn.
func (g *Group[V]) Do(key string, fn func() (V, error)) (v V, cached bool, err error) {
	if v, ok := g.cache.Get(key); ok {
		return v, true, nil
	}

	computed := false
	result, err, _ := g.flight.Do(key, func() (any, error) {
		// Another flight could have finished between Get and Do.
		if v, ok := g.cache.Get(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return v, err
		}
		computed = true
		g.cache.Put(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return result.(V), !computed, nil
}

// Fingerprint hashes the parts into a cache key.
// Parts are length-prefixed, so ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
