package cache

import (
	"context"
	"sync"
)

// Memo is the per-entity tier of the memoization layer. A derived view owns
// exactly one Memo keyed by its stable fingerprint; property lookups check
// the local map, then the shared store, then compute and fill both tiers.
//
// The computed function must be pure with respect to the facts at
// computation time. Entities without a fingerprint never touch the shared
// tier and recompute locally.
type Memo struct {
	class       string
	fingerprint string
	shared      *Store

	mu    sync.Mutex
	local map[string]any
}

// NewMemo builds the per-entity tier. shared may be nil (uncached fallback);
// fingerprint may be empty for anonymous derivations.
func NewMemo(class, fingerprint string, shared *Store) *Memo {
	return &Memo{
		class:       class,
		fingerprint: fingerprint,
		shared:      shared,
		local:       make(map[string]any),
	}
}

// Key forms the composite shared-tier key <class>|<fingerprint>|<property>.
func (m *Memo) Key(property string) string {
	if m.fingerprint == "" {
		return ""
	}
	return m.class + "|" + m.fingerprint + "|" + property
}

// Get returns the memoized value of property, computing it at most once per
// Memo. Errors are never cached.
func (m *Memo) Get(ctx context.Context, property string, compute func(context.Context) (any, error)) (any, error) {
	m.mu.Lock()
	if v, ok := m.local[property]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	key := m.Key(property)
	if key == "" || len(key) > MaxKeyLength || m.shared == nil {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		m.store(property, v)
		return v, nil
	}

	if v, ok := m.shared.Get(ctx, key); ok {
		m.store(property, v)
		return v, nil
	}

	v, err := m.shared.GetOrLoad(ctx, key, compute)
	if err != nil {
		return nil, err
	}
	m.store(property, v)
	return v, nil
}

func (m *Memo) store(property string, v any) {
	m.mu.Lock()
	m.local[property] = v
	m.mu.Unlock()
}
