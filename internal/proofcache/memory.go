package proofcache

import (
	"context"
	"sync"
)

// Memory is the in-process fallback used when no redis address is
// configured. Retained URLs then survive only as long as the agent does,
// which still covers the upload→confirm gap within one run.
type Memory struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewMemory returns an empty in-process proof store.
func NewMemory() *Memory {
	return &Memory{urls: make(map[string]string)}
}

// Put retains an uploaded proof URL for a session order.
func (m *Memory) Put(_ context.Context, sessionID, orderID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls[key(sessionID, orderID)] = url
	return nil
}

// Get returns the retained URL for a session order, if any.
func (m *Memory) Get(_ context.Context, sessionID, orderID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, ok := m.urls[key(sessionID, orderID)]
	return url, ok, nil
}

// Drop removes retained URLs.
func (m *Memory) Drop(_ context.Context, sessionID string, orderIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range orderIDs {
		delete(m.urls, key(sessionID, id))
	}
	return nil
}
