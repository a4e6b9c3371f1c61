package location

import (
	"sync"

	"rider-delivery-agent/internal/domain"
)

// LatestStore keeps only the newest position pushed by the device. Older
// samples are overwritten, never queued; telemetry is best effort.
type LatestStore struct {
	mu  sync.RWMutex
	p   domain.Position
	set bool
}

// NewLatestStore returns an empty store.
func NewLatestStore() *LatestStore {
	return &LatestStore{}
}

// Set replaces the stored position.
func (s *LatestStore) Set(p domain.Position) {
	s.mu.Lock()
	s.p = p
	s.set = true
	s.mu.Unlock()
}

// Latest returns the stored position and whether one has been set.
func (s *LatestStore) Latest() (domain.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p, s.set
}

var _ PositionSource = (*LatestStore)(nil)
