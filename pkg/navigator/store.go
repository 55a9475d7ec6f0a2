package navigator

import "sync"

// Store holds the most recent frame's detections for concurrent
// readers. The loop overwrites the snapshot wholesale once per frame;
// request handlers read it on demand. Both sides work on copies, so a
// reader can never observe a partially written frame.
type Store struct {
	mu     sync.Mutex
	latest []Detection
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{latest: []Detection{}}
}

// Set replaces the snapshot with a fresh copy of detections.
func (s *Store) Set(detections []Detection) {
	fresh := make([]Detection, len(detections))
	copy(fresh, detections)

	s.mu.Lock()
	s.latest = fresh
	s.mu.Unlock()
}

// Latest returns a copy of the snapshot. The result is never nil, so
// an empty snapshot marshals to a JSON array.
func (s *Store) Latest() []Detection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Detection, len(s.latest))
	copy(out, s.latest)
	return out
}
