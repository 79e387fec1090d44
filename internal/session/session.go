// Package session holds the per-run key-value state shared by pipeline
// stages. One State instance is created per pipeline run and threaded by
// reference through every stage; nothing is shared across runs.
package session

import "sync"

// KeyFetchedProfile is the single documented interchange key. The fetch
// stage writes a profile.Profile under it; the present stage reads it.
const KeyFetchedProfile = "fetched_profile"

// Snapshot is an immutable copy of session state, suitable for carrying
// across conversational turns.
type Snapshot map[string]any

// State is a string-keyed store scoped to one pipeline run. A key written by
// one stage is visible, unmodified, to every later stage in the same run.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// New returns an empty session state.
func New() *State {
	return &State{values: map[string]any{}}
}

// FromSnapshot seeds a fresh state with a prior turn's snapshot. A nil
// snapshot yields an empty state.
func FromSnapshot(snap Snapshot) *State {
	s := New()
	for k, v := range snap {
		s.values[k] = v
	}
	return s
}

// Set stores value under key, overwriting any prior value within the run.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get returns the value stored under key.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has been written this run.
func (s *State) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of keys currently stored.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a shallow copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Snapshot, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
