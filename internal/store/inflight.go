package store

import "sync"

// inflightSet tracks entities with a mutation in flight. A second mutation
// for the same key while the first has not finished is suppressed instead
// of racing to the gateway.
type inflightSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightSet() *inflightSet {
	return &inflightSet{keys: make(map[string]struct{})}
}

// begin marks the key as in flight. It reports false when the key already
// has a mutation in flight.
func (s *inflightSet) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return false
	}

	s.keys[key] = struct{}{}
	return true
}

// end releases the key.
func (s *inflightSet) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, key)
}
