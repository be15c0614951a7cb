package tracking

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages registered tracking carriers.
type Registry struct {
	trackers map[string]Tracker
	mu       sync.RWMutex
}

// NewRegistry creates a new tracker registry.
func NewRegistry() *Registry {
	return &Registry{
		trackers: make(map[string]Tracker),
	}
}

// Register adds a tracker to the registry. A tracker with the same name is replaced.
func (r *Registry) Register(t Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trackers[t.Name()] = t
}

// Get returns a tracker by name.
func (r *Registry) Get(name string) (Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.trackers[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, name)
}

// Default returns the only registered tracker, or ErrCarrierNotFound when
// the registry is empty or ambiguous.
func (r *Registry) Default() (Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.trackers) != 1 {
		return nil, fmt.Errorf("%w: %d carriers registered, name one", ErrCarrierNotFound, len(r.trackers))
	}
	for _, t := range r.trackers {
		return t, nil
	}
	return nil, ErrCarrierNotFound
}

// All returns all registered trackers.
func (r *Registry) All() []Tracker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		result = append(result, t)
	}
	return result
}

// Names returns the sorted names of all registered trackers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.trackers))
	for name := range r.trackers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered trackers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trackers)
}
