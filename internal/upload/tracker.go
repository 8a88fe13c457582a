package upload

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultRetention is how long terminal trackers remain queryable before
// they are pruned.
const defaultRetention = 10 * time.Minute

type trackerEntry struct {
	machine *Machine
	created time.Time
}

// Registry holds the progress trackers for in-flight and recently finished
// uploads, keyed by an opaque ID handed back to the client.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*trackerEntry
	retention time.Duration
	now       func() time.Time
}

// NewRegistry creates an empty tracker registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:   make(map[string]*trackerEntry),
		retention: defaultRetention,
		now:       time.Now,
	}
}

// NewTracker registers a fresh Machine and returns its ID.
func (r *Registry) NewTracker(compressionWeight float64) (string, *Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()

	id := uuid.NewString()
	m := NewMachine(compressionWeight)
	r.entries[id] = &trackerEntry{machine: m, created: r.now()}
	return id, m
}

// Get returns the Machine for an ID, or nil if unknown or pruned.
func (r *Registry) Get(id string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil
	}
	return entry.machine
}

// Len returns the number of registered trackers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// pruneLocked drops terminal trackers past the retention window. In-flight
// trackers are never pruned regardless of age.
func (r *Registry) pruneLocked() {
	cutoff := r.now().Add(-r.retention)
	for id, entry := range r.entries {
		if entry.created.After(cutoff) {
			continue
		}
		switch entry.machine.Snapshot().Phase {
		case PhaseSucceeded, PhaseFailed, PhaseIdle:
			delete(r.entries, id)
		}
	}
}
