package benders

import (
	"sort"
	"sync"
)

// Registry groups the decompositions attached to one master problem, kept
// in priority order. Its single coordination duty is auxiliary variable
// sharing: a decomposition configured to share adopts the variables of the
// highest-priority decomposition that owns some.
type Registry struct {
	mu   sync.RWMutex
	decs []*Decomposition
}

// NewRegistry creates an empty registry.
//
// Returns:
//   - *Registry: New registry instance
func NewRegistry() *Registry {
	return &Registry{}
}

// add registers a decomposition, keeping the list sorted by priority
// descending with name as a deterministic tie-break. Called from New when
// the WithRegistry option is used.
func (r *Registry) add(d *Decomposition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decs = append(r.decs, d)
	sort.SliceStable(r.decs, func(i, j int) bool {
		if r.decs[i].cfg.Priority != r.decs[j].cfg.Priority {
			return r.decs[i].cfg.Priority > r.decs[j].cfg.Priority
		}

		return r.decs[i].name < r.decs[j].name
	})
}

// Decompositions returns the registered decompositions in priority order.
func (r *Registry) Decompositions() []*Decomposition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Decomposition, len(r.decs))
	copy(out, r.decs)

	return out
}

// Len returns the number of registered decompositions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.decs)
}

// NumActive returns the number of registered decompositions that are
// currently active.
func (r *Registry) NumActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, d := range r.decs {
		if d.active {
			n++
		}
	}

	return n
}

// highestPriority returns the highest-priority active decomposition other
// than the requester, or nil.
func (r *Registry) highestPriority(requester *Decomposition) *Decomposition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.decs {
		if d != requester && d.active {
			return d
		}
	}

	return nil
}
