package brochure

import (
	"sync"

	"prospekt/internal/domain"
)

// lockRegistry serializes mutations per brochure. A second mutation of
// the same brochure while one is in flight fails fast with BusyError;
// mutations of distinct brochures never contend.
type lockRegistry struct {
	mu    sync.Mutex
	inUse map[string]struct{}
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{inUse: make(map[string]struct{})}
}

// acquire claims the brochure's mutation slot. The returned release
// must be called exactly once.
func (r *lockRegistry) acquire(id string) (release func(), err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.inUse[id]; busy {
		return nil, &domain.BusyError{BrochureID: id}
	}
	r.inUse[id] = struct{}{}

	return func() {
		r.mu.Lock()
		delete(r.inUse, id)
		r.mu.Unlock()
	}, nil
}
