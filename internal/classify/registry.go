package classify

import "sync"

// Registry hands out one classifier handle per tenant. Handles are created
// on demand and live for the life of the process; each handle serializes its
// own train/predict calls, so callers for different tenants never contend.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]*Classifier
}

// NewRegistry creates an empty classifier registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Classifier)}
}

// Get returns the classifier for a tenant, creating it if needed.
func (r *Registry) Get(tenant string) *Classifier {
	r.mu.RLock()
	handle, ok := r.handles[tenant]
	r.mu.RUnlock()
	if ok {
		return handle
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if handle, ok = r.handles[tenant]; ok {
		return handle
	}
	handle = NewClassifier()
	r.handles[tenant] = handle
	return handle
}

// Lookup returns the tenant's classifier without creating one.
func (r *Registry) Lookup(tenant string) (*Classifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handle, ok := r.handles[tenant]
	return handle, ok
}
