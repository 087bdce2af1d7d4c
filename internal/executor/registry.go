package executor

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Descriptor describes a registered executor.
type Descriptor struct {
	// ID is "<plugin>:<name>", e.g. "@nxplus/vue:browser".
	ID          string
	Description string
	// Schema is a pointer to the zero value of the executor's option
	// struct; the host reflects it for `schema` and validation.
	Schema   any
	Executor Executor
}

// Registry maps executor ids to executors.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register adds an executor. Registering the same id twice is an error.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateExecutor, d.ID)
	}
	r.descriptors[d.ID] = d
	return nil
}

// Lookup returns the descriptor registered under id.
func (r *Registry) Lookup(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownExecutor, id)
	}
	return d, nil
}

// IDs returns every registered id, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.descriptors))
}
