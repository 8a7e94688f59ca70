package integration

import (
	"fmt"
	"sync"
)

// Registry holds integrations in registration order.
type Registry struct {
	mu    sync.RWMutex
	items []Integration
	names map[string]struct{}
}

// NewRegistry creates a registry holding the given integrations.
func NewRegistry(items ...Integration) (*Registry, error) {
	r := &Registry{names: make(map[string]struct{})}
	for _, it := range items {
		if err := r.Register(it); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an integration. Names must be unique.
func (r *Registry) Register(it Integration) error {
	if it == nil {
		return fmt.Errorf("cannot register nil integration")
	}
	name := it.Name()
	if name == "" {
		return fmt.Errorf("integration name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("integration %s already registered", name)
	}
	r.names[name] = struct{}{}
	r.items = append(r.items, it)
	return nil
}

// All returns the registered integrations in registration order.
func (r *Registry) All() []Integration {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Integration(nil), r.items...)
}

// Has reports whether an integration with name is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[name]
	return ok
}

// Find returns the registered integrations implementing T, in registration order.
func Find[T any](r *Registry) []T {
	var out []T
	for _, it := range r.All() {
		if c, ok := it.(T); ok {
			out = append(out, c)
		}
	}
	return out
}

// Error reports a failure inside an integration.
type Error struct {
	Integration string
	Operation   string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("integration %s failed during %s: %v", e.Integration, e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err as a failure of integration name during operation.
func NewError(name, operation string, err error) *Error {
	return &Error{Integration: name, Operation: operation, Err: err}
}
