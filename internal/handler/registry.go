package handler

import (
	"errors"
	"fmt"
)

// Registry holds the registered format handlers in registration order.
// It is append-only: registration happens during process initialization
// and must complete before concurrent classification begins. After
// that, reads need no locking.
type Registry struct {
	byID  map[string]int
	order []Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Register adds a descriptor. It fails with ErrDuplicateHandler when
// the identifier is already registered.
func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" {
		return errors.New("handler id must not be empty")
	}
	if d.Detect == nil {
		return fmt.Errorf("handler %q has no detect function", d.ID)
	}
	if d.Extract == nil {
		return fmt.Errorf("handler %q has no extract function", d.ID)
	}
	if _, exists := r.byID[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, d.ID)
	}
	r.byID[d.ID] = len(r.order)
	r.order = append(r.order, d)
	return nil
}

// All returns the registered descriptors in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the descriptor registered under id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.order[i], true
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	return len(r.order)
}
