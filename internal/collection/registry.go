package collection

import (
	"fmt"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
)

// Registry is an immutable set of bindings keyed by collection name.
type Registry struct {
	order    []string
	bindings map[string]Binding
}

// NewRegistry builds a registry. Names must be non-empty and unique and every
// binding needs a loader; a nil schema is allowed and means "no schema".
func NewRegistry(bindings ...Binding) (*Registry, error) {
	r := &Registry{bindings: make(map[string]Binding, len(bindings))}
	for _, b := range bindings {
		if b.Name == "" {
			return nil, fmt.Errorf("collection name is required")
		}
		if b.Loader == nil {
			return nil, fmt.Errorf("collection %q: loader is required", b.Name)
		}
		if _, dup := r.bindings[b.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCollection, b.Name)
		}
		r.bindings[b.Name] = b
		r.order = append(r.order, b.Name)
	}
	return r, nil
}

// Lookup returns the binding for name.
func (r *Registry) Lookup(name string) (Binding, bool) {
	b, ok := r.bindings[name]
	return b, ok
}

// Require returns the binding for name or a collection error.
func (r *Registry) Require(name string) (Binding, error) {
	b, ok := r.bindings[name]
	if !ok {
		return Binding{}, serrors.CollectionNotFound(name)
	}
	return b, nil
}

// Names returns collection names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Bindings returns the bindings in declaration order.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, len(r.order))
	for i, n := range r.order {
		out[i] = r.bindings[n]
	}
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int { return len(r.order) }
