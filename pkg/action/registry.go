package action

import (
	"slices"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Builder collects descriptors before the registry is frozen.
type Builder struct {
	descs []Descriptor
	names map[string]bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{names: map[string]bool{}}
}

// Register adds d and returns it unchanged. It fails if d has no name,
// no perform function, or a name that is already registered.
func (b *Builder) Register(d Descriptor) (Descriptor, error) {
	if d.Name == "" {
		return d, dkerrors.New(dkerrors.ErrCodeInvalidAction, "action has no name")
	}
	if d.Perform == nil {
		return d, dkerrors.New(dkerrors.ErrCodeInvalidAction, "action %q has no perform function", d.Name)
	}
	if b.names[d.Name] {
		return d, dkerrors.New(dkerrors.ErrCodeDuplicateAction, "action %q is already registered", d.Name)
	}
	b.names[d.Name] = true
	b.descs = append(b.descs, d)
	return d, nil
}

// Build freezes the builder into a Registry. The builder can keep being
// used; later registrations do not affect the returned registry.
func (b *Builder) Build() *Registry {
	r := &Registry{
		byName: make(map[string]Descriptor, len(b.descs)),
		order:  slices.Clone(b.descs),
	}
	for _, d := range b.descs {
		r.byName[d.Name] = d
	}
	return r
}

// Registry is an immutable set of descriptors. It is safe for concurrent
// use.
type Registry struct {
	byName map[string]Descriptor
	order  []Descriptor
}

// NewRegistry registers descs in order and builds the registry.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	b := NewBuilder()
	for _, d := range descs {
		if _, err := b.Register(d); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Get looks up a descriptor by name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns the descriptors in registration order.
func (r *Registry) All() []Descriptor {
	return slices.Clone(r.order)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, d := range r.order {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of descriptors.
func (r *Registry) Len() int { return len(r.order) }
