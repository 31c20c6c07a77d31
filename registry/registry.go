package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/benchrig/rig/config"
	"github.com/benchrig/rig/handle"
)

// ErrNilFactory is returned when registering a nil factory.
var ErrNilFactory = errors.New("registry: nil factory")

// ErrEmptyTag is returned when registering under an empty type tag.
var ErrEmptyTag = errors.New("registry: empty type tag")

// Factory constructs a handle from a section name and its remaining
// attributes. Attribute values are scalars, lists, nested *config.Section
// values the builder did not consume, or already-constructed handles (the
// "conns" list and the "bcc" backup controller).
type Factory func(name string, attrs map[string]any) (handle.Handle, error)

// UnknownTypeError is returned by Lookup when no factory is registered for
// a type tag. It carries the known tags so the message is actionable.
type UnknownTypeError struct {
	Tag   string
	Known []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type tag %q (known tags: %v)", e.Tag, e.Known)
}

// Unwrap ties the error into the configuration error branch.
func (e *UnknownTypeError) Unwrap() error {
	return config.ErrConfig
}

// Registry maps type-tag strings to handle factories. The object-graph
// builder never special-cases a tag beyond reading a section's "type" key;
// the registry is the single point where tags gain meaning.
type Registry struct {
	factories map[string]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// FromMap creates a Registry seeded from a tag-to-factory map. Nil factories
// in the seed are skipped.
func FromMap(seed map[string]Factory) *Registry {
	r := New()

	for tag, factory := range seed {
		if factory == nil {
			continue
		}

		r.factories[tag] = factory
	}

	return r
}

// Register adds a factory under tag. Registering an existing tag replaces
// the previous factory, which is how callers swap out the default handle
// kinds wholesale.
func (r *Registry) Register(tag string, factory Factory) error {
	if tag == "" {
		return ErrEmptyTag
	}

	if factory == nil {
		return fmt.Errorf("%w: tag %q", ErrNilFactory, tag)
	}

	r.factories[tag] = factory

	return nil
}

// Lookup returns the factory registered under tag, or an *UnknownTypeError
// if the tag is absent.
func (r *Registry) Lookup(tag string) (Factory, error) {
	factory, ok := r.factories[tag]
	if !ok {
		return nil, &UnknownTypeError{Tag: tag, Known: r.Tags()}
	}

	return factory, nil
}

// Tags returns the registered type tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	return len(r.factories)
}
