package graph

import (
	"fmt"
	"log/slog"

	"github.com/benchrig/rig/config"
	"github.com/benchrig/rig/handle"
	"github.com/benchrig/rig/registry"

	"github.com/spf13/cast"
)

// Reserved section keys consumed by the builder itself. Everything else is
// passed through to the factory as an attribute.
const (
	keyType  = "type"
	keyConns = "conns"
	keyBCC   = "bcc"
	keyBCtrl = "bctrl"
	keyName  = "name"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the builder's logger, used for the deprecation notice on
// the "bcc" key and construction-time debug output.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// Builder turns a merged configuration tree into a handle graph via a type
// registry. Building is a pure transformation: the source tree is never
// mutated, so the same store can be rebuilt any number of times.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a Builder. Without WithLogger it logs through
// slog.Default.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}

	for _, apply := range opts {
		apply(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Build constructs one handle per top-level key of root, in key order.
// An empty root fails with *EmptyConfigError. Construction failures abort
// the whole build; no partial graph is ever returned.
func (b *Builder) Build(root *config.Section, reg *registry.Registry) (*Graph, error) {
	if root == nil || root.Len() == 0 {
		return nil, &EmptyConfigError{}
	}

	keys := root.Keys()
	handles := make([]handle.Handle, 0, len(keys))

	for _, name := range keys {
		section, ok := root.Child(name)
		if !ok {
			return nil, &MissingTypeError{Section: name}
		}

		h, err := b.parseSection(name, section, reg)
		if err != nil {
			return nil, err
		}

		handles = append(handles, h)
	}

	return newGraph(handles, b.logger), nil
}

// parseSection builds one handle from a section. It consumes the reserved
// keys (type, conns, bcc, bctrl, name), recursing for connection and
// backup-controller sub-sections, and hands everything else to the factory
// as attributes. The section itself is only read, never modified.
func (b *Builder) parseSection(name string, section *config.Section, reg *registry.Registry) (handle.Handle, error) {
	rawType, ok := section.Get(keyType)
	if !ok {
		return nil, &MissingTypeError{Section: name}
	}

	factory, err := reg.Lookup(cast.ToString(rawType))
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]any, section.Len())

	var bccHandle, bctrlHandle handle.Handle

	for _, key := range section.Keys() {
		value, _ := section.Get(key)

		switch key {
		case keyType, keyName:
			// consumed; name is forced below

		case keyConns:
			conns, err := b.parseConns(name, value, reg)
			if err != nil {
				return nil, err
			}

			attrs[keyConns] = conns

		case keyBCC:
			b.logger.Warn("DEPRECATED: use \"bctrl\" instead of \"bcc\"", slog.String("section", name))

			bccHandle, err = b.parseChild(name, keyBCC, value, reg)
			if err != nil {
				return nil, err
			}

		case keyBCtrl:
			bctrlHandle, err = b.parseChild(name, keyBCtrl, value, reg)
			if err != nil {
				return nil, err
			}

		default:
			attrs[key] = value
		}
	}

	// bctrl wins over the deprecated bcc when both are present.
	if bctrlHandle != nil {
		attrs[keyBCC] = bctrlHandle
	} else if bccHandle != nil {
		attrs[keyBCC] = bccHandle
	}

	attrs[keyName] = name

	h, err := factory(name, attrs)
	if err != nil {
		return nil, &ConstructionError{Section: name, Cause: err}
	}

	b.logger.Debug("section loaded", slog.String("section", name), slog.String("type", cast.ToString(rawType)))

	return h, nil
}

func (b *Builder) parseConns(parent string, value any, reg *registry.Registry) ([]handle.Handle, error) {
	section, ok := value.(*config.Section)
	if !ok {
		return nil, &ConstructionError{
			Section: parent,
			Cause:   fmt.Errorf("key %q must be a section of connection sub-sections, got %T", keyConns, value),
		}
	}

	conns := make([]handle.Handle, 0, section.Len())

	for _, childName := range section.Keys() {
		child, ok := section.Child(childName)
		if !ok {
			return nil, &MissingTypeError{Section: childName}
		}

		h, err := b.parseSection(childName, child, reg)
		if err != nil {
			return nil, err
		}

		conns = append(conns, h)
	}

	return conns, nil
}

func (b *Builder) parseChild(parent, key string, value any, reg *registry.Registry) (handle.Handle, error) {
	section, ok := value.(*config.Section)
	if !ok {
		return nil, &ConstructionError{
			Section: parent,
			Cause:   fmt.Errorf("key %q must be a section, got %T", key, value),
		}
	}

	return b.parseSection(key, section, reg)
}
