package rig

import (
	"log/slog"

	"github.com/benchrig/rig/handle"
	"github.com/benchrig/rig/registry"
)

// Options holds configuration settings for a Fixture.
type Options struct {
	Name                  string
	Logger                *slog.Logger
	Registry              *registry.Registry
	ResetConfigOnTeardown bool
}

// Option defines a function type for applying fixture options.
type Option func(*Options)

// WithName sets the fixture's name, used in log output.
func WithName(name string) Option {
	return func(opts *Options) {
		if name != "" {
			opts.Name = name
		}
	}
}

// WithLogger sets the fixture's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithRegistry replaces the type registry used during builds. Defaults to
// DefaultRegistry.
func WithRegistry(reg *registry.Registry) Option {
	return func(opts *Options) {
		opts.Registry = reg
	}
}

// WithConfigReset makes every teardown also clear the merged configuration
// store, so a subsequent Read starts from scratch. Without it the store is
// retained, which keeps rebuild-from-same-config cheap.
func WithConfigReset() Option {
	return func(opts *Options) {
		opts.ResetConfigOnTeardown = true
	}
}

// DefaultRegistry creates a registry seeded with the shipped handle kinds:
// Device, SerialConnection and ShellConnection. The set is replaceable
// wholesale via WithRegistry; the builder never special-cases these tags.
func DefaultRegistry(opts ...handle.FactoryOption) *registry.Registry {
	return registry.FromMap(map[string]registry.Factory{
		handle.TagDevice: handle.NewDeviceFactory(opts...),
		handle.TagSerial: handle.NewSerialFactory(opts...),
		handle.TagShell:  handle.NewShellFactory(opts...),
	})
}
