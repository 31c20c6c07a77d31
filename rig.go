package rig

import (
	"errors"
	"log/slog"

	"github.com/benchrig/rig/config"
	"github.com/benchrig/rig/graph"
	"github.com/benchrig/rig/handle"
	"github.com/benchrig/rig/logging"
	"github.com/benchrig/rig/registry"

	"go.uber.org/multierr"
)

// ErrClosed is returned when a closed fixture is asked to read or rebuild.
var ErrClosed = errors.New("fixture is closed")

// State is the lifecycle state of a Fixture.
type State int

const (
	// StateEmpty means no handle graph is loaded. Fixtures start here and
	// return here after every teardown.
	StateEmpty State = iota
	// StateLoaded means a handle graph is live.
	StateLoaded
	// StateClosed is terminal: the fixture was disposed and accepts no
	// further rebuilds.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Fixture owns a configuration store and the handle graph built from it.
// It merges fixture sources, rebuilds the graph on every read (tearing the
// previous graph down first), dispatches commands across the graph, and
// guarantees deterministic teardown of every constructed handle.
//
// A Fixture is not safe for concurrent use; a multi-threaded host must
// serialize access itself.
type Fixture struct {
	name    string
	logger  *slog.Logger
	store   *config.Store
	reg     *registry.Registry
	builder *graph.Builder
	graph   *graph.Graph
	state   State

	resetConfigOnTeardown bool
}

// New creates an empty Fixture. Without options it uses slog.Default, the
// default type registry, and retains merged configuration across teardowns.
func New(opts ...Option) *Fixture {
	options := Options{
		Name:   "fixture",
		Logger: slog.Default(),
	}

	for _, apply := range opts {
		apply(&options)
	}

	if options.Registry == nil {
		options.Registry = DefaultRegistry(handle.WithLogger(options.Logger))
	}

	logger := options.Logger.With(slog.String("fixture", options.Name))

	return &Fixture{
		name:                  options.Name,
		logger:                logger,
		store:                 config.NewStore(),
		reg:                   options.Registry,
		builder:               graph.NewBuilder(graph.WithLogger(logging.Named(logger, "builder"))),
		state:                 StateEmpty,
		resetConfigOnTeardown: options.ResetConfigOnTeardown,
	}
}

// Name returns the fixture's name.
func (f *Fixture) Name() string {
	return f.name
}

// State returns the fixture's lifecycle state.
func (f *Fixture) State() State {
	return f.state
}

// Store returns the fixture's configuration store.
func (f *Fixture) Store() *config.Store {
	return f.store
}

// Registry returns the fixture's type registry.
func (f *Fixture) Registry() *registry.Registry {
	return f.reg
}

// Read merges src into the configuration store and rebuilds the handle
// graph. The previous graph, if any, is torn down first; teardown failures
// are logged but do not abort the rebuild. A nil src rebuilds from the
// retained configuration without merging anything new.
//
// If the build fails the fixture is left empty, but the merge is not rolled
// back: a corrective follow-up Read only needs to supply what was wrong.
func (f *Fixture) Read(src *config.Section) error {
	if f.state == StateClosed {
		return ErrClosed
	}

	err := f.Teardown()
	if err != nil {
		f.logger.Warn("teardown before rebuild reported errors", slog.Any("error", err))
	}

	f.store.Merge(src)

	g, err := f.builder.Build(f.store.Root(), f.reg)
	if err != nil {
		return err
	}

	f.graph = g
	f.state = StateLoaded

	f.logger.Debug("fixture loaded", slog.Int("devices", g.Len()))

	return nil
}

// Load reads a source through a fetcher/parser pair and merges it, see
// Read.
func (f *Fixture) Load(fetcher config.DataFetcher, parser config.Parser) error {
	if f.state == StateClosed {
		return ErrClosed
	}

	section, err := config.Load(fetcher, parser)
	if err != nil {
		return err
	}

	return f.Read(section)
}

// Teardown closes every top-level handle in graph order and clears the
// graph. Per-handle close failures are collected and reported in aggregate;
// the rest of the sequence still runs. Calling Teardown on an empty fixture
// is a no-op. Merged configuration is retained unless the fixture was
// created with WithConfigReset.
func (f *Fixture) Teardown() error {
	if f.graph == nil {
		return nil
	}

	var errs error

	for _, h := range f.graph.Handles() {
		errs = multierr.Append(errs, h.CloseAll())
	}

	f.graph = nil

	if f.resetConfigOnTeardown {
		f.store.Reset()
	}

	if f.state != StateClosed {
		f.state = StateEmpty
	}

	f.logger.Debug("fixture torn down")

	return errs
}

// Close tears the fixture down and transitions it to its terminal state.
// Further reads fail with ErrClosed. Closing twice is safe.
func (f *Fixture) Close() error {
	err := f.Teardown()
	f.state = StateClosed

	return err
}

// Scope runs fn with the fixture and its top-level handles, guaranteeing
// exactly one teardown on the way out whether fn succeeds or fails.
// Teardown failures are combined with fn's error.
func (f *Fixture) Scope(fn func(f *Fixture, devs []handle.Handle) error) (err error) {
	defer func() {
		err = multierr.Append(err, f.Teardown())
	}()

	err = fn(f, f.Devs())

	return err
}

// Devs returns the top-level handles in graph order.
func (f *Fixture) Devs() []handle.Handle {
	return f.graph.Handles()
}

// CmdFirst sends msg to the first device in graph order.
func (f *Fixture) CmdFirst(msg string, opts handle.CmdOptions) (string, error) {
	return f.graph.CmdFirst(msg, opts)
}

// CmdAny sends msg to each device in graph order and returns the first
// successful result; see graph.Graph.CmdAny.
func (f *Fixture) CmdAny(msg string, opts handle.CmdOptions) (string, error) {
	return f.graph.CmdAny(msg, opts)
}

// CmdAll broadcasts msg to every device and returns one outcome per device
// in graph order; see graph.Graph.CmdAll.
func (f *Fixture) CmdAll(msg string, opts handle.CmdOptions) ([]graph.Outcome, error) {
	return f.graph.CmdAll(msg, opts)
}

// Dev returns the device at the given zero-based index in graph order.
func (f *Fixture) Dev(i int) (handle.Handle, error) {
	return f.graph.At(i)
}

// DevNamed returns the device carrying the given name.
func (f *Fixture) DevNamed(name string) (handle.Handle, error) {
	return f.graph.Named(name)
}

// ResetAll resets the interaction state of every device in graph order.
// Per-device failures are collected; an empty fixture logs a warning and
// returns nil.
func (f *Fixture) ResetAll() error {
	if f.graph == nil {
		f.logger.Warn("no devices loaded, nothing to reset")

		return nil
	}

	return f.graph.ResetAll()
}
