package graph

import (
	"log/slog"

	"github.com/benchrig/rig/handle"

	"go.uber.org/multierr"
)

// Outcome records the result of delivering a command to one handle during
// CmdAll: either Result or Err is set, never both.
type Outcome struct {
	Handle handle.Handle
	Result string
	Err    error
}

// Graph is an ordered sequence of top-level handles plus a lazily populated
// name lookup cache. A Graph is created fresh on every successful build and
// replaced wholesale on rebuilds; it is never partially updated.
//
// All methods are nil-safe: a nil Graph behaves like an empty one.
type Graph struct {
	handles []handle.Handle
	byName  map[string]handle.Handle
	logger  *slog.Logger
}

func newGraph(handles []handle.Handle, logger *slog.Logger) *Graph {
	return &Graph{
		handles: handles,
		byName:  map[string]handle.Handle{},
		logger:  logger,
	}
}

// Len returns the number of top-level handles.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}

	return len(g.handles)
}

// Handles returns the top-level handles in construction order. The
// returned slice is a copy.
func (g *Graph) Handles() []handle.Handle {
	if g == nil {
		return nil
	}

	handles := make([]handle.Handle, len(g.handles))
	copy(handles, g.handles)

	return handles
}

// CmdFirst sends msg to the first handle in graph order. An empty graph
// fails with *NoDeviceError.
func (g *Graph) CmdFirst(msg string, opts handle.CmdOptions) (string, error) {
	if g.Len() == 0 {
		return "", &NoDeviceError{Op: "CmdFirst"}
	}

	return g.handles[0].Cmd(msg, opts)
}

// CmdAny sends msg to each handle in graph order and returns the first
// successful result without contacting the remaining handles. If every
// handle fails, the aggregate is reported as a *CantHandleError listing
// each attempt. An empty graph fails with *NoDeviceError.
func (g *Graph) CmdAny(msg string, opts handle.CmdOptions) (string, error) {
	if g.Len() == 0 {
		return "", &NoDeviceError{Op: "CmdAny"}
	}

	attempts := make([]Attempt, 0, len(g.handles))

	for _, h := range g.handles {
		out, err := h.Cmd(msg, opts)
		if err == nil {
			return out, nil
		}

		g.logger.Debug("handle could not execute command",
			slog.String("handle", h.Name()), slog.String("msg", msg), slog.Any("error", err))

		attempts = append(attempts, Attempt{Handle: h.Name(), Err: err})
	}

	return "", &CantHandleError{Msg: msg, Attempts: attempts}
}

// CmdAll sends msg to every handle in graph order unconditionally and
// returns one Outcome per handle, preserving order; per-handle failures
// never abort the broadcast. An empty graph fails with *NoDeviceError
// rather than yielding an empty result list.
func (g *Graph) CmdAll(msg string, opts handle.CmdOptions) ([]Outcome, error) {
	if g.Len() == 0 {
		return nil, &NoDeviceError{Op: "CmdAll"}
	}

	outcomes := make([]Outcome, 0, len(g.handles))

	for _, h := range g.handles {
		out, err := h.Cmd(msg, opts)
		outcomes = append(outcomes, Outcome{Handle: h, Result: out, Err: err})
	}

	return outcomes, nil
}

// At returns the handle at the given zero-based index in graph order.
func (g *Graph) At(i int) (handle.Handle, error) {
	if i < 0 || i >= g.Len() {
		return nil, &NoDeviceError{Op: "At"}
	}

	return g.handles[i], nil
}

// Named returns the handle carrying the given name. The first lookup scans
// the graph once and caches the result; the cache lives and dies with the
// graph, so rebuilds invalidate it naturally.
func (g *Graph) Named(name string) (handle.Handle, error) {
	if g == nil {
		return nil, &UnknownDeviceNameError{Name: name}
	}

	if h, ok := g.byName[name]; ok {
		return h, nil
	}

	available := make([]string, 0, len(g.handles))

	for _, h := range g.handles {
		if h.Name() == name {
			g.byName[name] = h

			return h, nil
		}

		available = append(available, h.Name())
	}

	return nil, &UnknownDeviceNameError{Name: name, Available: available}
}

// ResetAll invokes ResetConfig on every handle in graph order. Per-handle
// failures are collected rather than aborting the sweep. An empty graph
// logs a warning instead of failing.
func (g *Graph) ResetAll() error {
	if g.Len() == 0 {
		if g != nil && g.logger != nil {
			g.logger.Warn("no devices loaded, nothing to reset")
		}

		return nil
	}

	var errs error

	for _, h := range g.handles {
		errs = multierr.Append(errs, h.ResetConfig())
	}

	return errs
}
