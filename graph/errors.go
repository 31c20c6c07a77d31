package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benchrig/rig/config"
)

// ErrGraph is the root of the graph error branch. Every dispatch or lookup
// error (no device, unknown name, no handler) matches it via errors.Is.
var ErrGraph = errors.New("handle graph error")

// EmptyConfigError is returned when a build is attempted against a
// configuration root with zero top-level keys.
type EmptyConfigError struct{}

func (e *EmptyConfigError) Error() string {
	return "configuration is empty: have any fixture sources been read?"
}

func (e *EmptyConfigError) Unwrap() error {
	return config.ErrConfig
}

// MissingTypeError is returned when a section carries no "type" key, or
// when a top-level entry is not a section at all and therefore cannot
// carry one.
type MissingTypeError struct {
	Section string
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("section %q has no \"type\" key", e.Section)
}

func (e *MissingTypeError) Unwrap() error {
	return config.ErrConfig
}

// ConstructionError wraps a factory failure, naming the section whose
// handle could not be built.
type ConstructionError struct {
	Section string
	Cause   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing section %q: %v", e.Section, e.Cause)
}

func (e *ConstructionError) Unwrap() []error {
	return []error{config.ErrConfig, e.Cause}
}

// NoDeviceError is returned when an operation needs at least one device in
// the graph and the graph is empty.
type NoDeviceError struct {
	Op string
}

func (e *NoDeviceError) Error() string {
	return fmt.Sprintf("%s: no device loaded", e.Op)
}

func (e *NoDeviceError) Unwrap() error {
	return ErrGraph
}

// UnknownDeviceNameError is returned by a name lookup that matched no
// device. Available carries the names that would have matched.
type UnknownDeviceNameError struct {
	Name      string
	Available []string
}

func (e *UnknownDeviceNameError) Error() string {
	return fmt.Sprintf("no device named %q (available names: %v)", e.Name, e.Available)
}

func (e *UnknownDeviceNameError) Unwrap() error {
	return ErrGraph
}

// Attempt records one failed delivery during CmdAny.
type Attempt struct {
	Handle string
	Err    error
}

// CantHandleError is returned when every handle in the graph failed to
// execute a command. It lists each attempted handle and its failure.
type CantHandleError struct {
	Msg      string
	Attempts []Attempt
}

func (e *CantHandleError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "no device could handle command %q:", e.Msg)

	for _, attempt := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", attempt.Handle, attempt.Err)
	}

	return b.String()
}

func (e *CantHandleError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, ErrGraph)

	for _, attempt := range e.Attempts {
		errs = append(errs, attempt.Err)
	}

	return errs
}
