package handle

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout is applied when CmdOptions.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// CmdOptions carries the optional parameters of a Cmd call.
type CmdOptions struct {
	// Expect is a regex source matched against the output instead of the
	// default prompt. Empty means the handle's own prompt handling applies.
	Expect string
	// Timeout bounds the command exchange. Zero means DefaultTimeout. The
	// value is forwarded to the transport; this layer does not schedule or
	// cancel anything itself.
	Timeout time.Duration
	// LoginTimeout bounds an initial login handshake; zero means the
	// transport's own default.
	LoginTimeout time.Duration
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset.
func (o CmdOptions) EffectiveTimeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}

	return o.Timeout
}

// Handle is the capability set every constructed device or connection
// object satisfies. Factories registered in a type registry return Handles;
// the fixture layer never sees anything more specific.
type Handle interface {
	// Name returns the handle's section name.
	Name() string
	// Cmd sends a shell command and returns its output.
	Cmd(msg string, opts CmdOptions) (string, error)
	// CloseAll releases the handle and everything it owns.
	CloseAll() error
	// ResetConfig restores the handle's interaction state so the next Cmd
	// starts fresh.
	ResetConfig() error
}

// ErrNoTransport is returned when a connection is used without a transport
// opener configured.
var ErrNoTransport = errors.New("no transport opener configured")

// ErrNoConnections is returned when a device without connections is asked
// to run a command.
var ErrNoConnections = errors.New("device has no connections")

// CmdError reports a failed command exchange, naming the handle it failed
// on.
type CmdError struct {
	Handle string
	Cause  error
}

func (e *CmdError) Error() string {
	return fmt.Sprintf("handle %q: cmd: %v", e.Handle, e.Cause)
}

func (e *CmdError) Unwrap() error {
	return e.Cause
}

// CloseError reports a failed close.
type CloseError struct {
	Handle string
	Cause  error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("handle %q: close: %v", e.Handle, e.Cause)
}

func (e *CloseError) Unwrap() error {
	return e.Cause
}

// ResetError reports a failed interaction-state reset.
type ResetError struct {
	Handle string
	Cause  error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("handle %q: reset: %v", e.Handle, e.Cause)
}

func (e *ResetError) Unwrap() error {
	return e.Cause
}
