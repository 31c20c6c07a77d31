package handle

import (
	"fmt"
	"log/slog"

	"go.uber.org/multierr"
)

// Device abstracts one target device. It owns an ordered list of connection
// handles and optionally a backup-controller handle; commands fail over
// across the connections in order.
type Device struct {
	name   string
	prompt string
	conns  []Handle
	bcc    Handle
	byName map[string]Handle
	logger *slog.Logger
}

// NewDevice creates a Device owning the given connections and optional
// backup controller. A nil logger falls back to slog.Default.
func NewDevice(name string, conns []Handle, bcc Handle, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}

	return &Device{
		name:   name,
		conns:  conns,
		bcc:    bcc,
		byName: map[string]Handle{},
		logger: logger.With(slog.String("device", name)),
	}
}

// Name returns the device's section name.
func (d *Device) Name() string {
	return d.name
}

// Conns returns the device's connections in construction order. The
// returned slice is a copy.
func (d *Device) Conns() []Handle {
	conns := make([]Handle, len(d.conns))
	copy(conns, d.conns)

	return conns
}

// BackupController returns the device's backup-controller handle, or nil.
func (d *Device) BackupController() Handle {
	return d.bcc
}

// Prompt returns the device's configured prompt pattern, or the empty
// string when the connections' own prompt handling applies.
func (d *Device) Prompt() string {
	return d.prompt
}

// Cmd sends msg over the device's connections in order and returns the
// first successful output. Per-connection failures are collected; if every
// connection fails, the aggregate is reported as a CmdError.
func (d *Device) Cmd(msg string, opts CmdOptions) (string, error) {
	if len(d.conns) == 0 {
		return "", &CmdError{Handle: d.name, Cause: ErrNoConnections}
	}

	var errs error

	for _, conn := range d.conns {
		d.logger.Debug("sending command", slog.String("conn", conn.Name()), slog.String("msg", msg))

		out, err := conn.Cmd(msg, opts)
		if err == nil {
			return out, nil
		}

		errs = multierr.Append(errs, fmt.Errorf("%s: %w", conn.Name(), err))
	}

	return "", &CmdError{Handle: d.name, Cause: errs}
}

// Conn returns the connection at the given zero-based index.
func (d *Device) Conn(i int) (Handle, error) {
	if i < 0 || i >= len(d.conns) {
		return nil, fmt.Errorf("device %q: connection index %d out of range [0,%d)", d.name, i, len(d.conns))
	}

	return d.conns[i], nil
}

// ConnNamed returns the connection carrying the given name. Lookups are
// cached after the first scan.
func (d *Device) ConnNamed(name string) (Handle, error) {
	if conn, ok := d.byName[name]; ok {
		return conn, nil
	}

	names := make([]string, 0, len(d.conns))

	for _, conn := range d.conns {
		if conn.Name() == name {
			d.byName[name] = conn

			return conn, nil
		}

		names = append(names, conn.Name())
	}

	return nil, fmt.Errorf("device %q: no connection named %q (available: %v)", d.name, name, names)
}

// CloseAll closes every connection and the backup controller. Individual
// failures are collected; the rest of the sequence still runs.
func (d *Device) CloseAll() error {
	var errs error

	for _, conn := range d.conns {
		errs = multierr.Append(errs, conn.CloseAll())
	}

	if d.bcc != nil {
		errs = multierr.Append(errs, d.bcc.CloseAll())
	}

	if errs != nil {
		return &CloseError{Handle: d.name, Cause: errs}
	}

	return nil
}

// ResetConfig resets the interaction state of every connection. Failures
// are collected rather than aborting the sequence.
func (d *Device) ResetConfig() error {
	var errs error

	for _, conn := range d.conns {
		errs = multierr.Append(errs, conn.ResetConfig())
	}

	if errs != nil {
		return &ResetError{Handle: d.name, Cause: errs}
	}

	return nil
}

func (d *Device) String() string {
	names := make([]string, len(d.conns))
	for i, conn := range d.conns {
		names[i] = conn.Name()
	}

	return fmt.Sprintf("Device(%s,conns:%v)", d.name, names)
}
