package handle

import (
	"log/slog"
	"net"
	"strconv"
	"time"
)

// Transport is the I/O collaborator behind a connection handle. Concrete
// serial or network-shell transports live outside this module; tests and
// hosts inject them through a TransportOpener.
type Transport interface {
	// Open establishes the channel. A zero login timeout means the
	// transport's own default.
	Open(loginTimeout time.Duration) error
	// Send writes msg and reads output until the prompt, or until expect
	// (a regex source) matches when non-empty.
	Send(msg, expect string, timeout time.Duration) (string, error)
	// Close releases the channel.
	Close() error
}

// TransportOpener produces an unopened Transport for a connection kind
// ("serial" or "shell") and target (a serial port path or a host:port).
type TransportOpener func(kind, target string) (Transport, error)

// transportConn is the shared body of the shipped connection kinds. It
// opens its transport lazily on first Cmd and drops it on close or reset.
type transportConn struct {
	name      string
	kind      string
	target    string
	opener    TransportOpener
	transport Transport
	logger    *slog.Logger
}

func (c *transportConn) Name() string {
	return c.name
}

// Target returns the connection's endpoint: the serial port path or the
// host:port of the shell.
func (c *transportConn) Target() string {
	return c.target
}

func (c *transportConn) Cmd(msg string, opts CmdOptions) (string, error) {
	if c.transport == nil {
		if c.opener == nil {
			return "", &CmdError{Handle: c.name, Cause: ErrNoTransport}
		}

		transport, err := c.opener(c.kind, c.target)
		if err != nil {
			return "", &CmdError{Handle: c.name, Cause: err}
		}

		err = transport.Open(opts.LoginTimeout)
		if err != nil {
			return "", &CmdError{Handle: c.name, Cause: err}
		}

		c.transport = transport
		c.logger.Debug("transport opened", slog.String("target", c.target))
	}

	out, err := c.transport.Send(msg, opts.Expect, opts.EffectiveTimeout())
	if err != nil {
		return "", &CmdError{Handle: c.name, Cause: err}
	}

	return out, nil
}

func (c *transportConn) CloseAll() error {
	if c.transport == nil {
		return nil
	}

	err := c.transport.Close()
	c.transport = nil

	if err != nil {
		return &CloseError{Handle: c.name, Cause: err}
	}

	return nil
}

// ResetConfig drops the cached transport so the next Cmd reconnects with a
// fresh interaction state.
func (c *transportConn) ResetConfig() error {
	if c.transport == nil {
		return nil
	}

	err := c.transport.Close()
	c.transport = nil

	if err != nil {
		return &ResetError{Handle: c.name, Cause: err}
	}

	return nil
}

// SerialConfig holds the attributes of a serial connection section.
type SerialConfig struct {
	Port     string `attr:"port"`
	User     string `attr:"user"`
	Password string `attr:"password"`
	Baud     int    `attr:"baud"`
	Prompt   string `attr:"prompt"`
}

// SetDefaults applies the default baud rate.
func (c *SerialConfig) SetDefaults() bool {
	if c.Baud == 0 {
		c.Baud = 115200

		return true
	}

	return false
}

// Validate checks that a serial port is configured.
func (c *SerialConfig) Validate() error {
	if c.Port == "" {
		return errMissingAttr("port")
	}

	return nil
}

// SerialConnection is a leaf handle speaking over a serial line.
type SerialConnection struct {
	transportConn

	cfg SerialConfig
}

// NewSerialConnection creates a serial connection handle. The transport is
// opened lazily on first Cmd via opener; a nil opener makes every Cmd fail
// with ErrNoTransport.
func NewSerialConnection(name string, cfg SerialConfig, opener TransportOpener, logger *slog.Logger) *SerialConnection {
	if logger == nil {
		logger = slog.Default()
	}

	return &SerialConnection{
		transportConn: transportConn{
			name:   name,
			kind:   KindSerial,
			target: cfg.Port,
			opener: opener,
			logger: logger.With(slog.String("conn", name)),
		},
		cfg: cfg,
	}
}

// Config returns the connection's decoded configuration.
func (c *SerialConnection) Config() SerialConfig {
	return c.cfg
}

// ShellConfig holds the attributes of a network-shell connection section.
type ShellConfig struct {
	Host     string `attr:"host"`
	Port     int    `attr:"port"`
	User     string `attr:"user"`
	Password string `attr:"password"`
	Prompt   string `attr:"prompt"`
}

// SetDefaults applies the default shell port.
func (c *ShellConfig) SetDefaults() bool {
	if c.Port == 0 {
		c.Port = 22

		return true
	}

	return false
}

// Validate checks that a host is configured.
func (c *ShellConfig) Validate() error {
	if c.Host == "" {
		return errMissingAttr("host")
	}

	return nil
}

// ShellConnection is a leaf handle speaking over a remote shell channel.
type ShellConnection struct {
	transportConn

	cfg ShellConfig
}

// NewShellConnection creates a network-shell connection handle.
func NewShellConnection(name string, cfg ShellConfig, opener TransportOpener, logger *slog.Logger) *ShellConnection {
	if logger == nil {
		logger = slog.Default()
	}

	return &ShellConnection{
		transportConn: transportConn{
			name:   name,
			kind:   KindShell,
			target: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			opener: opener,
			logger: logger.With(slog.String("conn", name)),
		},
		cfg: cfg,
	}
}

// Config returns the connection's decoded configuration.
func (c *ShellConnection) Config() ShellConfig {
	return c.cfg
}
