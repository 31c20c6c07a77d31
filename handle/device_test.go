package handle_test

import (
	"errors"
	"testing"

	"github.com/benchrig/rig/handle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is a scripted connection handle.
type fakeConn struct {
	name     string
	out      string
	cmdErr   error
	closeErr error
	resetErr error

	cmdCalls   int
	closeCalls int
	resetCalls int
}

func (f *fakeConn) Name() string { return f.name }

func (f *fakeConn) Cmd(string, handle.CmdOptions) (string, error) {
	f.cmdCalls++

	return f.out, f.cmdErr
}

func (f *fakeConn) CloseAll() error {
	f.closeCalls++

	return f.closeErr
}

func (f *fakeConn) ResetConfig() error {
	f.resetCalls++

	return f.resetErr
}

func TestDevice_CmdFirstSuccessWins(t *testing.T) {
	t.Parallel()

	broken := &fakeConn{name: "serial1", cmdErr: errors.New("line dead")}
	working := &fakeConn{name: "shell1", out: "hello"}
	spare := &fakeConn{name: "shell2", out: "unused"}

	dev := handle.NewDevice("dev1", []handle.Handle{broken, working, spare}, nil, nil)

	out, err := dev.Cmd("echo hello", handle.CmdOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 1, broken.cmdCalls)
	assert.Equal(t, 1, working.cmdCalls)
	assert.Equal(t, 0, spare.cmdCalls, "later connections must not be contacted after a success")
}

func TestDevice_CmdAllConnectionsFail(t *testing.T) {
	t.Parallel()

	err1 := errors.New("line dead")
	err2 := errors.New("host unreachable")

	dev := handle.NewDevice("dev1", []handle.Handle{
		&fakeConn{name: "serial1", cmdErr: err1},
		&fakeConn{name: "shell1", cmdErr: err2},
	}, nil, nil)

	_, err := dev.Cmd("uname -a", handle.CmdOptions{})
	require.Error(t, err)

	var cmdErr *handle.CmdError

	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "dev1", cmdErr.Handle)
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)
}

func TestDevice_CmdNoConnections(t *testing.T) {
	t.Parallel()

	dev := handle.NewDevice("dev1", nil, nil, nil)

	_, err := dev.Cmd("ls", handle.CmdOptions{})
	require.ErrorIs(t, err, handle.ErrNoConnections)
}

func TestDevice_ConnLookup(t *testing.T) {
	t.Parallel()

	serial := &fakeConn{name: "serial1"}
	shell := &fakeConn{name: "shell1"}

	dev := handle.NewDevice("dev1", []handle.Handle{serial, shell}, nil, nil)

	got, err := dev.Conn(1)
	require.NoError(t, err)
	assert.Same(t, shell, got)

	_, err = dev.Conn(2)
	require.Error(t, err)

	got, err = dev.ConnNamed("serial1")
	require.NoError(t, err)
	assert.Same(t, serial, got)

	// cached lookup returns the same handle
	got, err = dev.ConnNamed("serial1")
	require.NoError(t, err)
	assert.Same(t, serial, got)

	_, err = dev.ConnNamed("usb9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serial1")
	assert.Contains(t, err.Error(), "shell1")
}

func TestDevice_CloseAllClosesEverything(t *testing.T) {
	t.Parallel()

	serial := &fakeConn{name: "serial1"}
	shell := &fakeConn{name: "shell1"}
	bcc := &fakeConn{name: "bctrl"}

	dev := handle.NewDevice("dev1", []handle.Handle{serial, shell}, bcc, nil)

	require.NoError(t, dev.CloseAll())
	assert.Equal(t, 1, serial.closeCalls)
	assert.Equal(t, 1, shell.closeCalls)
	assert.Equal(t, 1, bcc.closeCalls)
}

func TestDevice_CloseAllCollectsFailures(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("port busy")
	serial := &fakeConn{name: "serial1", closeErr: closeErr}
	shell := &fakeConn{name: "shell1"}

	dev := handle.NewDevice("dev1", []handle.Handle{serial, shell}, nil, nil)

	err := dev.CloseAll()
	require.Error(t, err)

	var ce *handle.CloseError

	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, closeErr)
	assert.Equal(t, 1, shell.closeCalls, "failure on one connection must not skip the rest")
}

func TestDevice_ResetConfigForwards(t *testing.T) {
	t.Parallel()

	resetErr := errors.New("cannot reset")
	serial := &fakeConn{name: "serial1", resetErr: resetErr}
	shell := &fakeConn{name: "shell1"}

	dev := handle.NewDevice("dev1", []handle.Handle{serial, shell}, nil, nil)

	err := dev.ResetConfig()
	require.Error(t, err)

	var re *handle.ResetError

	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, resetErr)
	assert.Equal(t, 1, shell.resetCalls)
}

func TestDevice_Accessors(t *testing.T) {
	t.Parallel()

	serial := &fakeConn{name: "serial1"}
	bcc := &fakeConn{name: "bctrl"}
	dev := handle.NewDevice("dev1", []handle.Handle{serial}, bcc, nil)

	assert.Equal(t, "dev1", dev.Name())
	assert.Same(t, bcc, dev.BackupController())

	conns := dev.Conns()
	require.Len(t, conns, 1)

	conns[0] = nil
	got, err := dev.Conn(0)
	require.NoError(t, err)
	assert.Same(t, serial, got, "Conns must return a copy")
}
