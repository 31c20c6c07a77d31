package graph_test

import (
	"errors"
	"testing"

	"github.com/benchrig/rig/config"
	"github.com/benchrig/rig/graph"
	"github.com/benchrig/rig/handle"
	"github.com/benchrig/rig/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph constructs a graph of the given fakeHandles, in order.
func buildGraph(t *testing.T, fakes []*fakeHandle) *graph.Graph {
	t.Helper()

	byName := map[string]*fakeHandle{}
	root := config.NewSection()

	for _, fake := range fakes {
		byName[fake.name] = fake
		root.Set(fake.name, section("type", "Fake"))
	}

	reg := registry.FromMap(map[string]registry.Factory{
		"Fake": func(name string, _ map[string]any) (handle.Handle, error) {
			return byName[name], nil
		},
	})

	g, err := graph.NewBuilder().Build(root, reg)
	require.NoError(t, err)

	return g
}

func TestCmdFirst(t *testing.T) {
	t.Parallel()

	d1 := &fakeHandle{name: "d1", out: "from d1"}
	d2 := &fakeHandle{name: "d2", out: "from d2"}
	g := buildGraph(t, []*fakeHandle{d1, d2})

	out, err := g.CmdFirst("uname", handle.CmdOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from d1", out)
	assert.Equal(t, 0, d2.cmdCalls)
}

func TestCmdFirst_EmptyGraph(t *testing.T) {
	t.Parallel()

	var g *graph.Graph

	_, err := g.CmdFirst("uname", handle.CmdOptions{})

	var noDev *graph.NoDeviceError

	require.ErrorAs(t, err, &noDev)
	assert.ErrorIs(t, err, graph.ErrGraph)
}

func TestCmdAny_ShortCircuitsOnFirstSuccess(t *testing.T) {
	t.Parallel()

	d1 := &fakeHandle{name: "d1", cmdErr: errors.New("d1 down")}
	d2 := &fakeHandle{name: "d2", cmdErr: errors.New("d2 down")}
	d3 := &fakeHandle{name: "d3", out: "from d3"}
	d4 := &fakeHandle{name: "d4", out: "from d4"}
	g := buildGraph(t, []*fakeHandle{d1, d2, d3, d4})

	out, err := g.CmdAny("uname", handle.CmdOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from d3", out)
	assert.Equal(t, 1, d1.cmdCalls)
	assert.Equal(t, 1, d2.cmdCalls)
	assert.Equal(t, 1, d3.cmdCalls)
	assert.Equal(t, 0, d4.cmdCalls, "handles after the first success must not be contacted")
}

func TestCmdAny_AllFail(t *testing.T) {
	t.Parallel()

	err1 := errors.New("d1 down")
	err2 := errors.New("d2 down")
	d1 := &fakeHandle{name: "d1", cmdErr: err1}
	d2 := &fakeHandle{name: "d2", cmdErr: err2}
	g := buildGraph(t, []*fakeHandle{d1, d2})

	_, err := g.CmdAny("uname", handle.CmdOptions{})

	var cantHandle *graph.CantHandleError

	require.ErrorAs(t, err, &cantHandle)
	assert.Equal(t, "uname", cantHandle.Msg)
	require.Len(t, cantHandle.Attempts, 2)
	assert.Equal(t, "d1", cantHandle.Attempts[0].Handle)
	assert.Equal(t, "d2", cantHandle.Attempts[1].Handle)
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)
	assert.ErrorIs(t, err, graph.ErrGraph)
}

func TestCmdAny_EmptyGraph(t *testing.T) {
	t.Parallel()

	var g *graph.Graph

	_, err := g.CmdAny("uname", handle.CmdOptions{})

	var noDev *graph.NoDeviceError

	require.ErrorAs(t, err, &noDev)
}

func TestCmdAll_ContactsEveryHandle(t *testing.T) {
	t.Parallel()

	err1 := errors.New("d1 down")
	err2 := errors.New("d2 down")
	d1 := &fakeHandle{name: "d1", cmdErr: err1}
	d2 := &fakeHandle{name: "d2", cmdErr: err2}
	d3 := &fakeHandle{name: "d3", out: "from d3"}
	d4 := &fakeHandle{name: "d4", out: "from d4"}
	g := buildGraph(t, []*fakeHandle{d1, d2, d3, d4})

	outcomes, err := g.CmdAll("uname", handle.CmdOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.ErrorIs(t, outcomes[0].Err, err1)
	assert.ErrorIs(t, outcomes[1].Err, err2)
	require.NoError(t, outcomes[2].Err)
	assert.Equal(t, "from d3", outcomes[2].Result)
	require.NoError(t, outcomes[3].Err)
	assert.Equal(t, "from d4", outcomes[3].Result)

	assert.Equal(t, "d1", outcomes[0].Handle.Name())
	assert.Equal(t, "d4", outcomes[3].Handle.Name())
}

func TestCmdAll_EmptyGraphFails(t *testing.T) {
	t.Parallel()

	var g *graph.Graph

	_, err := g.CmdAll("uname", handle.CmdOptions{})

	var noDev *graph.NoDeviceError

	require.ErrorAs(t, err, &noDev)
}

func TestAt_IndexLookup(t *testing.T) {
	t.Parallel()

	d1 := &fakeHandle{name: "d1"}
	d2 := &fakeHandle{name: "d2"}
	g := buildGraph(t, []*fakeHandle{d1, d2})

	h, err := g.At(1)
	require.NoError(t, err)
	assert.Equal(t, "d2", h.Name())

	_, err = g.At(2)
	require.Error(t, err)

	_, err = g.At(-1)
	require.Error(t, err)
}

func TestNamed_LookupAndCache(t *testing.T) {
	t.Parallel()

	d1 := &fakeHandle{name: "d1"}
	d2 := &fakeHandle{name: "d2"}
	g := buildGraph(t, []*fakeHandle{d1, d2})

	h, err := g.Named("d2")
	require.NoError(t, err)
	assert.Equal(t, "d2", h.Name())

	h, err = g.Named("d2")
	require.NoError(t, err)
	assert.Equal(t, "d2", h.Name())
}

func TestNamed_UnknownNameCarriesAvailable(t *testing.T) {
	t.Parallel()

	d1 := &fakeHandle{name: "dev1"}
	d2 := &fakeHandle{name: "dev2"}
	g := buildGraph(t, []*fakeHandle{d1, d2})

	_, err := g.Named("dev3")

	var unknownName *graph.UnknownDeviceNameError

	require.ErrorAs(t, err, &unknownName)
	assert.Equal(t, "dev3", unknownName.Name)
	assert.Equal(t, []string{"dev1", "dev2"}, unknownName.Available)
	assert.ErrorIs(t, err, graph.ErrGraph)
}

func TestResetAll(t *testing.T) {
	t.Parallel()

	resetErr := errors.New("stuck")
	d1 := &fakeHandle{name: "d1", resetErr: resetErr}
	d2 := &fakeHandle{name: "d2"}
	g := buildGraph(t, []*fakeHandle{d1, d2})

	err := g.ResetAll()
	require.ErrorIs(t, err, resetErr)
	assert.Equal(t, 1, d1.resetCalls)
	assert.Equal(t, 1, d2.resetCalls, "a failing handle must not stop the sweep")
}

func TestResetAll_EmptyGraphIsFine(t *testing.T) {
	t.Parallel()

	var g *graph.Graph

	require.NoError(t, g.ResetAll())
}
