package rig

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
)

// ErrEmptyName is returned when a fixture module is created without a name.
var ErrEmptyName = errors.New("fixture module name must not be empty")

// NewModule creates an Fx module supplying a named *Fixture. The name is
// used as the module name, the fixture name, and the DI named tag. The
// fixture is closed on application stop, which guarantees handle teardown
// for the lifetime of the container.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	return fx.Module(name,
		fx.Provide(
			fx.Annotate(
				func(lifecycle fx.Lifecycle) *Fixture {
					fixture := New(append([]Option{WithName(name)}, opts...)...)

					lifecycle.Append(fx.Hook{
						OnStop: func(context.Context) error {
							return fixture.Close()
						},
					})

					return fixture
				},
				fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
			),
		),
	)
}
