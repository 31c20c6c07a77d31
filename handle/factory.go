package handle

import (
	"fmt"
	"log/slog"

	"github.com/benchrig/rig/config"

	"github.com/go-viper/mapstructure/v2"
)

// Connection kinds passed to a TransportOpener by the shipped connection
// handles.
const (
	KindSerial = "serial"
	KindShell  = "shell"
)

// Shipped type tags. The default tag set is replaceable wholesale; the
// object-graph builder never special-cases any of these strings.
const (
	TagDevice = "Device"
	TagSerial = "SerialConnection"
	TagShell  = "ShellConnection"
)

// FactoryOption configures the shipped handle factories.
type FactoryOption func(*factoryOptions)

type factoryOptions struct {
	logger *slog.Logger
	opener TransportOpener
}

// WithLogger sets the logger handed to constructed handles.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(o *factoryOptions) {
		o.logger = logger
	}
}

// WithTransportOpener sets the opener connection handles use to obtain
// their transports. Without one, every Cmd on a shipped connection fails
// with ErrNoTransport.
func WithTransportOpener(opener TransportOpener) FactoryOption {
	return func(o *factoryOptions) {
		o.opener = opener
	}
}

func applyFactoryOptions(opts []FactoryOption) factoryOptions {
	var options factoryOptions

	for _, apply := range opts {
		apply(&options)
	}

	return options
}

// DeviceConfig holds the attributes of a device section that remain after
// the builder consumed type, conns, bcc and name.
type DeviceConfig struct {
	Prompt string `attr:"prompt"`
}

// NewDeviceFactory returns a factory for the Device type tag. The attrs
// map may carry "conns" ([]Handle) and "bcc" (Handle) entries produced by
// the object-graph builder; everything else is decoded into DeviceConfig,
// and unknown attributes are an error.
func NewDeviceFactory(opts ...FactoryOption) func(name string, attrs map[string]any) (Handle, error) {
	options := applyFactoryOptions(opts)

	return func(name string, attrs map[string]any) (Handle, error) {
		rest := copyAttrs(attrs)

		conns, err := takeHandleList(rest, "conns")
		if err != nil {
			return nil, err
		}

		bcc, err := takeHandle(rest, "bcc")
		if err != nil {
			return nil, err
		}

		var cfg DeviceConfig

		err = decodeAttrs(rest, &cfg)
		if err != nil {
			return nil, err
		}

		device := NewDevice(name, conns, bcc, options.logger)
		device.prompt = cfg.Prompt

		return device, nil
	}
}

// NewSerialFactory returns a factory for the SerialConnection type tag.
func NewSerialFactory(opts ...FactoryOption) func(name string, attrs map[string]any) (Handle, error) {
	options := applyFactoryOptions(opts)

	return func(name string, attrs map[string]any) (Handle, error) {
		var cfg SerialConfig

		err := decodeAttrs(copyAttrs(attrs), &cfg)
		if err != nil {
			return nil, err
		}

		return NewSerialConnection(name, cfg, options.opener, options.logger), nil
	}
}

// NewShellFactory returns a factory for the ShellConnection type tag.
func NewShellFactory(opts ...FactoryOption) func(name string, attrs map[string]any) (Handle, error) {
	options := applyFactoryOptions(opts)

	return func(name string, attrs map[string]any) (Handle, error) {
		var cfg ShellConfig

		err := decodeAttrs(copyAttrs(attrs), &cfg)
		if err != nil {
			return nil, err
		}

		return NewShellConnection(name, cfg, options.opener, options.logger), nil
	}
}

func copyAttrs(attrs map[string]any) map[string]any {
	rest := make(map[string]any, len(attrs))

	for key, value := range attrs {
		if key == "name" {
			continue
		}

		rest[key] = value
	}

	return rest
}

func takeHandleList(attrs map[string]any, key string) ([]Handle, error) {
	raw, ok := attrs[key]
	if !ok {
		return nil, nil
	}

	delete(attrs, key)

	handles, ok := raw.([]Handle)
	if !ok {
		return nil, fmt.Errorf("attribute %q: expected a handle list, got %T", key, raw)
	}

	return handles, nil
}

func takeHandle(attrs map[string]any, key string) (Handle, error) {
	raw, ok := attrs[key]
	if !ok {
		return nil, nil
	}

	delete(attrs, key)

	h, ok := raw.(Handle)
	if !ok {
		return nil, fmt.Errorf("attribute %q: expected a handle, got %T", key, raw)
	}

	return h, nil
}

// decodeAttrs decodes an attribute map into target, applies defaults and
// validates. Unknown attributes fail the decode, which surfaces as a
// construction error for the section.
func decodeAttrs(attrs map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "attr",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building attribute decoder: %w", err)
	}

	err = decoder.Decode(attrs)
	if err != nil {
		return fmt.Errorf("decoding attributes: %w", err)
	}

	if defaulter, ok := target.(config.Defaulter); ok {
		defaulter.SetDefaults()
	}

	if validator, ok := target.(config.Validator); ok {
		err = validator.Validate()
		if err != nil {
			return fmt.Errorf("validating attributes: %w", err)
		}
	}

	return nil
}

func errMissingAttr(attr string) error {
	return fmt.Errorf("required attribute %q is missing", attr)
}
