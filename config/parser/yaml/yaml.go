package yaml

import (
	"errors"
	"fmt"

	"github.com/benchrig/rig/config"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrNotMapping is returned when the document's top level is not a mapping.
var ErrNotMapping = errors.New("top level is not a mapping")

// Parser implements config.Parser for YAML data. It decodes with
// goccy/go-yaml in ordered-map mode so that document order is preserved all
// the way into the Section tree; construction order of the handle graph
// follows it.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses YAML data into a Section tree. The document's top level must
// be a mapping; mapping values become nested Sections, sequences become
// lists, everything else stays a scalar.
func (p *Parser) Parse(data []byte) (*config.Section, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	var doc any

	err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap())
	if err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	mapping, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, doc)
	}

	return toSection(mapping)
}

func toSection(mapping yaml.MapSlice) (*config.Section, error) {
	section := config.NewSection()

	for _, item := range mapping {
		key, err := cast.ToStringE(item.Key)
		if err != nil {
			return nil, fmt.Errorf("non-string key %v: %w", item.Key, err)
		}

		value, err := toValue(item.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		section.Set(key, value)
	}

	return section, nil
}

func toValue(v any) (any, error) {
	switch val := v.(type) {
	case yaml.MapSlice:
		return toSection(val)
	case []any:
		list := make([]any, len(val))

		for i, item := range val {
			converted, err := toValue(item)
			if err != nil {
				return nil, err
			}

			list[i] = converted
		}

		return list, nil
	default:
		return v, nil
	}
}
