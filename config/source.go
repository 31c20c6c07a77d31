package config

import "fmt"

// Parser deserializes raw configuration data into a Section tree. The
// concrete on-disk syntax is the parser's concern; this package only cares
// about the resulting nested-mapping shape. See config/parser/yaml for an
// implementation using goccy/go-yaml.
type Parser interface {
	Parse(data []byte) (*Section, error)
}

// DataFetcher reads raw configuration data from some origin (a file, an
// environment blob, a test literal).
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator is implemented by handle configuration structs that want to be
// validated after decoding.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by handle configuration structs that want default
// values applied before validation.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Load fetches raw data and parses it into a Section tree. It is the
// composition used by the fixture layer whenever a source is supplied as a
// fetcher/parser pair rather than an already-built Section.
func Load(fetcher DataFetcher, parser Parser) (*Section, error) {
	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("reading data error: %w", err)
	}

	section, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	return section, nil
}
