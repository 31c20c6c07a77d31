// Package config holds the fixture configuration data model.
//
// The model is an abstract nested mapping: a Section maps string keys to
// scalars, lists of scalars, or nested Sections, preserving insertion order.
// A Store accumulates Sections from any number of sources with deterministic
// override rules: sources merge depth-first, and at the first key where the
// two sides stop being Sections the later source's value replaces the
// earlier one wholesale.
//
// The package uses an interface-based design with four extension points:
//   - Parser: deserializes raw data into a Section tree
//   - DataFetcher: retrieves raw config data (file, test literal, etc.)
//   - Validator: validates a decoded handle configuration
//   - Defaulter: applies default values before validation
//
// # Merge semantics
//
// Given two sources
//
//	# site.yaml                # bench.yaml
//	dev1:                      dev1:
//	  type: Device               conns:
//	  conns:                       serial1:
//	    serial1:                     port: /dev/ttyUSB1
//	      type: SerialConnection
//	      port: /dev/ttyUSB0
//
// merging site.yaml then bench.yaml yields dev1 with its type intact and
// serial1's port overridden to /dev/ttyUSB1. Had bench.yaml set conns to a
// scalar, the whole conns subtree from site.yaml would be discarded.
package config
