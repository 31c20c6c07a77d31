// Package yaml provides a YAML implementation of the config.Parser
// interface using goccy/go-yaml.
//
// The parser decodes in ordered-map mode, so the key order of the YAML
// document is preserved in the resulting Section tree and therefore drives
// handle construction order.
package yaml
