// Package graph builds handle graphs from merged configuration trees and
// dispatches commands across them.
//
// The Builder walks a config.Section tree recursively: every top-level key
// becomes one handle, "conns" sub-sections become ordered connection lists,
// and "bctrl" (or its deprecated alias "bcc") becomes a backup-controller
// handle. The resulting Graph offers first-handle, first-success and
// broadcast command dispatch plus index and name lookup.
package graph
