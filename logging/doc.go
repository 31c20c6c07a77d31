// Package logging builds the slog loggers used across the fixture layer.
package logging
