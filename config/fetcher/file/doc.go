// Package file provides a file-based implementation of the
// config.DataFetcher interface with read-at-construction caching.
package file
