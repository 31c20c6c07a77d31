// Package registry maps configuration type tags to handle factories.
package registry
