package config

import "errors"

// ErrConfig is the root of the configuration error branch. Every structured
// configuration error (empty config, missing or unknown type tag,
// construction failure) matches it via errors.Is.
var ErrConfig = errors.New("fixture configuration error")

// Store holds the merged root Section of a fixture. Sources are merged in
// the order they are supplied; later sources override earlier ones at the
// first point where their shapes diverge (see Section merge semantics).
//
// A Store performs no validation. Malformed trees are only rejected when the
// object graph is built from them.
type Store struct {
	root *Section
}

// NewStore creates a Store with an empty root.
func NewStore() *Store {
	return &Store{root: NewSection()}
}

// Merge merges src into the store's root. A nil src is a no-op. The source
// section is not retained: merged values are deep-copied, so callers may
// reuse or mutate src afterwards.
func (s *Store) Merge(src *Section) {
	if src == nil {
		return
	}

	s.root.merge(src)
}

// Root returns the store's merged root section.
func (s *Store) Root() *Section {
	return s.root
}

// Len returns the number of top-level keys in the merged root.
func (s *Store) Len() int {
	return s.root.Len()
}

// Reset discards all merged configuration, leaving the store empty.
func (s *Store) Reset() {
	s.root = NewSection()
}
