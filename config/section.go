package config

import (
	"time"

	"github.com/spf13/cast"
)

// Section is one named node of a fixture configuration tree. It maps string
// keys to scalar values, lists of scalars, or nested *Section values.
//
// Within a Section child keys are unique and insertion order is preserved.
// The order is observable: the object-graph builder constructs handles in
// key order.
type Section struct {
	keys   []string
	values map[string]any
}

// NewSection creates an empty Section.
func NewSection() *Section {
	return &Section{values: map[string]any{}}
}

// Set stores value under key. Setting an existing key replaces its value but
// keeps the key's original position.
func (s *Section) Set(key string, value any) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}

	s.values[key] = value
}

// Get returns the value stored under key.
func (s *Section) Get(key string) (any, bool) {
	v, ok := s.values[key]

	return v, ok
}

// Child returns the nested Section stored under key, if the value at key is
// a Section.
func (s *Section) Child(key string) (*Section, bool) {
	child, ok := s.values[key].(*Section)

	return child, ok
}

// Keys returns the section's keys in insertion order. The returned slice is
// a copy.
func (s *Section) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)

	return keys
}

// Len returns the number of keys in the section.
func (s *Section) Len() int {
	return len(s.keys)
}

// Delete removes key and its value. Deleting an absent key is a no-op.
func (s *Section) Delete(key string) {
	if _, exists := s.values[key]; !exists {
		return
	}

	delete(s.values, key)

	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)

			break
		}
	}
}

// Clone returns a deep copy of the section. Nested sections are cloned
// recursively; list values are copied element-wise.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}

	clone := NewSection()

	for _, key := range s.keys {
		clone.Set(key, cloneValue(s.values[key]))
	}

	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Section:
		return val.Clone()
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = cloneValue(item)
		}

		return list
	default:
		return v
	}
}

// Attrs returns the section's key/value pairs as a plain map. Nested
// sections and lists are carried over as-is; the returned map is a fresh
// copy at the top level.
func (s *Section) Attrs() map[string]any {
	attrs := make(map[string]any, len(s.keys))
	for _, key := range s.keys {
		attrs[key] = s.values[key]
	}

	return attrs
}

// GetString returns the value under key coerced to a string, or fallback if
// the key is absent.
func (s *Section) GetString(key, fallback string) string {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}

	return cast.ToString(v)
}

// GetInt returns the value under key coerced to an int, or fallback if the
// key is absent or not coercible.
func (s *Section) GetInt(key string, fallback int) int {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return fallback
	}

	return n
}

// GetBool returns the value under key coerced to a bool, or fallback if the
// key is absent or not coercible.
func (s *Section) GetBool(key string, fallback bool) bool {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return fallback
	}

	return b
}

// GetDuration returns the value under key coerced to a time.Duration, or
// fallback if the key is absent or not coercible. Bare numbers are read as
// nanoseconds, strings via time.ParseDuration.
func (s *Section) GetDuration(key string, fallback time.Duration) time.Duration {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}

	d, err := cast.ToDurationE(v)
	if err != nil {
		return fallback
	}

	return d
}

// GetStringSlice returns the value under key coerced to a string slice, or
// nil if the key is absent or not coercible.
func (s *Section) GetStringSlice(key string) []string {
	v, ok := s.values[key]
	if !ok {
		return nil
	}

	list, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}

	return list
}

// merge recursively merges src into s. For each key in src: if both sides
// hold a Section, the sections are merged key by key; otherwise src's value
// replaces s's value wholesale, discarding anything previously nested there.
func (s *Section) merge(src *Section) {
	for _, key := range src.keys {
		newVal := src.values[key]

		oldSec, oldIsSec := s.values[key].(*Section)
		newSec, newIsSec := newVal.(*Section)

		if oldIsSec && newIsSec {
			oldSec.merge(newSec)

			continue
		}

		s.Set(key, cloneValue(newVal))
	}
}
