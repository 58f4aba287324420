// Package resource provides the in-memory resource model and the
// name resolution rules used by themes.
// Pure data and functions, no I/O.
package resource

import (
	"sort"
	"strings"
)

// Pattern is a wildcard key split around its '*'.
// A pattern with an empty Suffix never matches anything.
type Pattern struct {
	Prefix string
	Suffix string
}

// ParsePattern splits a raw key on its first '*'.
// ok is false when the key has no '*'.
func ParsePattern(key string) (Pattern, bool) {
	i := strings.IndexByte(key, '*')
	if i < 0 {
		return Pattern{}, false
	}
	return Pattern{Prefix: key[:i], Suffix: key[i+1:]}, true
}

// String returns the pattern in its file form.
func (p Pattern) String() string {
	return p.Prefix + "*" + p.Suffix
}

// Wildcard is a pattern with its value, kept in file order.
type Wildcard struct {
	Pattern Pattern
	Value   string
}

// Store holds exact resources and wildcard resources.
// All keys are lower-cased on insert. The zero value is not usable; use NewStore.
type Store struct {
	exact     map[string]string
	wildcards []Wildcard
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{exact: make(map[string]string)}
}

// Set inserts a resource. Keys containing '*' go to the wildcard list
// (appended, order preserved), all others overwrite the exact entry.
func (s *Store) Set(key, value string) {
	key = strings.ToLower(key)
	if p, ok := ParsePattern(key); ok {
		s.wildcards = append(s.wildcards, Wildcard{Pattern: p, Value: value})
		return
	}
	s.exact[key] = value
}

// Get returns the exact entry for key without wildcard fallback.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.exact[strings.ToLower(key)]
	return v, ok
}

// Lookup resolves name against the store. See Resolve.
func (s *Store) Lookup(name string) (string, bool) {
	return Resolve(s, name)
}

// MergeExact copies the exact entries of other over s.
// Wildcards of other are not copied.
func (s *Store) MergeExact(other *Store) int {
	if other == nil {
		return 0
	}
	for k, v := range other.exact {
		s.exact[k] = v
	}
	return len(other.exact)
}

// Reset drops every entry.
func (s *Store) Reset() {
	s.exact = make(map[string]string)
	s.wildcards = nil
}

// Len returns the total number of entries.
func (s *Store) Len() int {
	return len(s.exact) + len(s.wildcards)
}

// ExactLen returns the number of exact entries.
func (s *Store) ExactLen() int {
	return len(s.exact)
}

// WildcardLen returns the number of wildcard entries.
func (s *Store) WildcardLen() int {
	return len(s.wildcards)
}

// Keys returns the exact keys, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.exact))
	for k := range s.exact {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Exact returns a copy of the exact entries.
func (s *Store) Exact() map[string]string {
	out := make(map[string]string, len(s.exact))
	for k, v := range s.exact {
		out[k] = v
	}
	return out
}

// Wildcards returns a copy of the wildcard entries in file order.
func (s *Store) Wildcards() []Wildcard {
	out := make([]Wildcard, len(s.wildcards))
	copy(out, s.wildcards)
	return out
}

// Clone returns a deep copy.
func (s *Store) Clone() *Store {
	return &Store{
		exact:     s.Exact(),
		wildcards: s.Wildcards(),
	}
}
