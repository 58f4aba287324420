// Package theme defines the consumer side of resource resolution:
// themes expose named items, the manager fills them from resources.
package theme

// Item is a single named slot populated from a resource value.
type Item interface {
	// Name is the resource name the item is resolved under.
	Name() string

	// SetFromString parses s into the item. It returns false when s is
	// not a valid value, in which case the item holds its default.
	SetFromString(s string) bool

	// AuxLoad runs item-specific loading after a successful SetFromString
	// (for example locating a pixmap file).
	AuxLoad(name string)

	// SetDefault resets the item to its compiled-in default.
	SetDefault()
}

// Lookup resolves a resource name against the active store.
type Lookup func(name string) (string, bool)

// FallbackFunc tries an alternate resolution for an item that could not
// be resolved by its own name. It reports whether the item was set.
type FallbackFunc func(item Item, lookup Lookup) bool

// Theme is a consumer of resolved resources.
type Theme interface {
	Name() string
	Items() []Item
	// Fallback returns nil when the theme has no fallback capability.
	Fallback() FallbackFunc
}

// Set is a plain Theme made of an ordered item list.
type Set struct {
	name     string
	items    []Item
	fallback FallbackFunc
}

// NewSet creates a theme with the given items and no fallback.
func NewSet(name string, items ...Item) *Set {
	return &Set{name: name, items: items}
}

// WithFallback attaches a fallback and returns the set.
func (s *Set) WithFallback(fn FallbackFunc) *Set {
	s.fallback = fn
	return s
}

// Add appends items.
func (s *Set) Add(items ...Item) {
	s.items = append(s.items, items...)
}

// Name returns the theme name.
func (s *Set) Name() string { return s.name }

// Items returns the items in declaration order.
func (s *Set) Items() []Item { return s.items }

// Fallback returns the fallback, or nil.
func (s *Set) Fallback() FallbackFunc { return s.fallback }

// AltNames builds a fallback that tries alternate resource names per item,
// in order. Items without alternates are left unresolved.
func AltNames(alts map[string][]string) FallbackFunc {
	return func(item Item, lookup Lookup) bool {
		for _, alt := range alts[item.Name()] {
			v, ok := lookup(alt)
			if !ok {
				continue
			}
			if item.SetFromString(v) {
				item.AuxLoad(alt)
				return true
			}
		}
		return false
	}
}

var _ Theme = (*Set)(nil)
