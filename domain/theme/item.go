package theme

import (
	"strconv"
	"strings"
)

// Value is a typed item with a parse function and a compiled-in default.
type Value[T any] struct {
	name   string
	def    T
	val    T
	parse  func(string) (T, bool)
	loaded bool
}

// NewValue creates an item holding def until it is loaded.
func NewValue[T any](name string, def T, parse func(string) (T, bool)) *Value[T] {
	return &Value[T]{name: name, def: def, val: def, parse: parse}
}

// Name returns the resource name.
func (v *Value[T]) Name() string { return v.name }

// Get returns the current value.
func (v *Value[T]) Get() T { return v.val }

// Default returns the compiled-in default.
func (v *Value[T]) Default() T { return v.def }

// Loaded reports whether the current value came from a resource.
func (v *Value[T]) Loaded() bool { return v.loaded }

// SetFromString parses s. On failure the item is reset to its default.
func (v *Value[T]) SetFromString(s string) bool {
	parsed, ok := v.parse(s)
	if !ok {
		v.SetDefault()
		return false
	}
	v.val = parsed
	v.loaded = true
	return true
}

// AuxLoad does nothing for plain values.
func (v *Value[T]) AuxLoad(string) {}

// SetDefault resets to the default.
func (v *Value[T]) SetDefault() {
	v.val = v.def
	v.loaded = false
}

// String creates a string item. Any value is accepted.
func String(name, def string) *Value[string] {
	return NewValue(name, def, func(s string) (string, bool) { return s, true })
}

// Int creates an integer item.
func Int(name string, def int) *Value[int] {
	return NewValue(name, def, func(s string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	})
}

// Bool creates a boolean item. Accepts true/false, yes/no, on/off, 1/0.
func Bool(name string, def bool) *Value[bool] {
	return NewValue(name, def, func(s string) (bool, bool) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
		return false, false
	})
}

// Finder locates a file through a set of search directories.
type Finder interface {
	Find(file string) (string, bool)
}

// Pixmap is a string item naming an image file. AuxLoad resolves the file
// through the finder; the image itself is never decoded.
type Pixmap struct {
	*Value[string]
	finder Finder
	path   string
}

// NewPixmap creates a pixmap item.
func NewPixmap(name, def string, finder Finder) *Pixmap {
	return &Pixmap{Value: String(name, def), finder: finder}
}

// AuxLoad locates the named file. Path is empty when nothing was found.
func (p *Pixmap) AuxLoad(string) {
	p.path = ""
	if p.finder == nil || p.Get() == "" {
		return
	}
	if found, ok := p.finder.Find(p.Get()); ok {
		p.path = found
	}
}

// SetDefault resets the file name and forgets the located path.
func (p *Pixmap) SetDefault() {
	p.Value.SetDefault()
	p.path = ""
}

// Path returns the located file, if any.
func (p *Pixmap) Path() string { return p.path }

var (
	_ Item = (*Value[string])(nil)
	_ Item = (*Pixmap)(nil)
)
