package app

import (
	"sync"

	"github.com/artpar/themekit/domain/theme"
)

// Registry tracks the themes that are filled on every load cycle.
// It holds non-owning references: unregistering never closes a theme.
// Themes are compared by identity, so they should be pointer types.
type Registry struct {
	mu     sync.RWMutex
	themes []theme.Theme
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds t. Registering the same theme twice is a no-op.
func (r *Registry) Register(t theme.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(t) >= 0 {
		return
	}
	r.themes = append(r.themes, t)
}

// Unregister removes t. Unknown themes are ignored.
func (r *Registry) Unregister(t theme.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(t)
	if i < 0 {
		return
	}
	r.themes = append(r.themes[:i], r.themes[i+1:]...)
}

// ForEach calls fn for every theme in registration order.
// fn runs on a copy of the list, so it may register or unregister themes.
func (r *Registry) ForEach(fn func(theme.Theme)) {
	for _, t := range r.Themes() {
		fn(t)
	}
}

// Themes returns a copy of the registered themes.
func (r *Registry) Themes() []theme.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]theme.Theme, len(r.themes))
	copy(out, r.themes)
	return out
}

// Len returns the number of registered themes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.themes)
}

func (r *Registry) indexOf(t theme.Theme) int {
	for i, existing := range r.themes {
		if existing == t {
			return i
		}
	}
	return -1
}
