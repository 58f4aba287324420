package resource

import "strings"

// Resolve returns the effective value for name.
//
// Precedence:
//   - exact key, always
//   - first wildcard in file order whose prefix and suffix both match
//     (prefix non-empty)
//   - last suffix-only wildcard ("*suffix") in file order that matches
//
// Patterns with an empty suffix never match. Matching is case-insensitive.
func Resolve(s *Store, name string) (string, bool) {
	if s == nil {
		return "", false
	}
	name = strings.ToLower(name)
	if v, ok := s.exact[name]; ok {
		return v, true
	}

	var candidate string
	found := false
	for _, w := range s.wildcards {
		p := w.Pattern
		if p.Suffix == "" || !strings.HasSuffix(name, p.Suffix) {
			continue
		}
		if p.Prefix == "" {
			// Later suffix-only matches replace earlier ones.
			candidate = w.Value
			found = true
			continue
		}
		if strings.HasPrefix(name, p.Prefix) {
			return w.Value, true
		}
	}
	return candidate, found
}
