package resource_test

import (
	"testing"

	"github.com/artpar/themekit/domain/resource"
)

func storeOf(pairs ...string) *resource.Store {
	s := resource.NewStore()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

func TestResolve_ExactBeatsWildcard(t *testing.T) {
	s := storeOf(
		"menu*font", "wild",
		"*font", "suffix",
		"menu.title.font", "exact",
	)

	got, ok := resource.Resolve(s, "menu.title.font")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "exact" {
		t.Errorf("Resolve = %q, want exact", got)
	}
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		lookup  string
		want    string
		wantHit bool
	}{
		{"prefix and suffix", []string{"a*b", "v"}, "axxb", "v", true},
		{"prefix only never matches", []string{"foo*", "v"}, "foo.bar", "", false},
		{"bare star never matches", []string{"*", "v"}, "anything", "", false},
		{"suffix mismatch", []string{"a*b", "v"}, "axxc", "", false},
		{"prefix mismatch", []string{"a*b", "v"}, "xxb", "", false},
		{"suffix only", []string{"*font", "A"}, "toolbar.font", "A", true},
		{
			"full beats suffix only",
			[]string{"*font", "A", "menu*font", "B"},
			"menu.x.font", "B", true,
		},
		{
			"suffix only when full prefix misses",
			[]string{"*font", "A", "menu*font", "B"},
			"toolbar.font", "A", true,
		},
		{
			"first full match wins",
			[]string{"menu*font", "first", "menu.x*font", "second"},
			"menu.x.font", "first", true,
		},
		{
			"last suffix only wins",
			[]string{"*font", "first", "*.font", "second"},
			"window.font", "second", true,
		},
		{
			"full match after suffix only still wins",
			[]string{"*color", "generic", "toolbar*color", "toolbar", "*r", "late"},
			"toolbar.clock.color", "toolbar", true,
		},
		{"not found", []string{"a.b", "1"}, "a.c", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storeOf(tt.pairs...)
			got, ok := resource.Resolve(s, tt.lookup)
			if ok != tt.wantHit {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.lookup, ok, tt.wantHit)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.lookup, got, tt.want)
			}
		})
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	s := storeOf("Toolbar.Clock.Color", "red", "MENU*FONT", "fixed")

	for _, name := range []string{"Toolbar.Clock.Color", "toolbar.clock.color", "TOOLBAR.CLOCK.COLOR"} {
		got, ok := resource.Resolve(s, name)
		if !ok || got != "red" {
			t.Errorf("Resolve(%q) = %q, %v; want red, true", name, got, ok)
		}
	}

	got, ok := resource.Resolve(s, "Menu.Title.Font")
	if !ok || got != "fixed" {
		t.Errorf("wildcard Resolve = %q, %v; want fixed, true", got, ok)
	}
}

func TestResolve_NilStore(t *testing.T) {
	if _, ok := resource.Resolve(nil, "a"); ok {
		t.Error("nil store should never resolve")
	}
}

func TestStore_LookupMatchesResolve(t *testing.T) {
	s := storeOf("*font", "A", "menu*font", "B")
	a, aok := s.Lookup("menu.item.font")
	b, bok := resource.Resolve(s, "menu.item.font")
	if a != b || aok != bok {
		t.Errorf("Lookup = %q,%v; Resolve = %q,%v", a, aok, b, bok)
	}
}
