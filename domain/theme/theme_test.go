package theme_test

import (
	"testing"

	"github.com/artpar/themekit/domain/theme"
)

type mapFinder map[string]string

func (m mapFinder) Find(file string) (string, bool) {
	p, ok := m[file]
	return p, ok
}

func TestValue_SetFromString(t *testing.T) {
	tests := []struct {
		name   string
		item   interface{ SetFromString(string) bool }
		input  string
		wantOK bool
	}{
		{"string accepts anything", theme.String("a", "x"), "", true},
		{"int ok", theme.Int("a", 1), " 42 ", true},
		{"int bad", theme.Int("a", 1), "forty", false},
		{"bool yes", theme.Bool("a", false), "Yes", true},
		{"bool bad", theme.Bool("a", false), "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.SetFromString(tt.input); got != tt.wantOK {
				t.Errorf("SetFromString(%q) = %v, want %v", tt.input, got, tt.wantOK)
			}
		})
	}
}

func TestValue_InvalidRevertsToDefault(t *testing.T) {
	item := theme.Int("toolbar.height", 20)

	if !item.SetFromString("30") {
		t.Fatal("expected 30 to parse")
	}
	if item.Get() != 30 || !item.Loaded() {
		t.Fatalf("Get = %d loaded = %v, want 30 true", item.Get(), item.Loaded())
	}

	if item.SetFromString("tall") {
		t.Fatal("expected parse failure")
	}
	if item.Get() != 20 || item.Loaded() {
		t.Errorf("after failure Get = %d loaded = %v, want 20 false", item.Get(), item.Loaded())
	}
}

func TestValue_SetDefault(t *testing.T) {
	item := theme.String("menu.font", "fixed")
	item.SetFromString("sans")
	item.SetDefault()

	if item.Get() != "fixed" {
		t.Errorf("Get = %q, want fixed", item.Get())
	}
	if item.Default() != "fixed" {
		t.Errorf("Default = %q, want fixed", item.Default())
	}
}

func TestPixmap_AuxLoad(t *testing.T) {
	finder := mapFinder{"bg.xpm": "/themes/dark/pixmaps/bg.xpm"}
	item := theme.NewPixmap("toolbar.pixmap", "", finder)

	item.SetFromString("bg.xpm")
	item.AuxLoad(item.Name())
	if item.Path() != "/themes/dark/pixmaps/bg.xpm" {
		t.Errorf("Path = %q", item.Path())
	}

	item.SetFromString("missing.xpm")
	item.AuxLoad(item.Name())
	if item.Path() != "" {
		t.Errorf("Path for missing file = %q, want empty", item.Path())
	}

	item.SetFromString("bg.xpm")
	item.AuxLoad(item.Name())
	item.SetDefault()
	if item.Path() != "" || item.Get() != "" {
		t.Errorf("SetDefault left path=%q value=%q", item.Path(), item.Get())
	}
}

func TestPixmap_NilFinder(t *testing.T) {
	item := theme.NewPixmap("toolbar.pixmap", "", nil)
	item.SetFromString("bg.xpm")
	item.AuxLoad(item.Name())
	if item.Path() != "" {
		t.Errorf("Path = %q, want empty", item.Path())
	}
}

func TestSet_ItemsAndFallback(t *testing.T) {
	a := theme.String("a", "")
	b := theme.String("b", "")
	s := theme.NewSet("toolbar", a)
	s.Add(b)

	items := s.Items()
	if len(items) != 2 || items[0] != theme.Item(a) || items[1] != theme.Item(b) {
		t.Fatalf("Items = %v", items)
	}
	if s.Fallback() != nil {
		t.Error("new set should have no fallback")
	}
	if s.Name() != "toolbar" {
		t.Errorf("Name = %q", s.Name())
	}

	s.WithFallback(func(theme.Item, theme.Lookup) bool { return false })
	if s.Fallback() == nil {
		t.Error("fallback not attached")
	}
}

func TestAltNames(t *testing.T) {
	store := map[string]string{
		"window.font": "sans",
		"menu.height": "tall",
		"menu.width":  "100",
	}
	lookup := func(name string) (string, bool) {
		v, ok := store[name]
		return v, ok
	}

	fb := theme.AltNames(map[string][]string{
		"toolbar.font": {"toolbar.label.font", "window.font"},
		"menu.size":    {"menu.height", "menu.width"},
	})

	font := theme.String("toolbar.font", "fixed")
	if !fb(font, lookup) {
		t.Fatal("expected fallback to resolve toolbar.font")
	}
	if font.Get() != "sans" {
		t.Errorf("font = %q, want sans", font.Get())
	}

	size := theme.Int("menu.size", 10)
	if !fb(size, lookup) {
		t.Fatal("expected fallback to skip unparsable alternate")
	}
	if size.Get() != 100 {
		t.Errorf("size = %d, want 100", size.Get())
	}

	other := theme.String("other", "d")
	if fb(other, lookup) {
		t.Error("item without alternates should not resolve")
	}
}
