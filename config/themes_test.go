package config_test

import (
	"testing"

	"github.com/artpar/themekit/config"
	"github.com/artpar/themekit/domain/theme"
)

type stubFinder map[string]string

func (f stubFinder) Find(file string) (string, bool) {
	p, ok := f[file]
	return p, ok
}

func TestBuildThemes(t *testing.T) {
	specs := []config.ThemeSpec{
		{
			Name: "toolbar",
			Items: []config.ItemSpec{
				{Name: "toolbar.font", Kind: config.KindString, Default: "fixed", AltNames: []string{"window.font"}},
				{Name: "toolbar.height", Kind: config.KindInt, Default: "20"},
				{Name: "toolbar.shaped", Kind: config.KindBool, Default: "yes"},
				{Name: "toolbar.pixmap", Kind: config.KindPixmap},
			},
		},
		{Name: "empty"},
	}

	sets, err := config.BuildThemes(specs, stubFinder{"bg.xpm": "/themes/pixmaps/bg.xpm"})
	if err != nil {
		t.Fatalf("BuildThemes error: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("len(sets) = %d, want 2", len(sets))
	}

	toolbar := sets[0]
	if toolbar.Name() != "toolbar" || len(toolbar.Items()) != 4 {
		t.Fatalf("toolbar = %s with %d items", toolbar.Name(), len(toolbar.Items()))
	}
	if toolbar.Fallback() == nil {
		t.Error("toolbar should have an alternate-name fallback")
	}
	if sets[1].Fallback() != nil {
		t.Error("empty theme should have no fallback")
	}

	height, ok := toolbar.Items()[1].(*theme.Value[int])
	if !ok || height.Get() != 20 {
		t.Errorf("height item = %#v", toolbar.Items()[1])
	}
	shaped, ok := toolbar.Items()[2].(*theme.Value[bool])
	if !ok || !shaped.Get() {
		t.Errorf("shaped item = %#v", toolbar.Items()[2])
	}

	lookup := func(name string) (string, bool) {
		if name == "window.font" {
			return "sans", true
		}
		return "", false
	}
	font := toolbar.Items()[0]
	if !toolbar.Fallback()(font, lookup) {
		t.Fatal("fallback should resolve toolbar.font through window.font")
	}
	if got := font.(*theme.Value[string]).Get(); got != "sans" {
		t.Errorf("font = %q, want sans", got)
	}

	pix := toolbar.Items()[3].(*theme.Pixmap)
	pix.SetFromString("bg.xpm")
	pix.AuxLoad("toolbar.pixmap")
	if pix.Path() != "/themes/pixmaps/bg.xpm" {
		t.Errorf("pixmap path = %q", pix.Path())
	}
}

func TestBuildThemes_InvalidDefaults(t *testing.T) {
	tests := []struct {
		name string
		item config.ItemSpec
	}{
		{"int", config.ItemSpec{Name: "x", Kind: config.KindInt, Default: "tall"}},
		{"bool", config.ItemSpec{Name: "x", Kind: config.KindBool, Default: "maybe"}},
		{"kind", config.ItemSpec{Name: "x", Kind: "color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.BuildThemes([]config.ThemeSpec{{Name: "t", Items: []config.ItemSpec{tt.item}}}, nil)
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}
