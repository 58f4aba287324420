package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/artpar/themekit/adapters/clock"
	"github.com/artpar/themekit/adapters/idgen"
	"github.com/artpar/themekit/adapters/metrics"
	"github.com/artpar/themekit/adapters/resfile"
	"github.com/artpar/themekit/app"
	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/domain/theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// recordingSnapshots implements ports.SnapshotRecorder for testing.
type recordingSnapshots struct {
	mu    sync.Mutex
	snaps []resource.Snapshot
	err   error
}

func (r *recordingSnapshots) SaveSnapshot(ctx context.Context, snap resource.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, snap)
	return nil
}

func newManager(t *testing.T) *app.Manager {
	t.Helper()
	return app.NewManager(app.ManagerDeps{
		Logger: zerolog.Nop(),
		IDGen:  idgen.NewSequential("cycle-"),
		Clock:  clock.NewStep(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Millisecond),
	}, app.ManagerConfig{})
}

func writeTheme(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

const sampleTheme = "toolbar.clock.color: red\nmenu*font: fixed\n# a comment\n\n"

func TestManager_LoadEndToEnd(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", sampleTheme)
	m := newManager(t)

	color := theme.String("toolbar.clock.color", "black")
	font := theme.String("menu.clock.font", "default-font")
	unknown := theme.String("toolbar.unknown", "dflt")
	m.Registry().Register(theme.NewSet("toolbar", color, font, unknown))

	res, err := m.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !res.OK() {
		t.Errorf("Phase = %s, want idle", res.Phase)
	}

	if v, ok := m.Resolve("toolbar.clock.color"); !ok || v != "red" {
		t.Errorf("Resolve(toolbar.clock.color) = %q, %v", v, ok)
	}
	if v, ok := m.Resolve("menu.clock.font"); !ok || v != "fixed" {
		t.Errorf("Resolve(menu.clock.font) = %q, %v", v, ok)
	}
	if _, ok := m.Resolve("toolbar.unknown"); ok {
		t.Error("toolbar.unknown should not resolve")
	}

	if color.Get() != "red" || font.Get() != "fixed" || unknown.Get() != "dflt" {
		t.Errorf("items = %q %q %q", color.Get(), font.Get(), unknown.Get())
	}
	if res.Resolved != 2 || res.Defaulted != 1 {
		t.Errorf("resolved=%d defaulted=%d, want 2 and 1", res.Resolved, res.Defaulted)
	}
	if !reflect.DeepEqual(res.Unresolved, []string{"toolbar/toolbar.unknown"}) {
		t.Errorf("Unresolved = %v", res.Unresolved)
	}
	if res.CycleID != "cycle-1" {
		t.Errorf("CycleID = %q, want cycle-1", res.CycleID)
	}
	if res.Duration != time.Millisecond {
		t.Errorf("Duration = %v, want 1ms", res.Duration)
	}
}

func TestManager_Overlay(t *testing.T) {
	dir := t.TempDir()
	base := writeTheme(t, dir, "theme.cfg", "a: 1\nb: base\n")
	overlay := writeTheme(t, dir, "overlay", "a: 2\n*b: wild\n")
	m := newManager(t)

	res, err := m.Load(context.Background(), base, overlay)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if v, _ := m.Resolve("a"); v != "2" {
		t.Errorf("a = %q, want 2", v)
	}
	if v, _ := m.Resolve("b"); v != "base" {
		t.Errorf("b = %q, want base", v)
	}
	if res.Overlay == nil || !res.Overlay.Applied || res.Overlay.Ignored != 1 {
		t.Errorf("Overlay = %+v", res.Overlay)
	}
	if res.Wildcards != 0 {
		t.Errorf("Wildcards = %d, overlay wildcards must not merge", res.Wildcards)
	}
}

func TestManager_MissingOverlayIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	base := writeTheme(t, dir, "theme.cfg", "a: 1\n")

	reg := prometheus.NewRegistry()
	m := app.NewManager(app.ManagerDeps{
		Logger:  zerolog.Nop(),
		Metrics: metrics.NewWithRegistry(reg),
	}, app.ManagerConfig{})

	res, err := m.Load(context.Background(), base, filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if res.Overlay == nil || res.Overlay.Applied {
		t.Errorf("Overlay = %+v, want not applied", res.Overlay)
	}
	if v, _ := m.Resolve("a"); v != "1" {
		t.Errorf("a = %q, want 1", v)
	}
}

func TestManager_ReloadClearsPriorState(t *testing.T) {
	dir := t.TempDir()
	f1 := writeTheme(t, dir, "f1", "k: v1\nshared: one\n")
	f2 := writeTheme(t, dir, "f2", "shared: two\n")
	m := newManager(t)

	item := theme.String("k", "default-k")
	m.Registry().Register(theme.NewSet("t", item))

	if _, err := m.Load(context.Background(), f1, ""); err != nil {
		t.Fatalf("Load f1: %v", err)
	}
	if v, ok := m.Resolve("k"); !ok || v != "v1" {
		t.Fatalf("k after f1 = %q, %v", v, ok)
	}
	if item.Get() != "v1" {
		t.Fatalf("item after f1 = %q", item.Get())
	}

	if _, err := m.Load(context.Background(), f2, ""); err != nil {
		t.Fatalf("Load f2: %v", err)
	}
	if _, ok := m.Resolve("k"); ok {
		t.Error("k should be gone after loading f2")
	}
	if item.Get() != "default-k" {
		t.Errorf("item after f2 = %q, want default-k", item.Get())
	}
	if v, _ := m.Resolve("shared"); v != "two" {
		t.Errorf("shared = %q, want two", v)
	}
}

func TestManager_FailedLoadLeavesEmptyStore(t *testing.T) {
	dir := t.TempDir()
	good := writeTheme(t, dir, "good", "a: 1\n")
	m := newManager(t)

	item := theme.String("a", "default-a")
	m.Registry().Register(theme.NewSet("t", item))

	if _, err := m.Load(context.Background(), good, ""); err != nil {
		t.Fatalf("Load good: %v", err)
	}

	res, err := m.Load(context.Background(), filepath.Join(dir, "missing"), "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, resfile.ErrFileOpen) {
		t.Errorf("err = %v, want ErrFileOpen", err)
	}
	if res.Phase != app.PhaseParsing {
		t.Errorf("Phase = %s, want parsing", res.Phase)
	}
	if _, ok := m.Resolve("a"); ok {
		t.Error("store should be empty after failed load")
	}
	if m.Store().Len() != 0 {
		t.Errorf("Store().Len() = %d, want 0", m.Store().Len())
	}
	// Items keep whatever they held before the failed cycle.
	if item.Get() != "1" {
		t.Errorf("item = %q, want 1", item.Get())
	}

	st := m.Status()
	if st.Loaded || st.LastError == nil {
		t.Errorf("Status = %+v, want not loaded with error", st)
	}
}

func TestManager_DirectoryWithoutThemeFile(t *testing.T) {
	dir := t.TempDir()
	// A directory without theme files is looked into, not parsed.
	_, err := newManager(t).Load(context.Background(), dir, "")
	if !errors.Is(err, app.ErrThemeNotFound) {
		t.Errorf("err = %v, want ErrThemeNotFound", err)
	}
}

func TestManager_DirectoryLookup(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"primary", map[string]string{"theme.cfg": "x: primary\n", "themerc": "x: legacy\n"}, "primary"},
		{"legacy", map[string]string{"themerc": "x: legacy\n"}, "legacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeTheme(t, dir, name, content)
			}
			m := newManager(t)

			res, err := m.Load(context.Background(), dir, "")
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if v, _ := m.Resolve("x"); v != tt.want {
				t.Errorf("x = %q, want %q", v, tt.want)
			}
			if res.Location != dir || m.Location() != dir {
				t.Errorf("Location = %q, want %q", res.Location, dir)
			}
		})
	}
}

func TestManager_CustomFileNames(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "style.res", "x: custom\n")
	m := app.NewManager(app.ManagerDeps{Logger: zerolog.Nop()}, app.ManagerConfig{PrimaryName: "style.res"})

	if _, err := m.Load(context.Background(), dir, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if v, _ := m.Resolve("x"); v != "custom" {
		t.Errorf("x = %q, want custom", v)
	}
}

func TestManager_SearchPathBookkeeping(t *testing.T) {
	sp := app.NewSearchPaths("/usr/share/themekit")
	m := app.NewManager(app.ManagerDeps{Logger: zerolog.Nop(), SearchPaths: sp}, app.ManagerConfig{})

	first := t.TempDir()
	second := t.TempDir()
	writeTheme(t, first, "theme.cfg", "a: 1\n")
	file := writeTheme(t, second, "custom.style", "a: 2\n")

	if _, err := m.Load(context.Background(), first, ""); err != nil {
		t.Fatalf("Load first: %v", err)
	}
	want := []string{"/usr/share/themekit", first, filepath.Join(first, "pixmaps")}
	if got := sp.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("after first load = %v, want %v", got, want)
	}

	if _, err := m.Load(context.Background(), file, ""); err != nil {
		t.Fatalf("Load second: %v", err)
	}
	want = []string{"/usr/share/themekit", second, filepath.Join(second, "pixmaps")}
	if got := sp.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("after second load = %v, want %v", got, want)
	}
}

func TestManager_PixmapFoundInThemeLocation(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "pixmaps"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTheme(t, filepath.Join(dir, "pixmaps"), "bg.xpm", "/* XPM */")
	writeTheme(t, dir, "theme.cfg", "toolbar.pixmap: bg.xpm\n")

	m := newManager(t)
	pix := theme.NewPixmap("toolbar.pixmap", "", m.SearchPaths())
	m.Registry().Register(theme.NewSet("toolbar", pix))

	if _, err := m.Load(context.Background(), dir, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if want := filepath.Join(dir, "pixmaps", "bg.xpm"); pix.Path() != want {
		t.Errorf("Path = %q, want %q", pix.Path(), want)
	}
}

func TestManager_Fallback(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", "window.font: sans\n")
	m := newManager(t)

	var asked []string
	font := theme.String("toolbar.font", "fixed")
	other := theme.String("toolbar.other", "x")
	set := theme.NewSet("toolbar", font, other).WithFallback(func(item theme.Item, lookup theme.Lookup) bool {
		asked = append(asked, item.Name())
		if item.Name() != "toolbar.font" {
			return false
		}
		v, ok := lookup("window.font")
		return ok && item.SetFromString(v)
	})
	m.Registry().Register(set)

	res, err := m.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if font.Get() != "sans" {
		t.Errorf("font = %q, want sans", font.Get())
	}
	if other.Get() != "x" {
		t.Errorf("other = %q, want default x", other.Get())
	}
	if res.Fallbacks != 1 || res.Defaulted != 1 {
		t.Errorf("fallbacks=%d defaulted=%d", res.Fallbacks, res.Defaulted)
	}
	if !reflect.DeepEqual(asked, []string{"toolbar.font", "toolbar.other"}) {
		t.Errorf("fallback asked for %v", asked)
	}
}

func TestManager_InvalidValueUsesDefault(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", "toolbar.height: tall\n")
	m := newManager(t)
	height := theme.Int("toolbar.height", 20)
	m.Registry().Register(theme.NewSet("toolbar", height))

	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if height.Get() != 20 {
		t.Errorf("height = %d, want 20", height.Get())
	}
}

func TestManager_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "theme.cfg", "a: 1\n")
	m := newManager(t)

	if _, err := m.Reload(context.Background()); !errors.Is(err, app.ErrNoThemeLoaded) {
		t.Fatalf("Reload before Load err = %v, want ErrNoThemeLoaded", err)
	}

	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	writeTheme(t, dir, "theme.cfg", "a: 2\n")

	res, err := m.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if v, _ := m.Resolve("a"); v != "2" {
		t.Errorf("a = %q, want 2", v)
	}
	if res.CycleID != "cycle-2" {
		t.Errorf("CycleID = %q, want cycle-2", res.CycleID)
	}
}

func TestManager_CanceledContext(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", "a: 1\n")
	m := newManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Load(ctx, path, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestManager_Snapshots(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "theme.cfg", "a: 1\n*font: f\n")
	rec := &recordingSnapshots{}
	m := app.NewManager(app.ManagerDeps{
		Logger:    zerolog.Nop(),
		Snapshots: rec,
		IDGen:     idgen.NewSequential("s"),
	}, app.ManagerConfig{})

	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := m.Load(context.Background(), filepath.Join(dir, "missing"), ""); err == nil {
		t.Fatal("expected failure")
	}

	if len(rec.snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1 (failed loads are not recorded)", len(rec.snaps))
	}
	snap := rec.snaps[0]
	if snap.ID != "s1" || snap.Path != path || snap.Location != dir {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Exact["a"] != "1" || len(snap.Wildcards) != 1 {
		t.Errorf("snapshot contents = %v %v", snap.Exact, snap.Wildcards)
	}
}

func TestManager_SnapshotErrorIsNotFatal(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", "a: 1\n")
	m := app.NewManager(app.ManagerDeps{
		Logger:    zerolog.Nop(),
		Snapshots: &recordingSnapshots{err: errors.New("disk full")},
	}, app.ManagerConfig{})

	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
}

func TestManager_Metrics(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "theme.cfg", "a: 1\nbroken\n*x: y\n")
	reg := prometheus.NewRegistry()
	m := app.NewManager(app.ManagerDeps{
		Logger:  zerolog.Nop(),
		Metrics: metrics.NewWithRegistry(reg),
	}, app.ManagerConfig{})
	m.Registry().Register(theme.NewSet("t", theme.String("missing", "")))

	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	m.Load(context.Background(), filepath.Join(dir, "nope"), "")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			name := f.GetName()
			for _, l := range metric.GetLabel() {
				name += "/" + l.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				values[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[name] = metric.GetGauge().GetValue()
			}
		}
	}

	want := map[string]float64{
		"themekit_loads_total/ok":         1,
		"themekit_loads_total/failed":     1,
		"themekit_malformed_lines_total":  1,
		"themekit_unresolved_items_total": 1,
		"themekit_store_entries/exact":    0,
		"themekit_store_entries/wildcard": 0,
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s = %v, want %v", k, values[k], v)
		}
	}
}

func TestManager_ApplyAndListItems(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", "menu.title.font: bold\n")
	m := newManager(t)
	m.Registry().Register(theme.NewSet("toolbar", theme.String("toolbar.font", "")))

	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	title := theme.String("menu.title.font", "fixed")
	late := theme.NewSet("menu", title)
	m.Registry().Register(late)
	res := m.Apply(late)
	if title.Get() != "bold" || res.Resolved != 1 {
		t.Errorf("Apply: title = %q resolved = %d", title.Get(), res.Resolved)
	}

	want := []app.ItemRef{
		{Theme: "toolbar", Item: "toolbar.font"},
		{Theme: "menu", Item: "menu.title.font"},
	}
	if got := m.ListItems(); !reflect.DeepEqual(got, want) {
		t.Errorf("ListItems = %v, want %v", got, want)
	}
}

func TestManager_ConcurrentResolveDuringReload(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", "a: 1\n")
	m := newManager(t)
	if _, err := m.Load(context.Background(), path, ""); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				// Readers never see the cleared store of an in-flight cycle.
				if v, ok := m.Resolve("a"); !ok || v != "1" {
					t.Errorf("Resolve(a) = %q, %v during reload", v, ok)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if _, err := m.Reload(context.Background()); err != nil {
			t.Errorf("Reload error: %v", err)
		}
	}
	wg.Wait()
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.themekit/theme.cfg", filepath.Join(home, ".themekit/theme.cfg")},
		{"/etc/theme.cfg", "/etc/theme.cfg"},
		{"~other/theme.cfg", "~other/theme.cfg"},
	}
	for _, tt := range tests {
		if got := app.ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// blockingSnapshots holds SaveSnapshot until release is closed.
type blockingSnapshots struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSnapshots) SaveSnapshot(ctx context.Context, snap resource.Snapshot) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestManager_SnapshotRecordedOutsideLock(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "theme.cfg", sampleTheme)
	rec := &blockingSnapshots{entered: make(chan struct{}), release: make(chan struct{})}
	m := app.NewManager(app.ManagerDeps{
		Logger:    zerolog.Nop(),
		Snapshots: rec,
	}, app.ManagerConfig{})

	done := make(chan error, 1)
	go func() {
		_, err := m.Load(context.Background(), path, "")
		done <- err
	}()
	<-rec.entered

	resolved := make(chan string, 1)
	go func() {
		v, _ := m.Resolve("toolbar.clock.color")
		resolved <- v
	}()
	select {
	case v := <-resolved:
		if v != "red" {
			t.Errorf("Resolve during recording = %q, want red", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Resolve blocked while the snapshot was being recorded")
	}
	if !m.Status().Loaded {
		t.Error("Status should report the finished cycle while recording")
	}

	close(rec.release)
	if err := <-done; err != nil {
		t.Errorf("Load error: %v", err)
	}
}

func TestManager_LongLineDoesNotTruncateTheme(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	path := writeTheme(t, t.TempDir(), "theme.cfg", "a: 1\nbig: "+long+"\nb: 2\n")
	m := newManager(t)

	res, err := m.Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if res.Exact != 3 {
		t.Errorf("Exact = %d, want 3", res.Exact)
	}
	if v, ok := m.Resolve("b"); !ok || v != "2" {
		t.Errorf("Resolve(b) = %q, %v; want 2", v, ok)
	}
}
