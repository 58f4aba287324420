package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/artpar/themekit/adapters/clock"
	"github.com/artpar/themekit/adapters/idgen"
	"github.com/artpar/themekit/adapters/metrics"
	"github.com/artpar/themekit/adapters/resfile"
	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/domain/theme"
	"github.com/artpar/themekit/ports"
	"github.com/rs/zerolog"
)

// Default file names tried when a theme path is a directory.
const (
	DefaultPrimaryName = "theme.cfg"
	DefaultLegacyName  = "themerc"
	PixmapsDir         = "pixmaps"
)

var (
	// ErrThemeNotFound is returned when a theme directory holds neither
	// the primary nor the legacy resource file.
	ErrThemeNotFound = errors.New("no theme file found")

	// ErrNoThemeLoaded is returned by Reload before any Load.
	ErrNoThemeLoaded = errors.New("no theme loaded")
)

// Phase is a step of the load cycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseClearing  Phase = "clearing"
	PhaseParsing   Phase = "parsing"
	PhaseMerging   Phase = "merging"
	PhaseResolving Phase = "resolving"
)

// LoadResult summarizes one load cycle.
type LoadResult struct {
	CycleID    string
	Path       string // resource file actually parsed
	Location   string // directory used for search paths
	Overlay    *OverlayResult
	Phase      Phase // PhaseIdle on success, the failing phase otherwise
	Exact      int
	Wildcards  int
	Malformed  int
	Resolved   int
	Fallbacks  int
	Defaulted  int
	Unresolved []string // "theme/item" for every item set to its default
	StartedAt  time.Time
	Duration   time.Duration
}

// OK reports whether the cycle completed.
func (r LoadResult) OK() bool {
	return r.Phase == PhaseIdle
}

// ItemRef names one item of one registered theme.
type ItemRef struct {
	Theme string `json:"theme"`
	Item  string `json:"item"`
}

// Status is the state left by the last load cycle.
type Status struct {
	Loaded    bool
	Path      string
	Overlay   string
	Location  string
	Last      LoadResult
	LastError error
}

// ManagerDeps contains dependencies for Manager.
type ManagerDeps struct {
	Logger      zerolog.Logger
	Registry    *Registry
	SearchPaths *SearchPaths
	Loader      ports.ResourceLoader   // defaults to resfile
	Metrics     *metrics.Collector     // optional
	Snapshots   ports.SnapshotRecorder // optional
	Clock       ports.Clock            // defaults to clock.Real
	IDGen       ports.IDGenerator      // defaults to idgen.UUID
}

// ManagerConfig contains configuration for Manager.
type ManagerConfig struct {
	Verbose     bool
	PrimaryName string
	LegacyName  string
}

// Manager drives the load cycle: it owns the active resource store and
// pushes resolved values into every registered theme.
//
// Load holds the write lock for the whole cycle, so readers never observe
// the cleared store of an in-progress cycle.
type Manager struct {
	mu sync.RWMutex

	store    *resource.Store
	loaded   bool
	location string
	path     string
	overlay  string
	last     LoadResult
	lastErr  error

	registry    *Registry
	searchPaths *SearchPaths
	loader      ports.ResourceLoader
	metrics     *metrics.Collector
	snapshots   ports.SnapshotRecorder
	clock       ports.Clock
	idGen       ports.IDGenerator
	logger      zerolog.Logger

	verbose     bool
	primaryName string
	legacyName  string
}

// NewManager creates a manager with an empty store.
func NewManager(deps ManagerDeps, cfg ManagerConfig) *Manager {
	m := &Manager{
		store:       resource.NewStore(),
		registry:    deps.Registry,
		searchPaths: deps.SearchPaths,
		loader:      deps.Loader,
		metrics:     deps.Metrics,
		snapshots:   deps.Snapshots,
		clock:       deps.Clock,
		idGen:       deps.IDGen,
		logger:      deps.Logger,
		verbose:     cfg.Verbose,
		primaryName: cfg.PrimaryName,
		legacyName:  cfg.LegacyName,
		last:        LoadResult{Phase: PhaseIdle},
	}

	if m.registry == nil {
		m.registry = NewRegistry()
	}
	if m.searchPaths == nil {
		m.searchPaths = NewSearchPaths()
	}
	if m.loader == nil {
		m.loader = resfile.New(deps.Logger)
	}
	if m.clock == nil {
		m.clock = clock.Real{}
	}
	if m.idGen == nil {
		m.idGen = idgen.UUID{}
	}
	if m.primaryName == "" {
		m.primaryName = DefaultPrimaryName
	}
	if m.legacyName == "" {
		m.legacyName = DefaultLegacyName
	}

	return m
}

// Registry returns the theme registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// SearchPaths returns the search path list maintained by the manager.
func (m *Manager) SearchPaths() *SearchPaths {
	return m.searchPaths
}

// SetVerbose toggles diagnostics for items that fall back to defaults.
func (m *Manager) SetVerbose(v bool) {
	m.mu.Lock()
	m.verbose = v
	m.mu.Unlock()
}

// Load discards the current resources, loads path (a file, or a directory
// holding the primary or legacy file), merges overlay if given, and fills
// every registered theme.
//
// On failure the store is left empty and themes are not touched.
func (m *Manager) Load(ctx context.Context, path, overlay string) (LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	m.mu.Lock()
	res, snap, err := m.load(path, overlay)
	m.mu.Unlock()
	if err != nil {
		return res, err
	}

	// Recorded after unlocking so readers do not wait on the database.
	if snap != nil {
		if err := m.snapshots.SaveSnapshot(ctx, *snap); err != nil {
			m.logger.Error().Err(err).Str("cycle", res.CycleID).Msg("failed to record snapshot")
		}
	}
	return res, nil
}

// load runs one cycle with m.mu held. The returned snapshot is nil when no
// recorder is configured.
func (m *Manager) load(path, overlay string) (LoadResult, *resource.Snapshot, error) {
	res := LoadResult{
		CycleID:   m.idGen.New(),
		StartedAt: m.clock.Now(),
	}
	log := m.logger.With().Str("cycle", res.CycleID).Logger()
	m.path, m.overlay = path, overlay

	// Clearing
	res.Phase = PhaseClearing
	m.store = resource.NewStore()
	m.loaded = false

	// Parsing
	res.Phase = PhaseParsing
	file, location, err := m.locate(ExpandHome(path))
	if err != nil {
		res, err = m.fail(log, res, err)
		return res, nil, err
	}
	res.Path = file

	store, malformed, err := m.loader.Load(file)
	if err != nil {
		res, err = m.fail(log, res, err)
		return res, nil, err
	}
	m.store = store
	res.Malformed = malformed

	// Merging
	if overlay != "" {
		res.Phase = PhaseMerging
		or := MergeOverlay(m.store, ExpandHome(overlay), m.loader, log)
		res.Overlay = &or
		res.Malformed += or.Malformed
		if or.Err != nil && m.metrics != nil {
			m.metrics.OverlayFailures.Inc()
		}
	}
	res.Exact = m.store.ExactLen()
	res.Wildcards = m.store.WildcardLen()

	m.setLocation(location)
	res.Location = location

	// Resolving
	res.Phase = PhaseResolving
	m.registry.ForEach(func(t theme.Theme) {
		m.applyTheme(log, t, &res)
	})

	res.Phase = PhaseIdle
	res.Duration = m.clock.Now().Sub(res.StartedAt)
	m.loaded = true
	m.last = res
	m.lastErr = nil

	var snap *resource.Snapshot
	if m.snapshots != nil {
		s := resource.NewSnapshot(res.CycleID, m.store)
		s.Path = file
		s.Overlay = overlay
		s.Location = location
		s.LoadedAt = res.StartedAt
		snap = &s
	}

	if m.metrics != nil {
		m.metrics.ObserveLoad(true, res.Duration, res.StartedAt)
		m.metrics.MalformedLines.Add(float64(res.Malformed))
		m.metrics.UnresolvedItems.Add(float64(res.Defaulted))
		m.metrics.FallbackResolutions.Add(float64(res.Fallbacks))
		m.metrics.SetStoreSize(res.Exact, res.Wildcards)
	}

	log.Info().
		Str("file", file).
		Str("location", location).
		Int("exact", res.Exact).
		Int("wildcards", res.Wildcards).
		Int("resolved", res.Resolved).
		Int("fallbacks", res.Fallbacks).
		Int("defaulted", res.Defaulted).
		Dur("took", res.Duration).
		Msg("theme loaded")

	return res, snap, nil
}

// Reload repeats the last Load with the same path and overlay.
func (m *Manager) Reload(ctx context.Context) (LoadResult, error) {
	m.mu.RLock()
	path, overlay := m.path, m.overlay
	m.mu.RUnlock()

	if path == "" {
		return LoadResult{}, ErrNoThemeLoaded
	}
	return m.Load(ctx, path, overlay)
}

// Apply fills a single theme from the current store, for themes
// registered after the last load.
func (m *Manager) Apply(t theme.Theme) LoadResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := LoadResult{Phase: PhaseIdle, Path: m.last.Path, Location: m.location}
	m.applyTheme(m.logger, t, &res)
	return res
}

// Resolve looks name up in the active store.
func (m *Manager) Resolve(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Lookup(name)
}

// Store returns a copy of the active store.
func (m *Manager) Store() *resource.Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Clone()
}

// Location returns the directory of the loaded theme.
func (m *Manager) Location() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.location
}

// Status returns the outcome of the last load cycle.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		Loaded:    m.loaded,
		Path:      m.path,
		Overlay:   m.overlay,
		Location:  m.location,
		Last:      m.last,
		LastError: m.lastErr,
	}
}

// ListItems returns every item of every registered theme in registry order.
func (m *Manager) ListItems() []ItemRef {
	var out []ItemRef
	m.registry.ForEach(func(t theme.Theme) {
		for _, item := range t.Items() {
			out = append(out, ItemRef{Theme: t.Name(), Item: item.Name()})
		}
	})
	return out
}

func (m *Manager) fail(log zerolog.Logger, res LoadResult, err error) (LoadResult, error) {
	res.Duration = m.clock.Now().Sub(res.StartedAt)
	m.last = res
	m.lastErr = err

	if m.metrics != nil {
		m.metrics.ObserveLoad(false, res.Duration, res.StartedAt)
		m.metrics.SetStoreSize(0, 0)
	}

	log.Error().
		Err(err).
		Str("phase", string(res.Phase)).
		Msg("theme load failed, resources cleared")

	return res, fmt.Errorf("load theme: %w", err)
}

// locate turns path into the resource file to parse and its location.
func (m *Manager) locate(path string) (file, location string, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil || !info.IsDir() {
		// The loader reports missing or irregular files.
		return path, filepath.Dir(path), nil
	}

	for _, name := range []string{m.primaryName, m.legacyName} {
		candidate := filepath.Join(path, name)
		if isFile(candidate) {
			return candidate, path, nil
		}
	}
	return "", "", fmt.Errorf("%w in %s (tried %s, %s)", ErrThemeNotFound, path, m.primaryName, m.legacyName)
}

// setLocation swaps the single tracked location in the search paths.
func (m *Manager) setLocation(location string) {
	if m.location != "" {
		m.searchPaths.Remove(m.location)
		m.searchPaths.Remove(filepath.Join(m.location, PixmapsDir))
	}
	m.location = location
	m.searchPaths.Add(location)
	m.searchPaths.Add(filepath.Join(location, PixmapsDir))
}

func (m *Manager) applyTheme(log zerolog.Logger, t theme.Theme, res *LoadResult) {
	store := m.store
	fallback := t.Fallback()

	for _, item := range t.Items() {
		name := item.Name()

		if v, ok := store.Lookup(name); ok {
			if !item.SetFromString(v) {
				log.Warn().
					Str("theme", t.Name()).
					Str("item", name).
					Str("value", v).
					Msg("invalid resource value, using default")
			}
			item.AuxLoad(name)
			res.Resolved++
			continue
		}

		if fallback != nil && fallback(item, store.Lookup) {
			res.Fallbacks++
			continue
		}

		item.SetDefault()
		res.Defaulted++
		res.Unresolved = append(res.Unresolved, t.Name()+"/"+name)
		if m.verbose {
			log.Warn().
				Str("theme", t.Name()).
				Str("item", name).
				Msg("resource not found, using default")
		}
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
