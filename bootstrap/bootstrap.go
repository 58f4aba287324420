// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/artpar/themekit/adapters/http"
	"github.com/artpar/themekit/adapters/metrics"
	"github.com/artpar/themekit/adapters/sqlite"
	"github.com/artpar/themekit/app"
	"github.com/artpar/themekit/config"
	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Version is set at build time.
var Version = "dev"

// ErrNoThemePath is returned when neither the config nor the command line
// names a theme.
var ErrNoThemePath = errors.New("no theme path configured (set theme.path or --theme)")

// Options override the loaded configuration.
type Options struct {
	ConfigPath string // explicit config file; discovered when empty
	ThemePath  string
	Overlay    string
	Verbose    bool
	LogLevel   string // overrides logging.level when set

	// LogOutput receives log lines (default: os.Stderr).
	LogOutput io.Writer

	// Registry isolates metrics; the default registerer is used when nil.
	Registry *prometheus.Registry
}

// App represents the running application.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Manager    *app.Manager
	Metrics    *metrics.Collector
	DB         *sqlite.DB
	Snapshots  *sqlite.SnapshotStore
	HTTPServer *http.Server

	gatherer http.Handler
	watcher  *config.Watcher
}

// New loads configuration and builds the application. The theme is not
// loaded until LoadTheme or Run.
func New(opts Options) (*App, error) {
	cfg, err := config.LoadWithFallback(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.ThemePath != "" {
		cfg.Theme.Path = opts.ThemePath
	}
	if opts.Overlay != "" {
		cfg.Theme.Overlay = opts.Overlay
	}
	if opts.Verbose {
		cfg.Theme.Verbose = true
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := NewLogger(cfg.Logging.Level, cfg.Logging.Format, out)

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize metrics if enabled
	if cfg.Metrics.Enabled {
		if opts.Registry != nil {
			a.Metrics = metrics.NewWithRegistry(opts.Registry)
			a.gatherer = promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})
		} else {
			a.Metrics = metrics.New()
		}
		logger.Debug().Msg("prometheus metrics enabled")
	}

	var recorder ports.SnapshotRecorder
	if cfg.Snapshot.Enabled {
		if err := a.initDatabase(); err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		recorder = &pruningRecorder{store: a.Snapshots, keep: cfg.Snapshot.Keep, logger: logger}
	}

	a.Manager = app.NewManager(app.ManagerDeps{
		Logger:    logger,
		Metrics:   a.Metrics,
		Snapshots: recorder,
	}, app.ManagerConfig{
		Verbose:     cfg.Theme.Verbose,
		PrimaryName: cfg.Theme.PrimaryName,
		LegacyName:  cfg.Theme.LegacyName,
	})

	sets, err := config.BuildThemes(cfg.Themes, a.Manager.SearchPaths())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build themes: %w", err)
	}
	for _, s := range sets {
		a.Manager.Registry().Register(s)
	}

	return a, nil
}

func (a *App) initDatabase() error {
	db, err := sqlite.Open(a.Config.Snapshot.DSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}

	a.DB = db
	a.Snapshots = sqlite.NewSnapshotStore(db)
	a.Logger.Debug().Str("dsn", a.Config.Snapshot.DSN).Msg("snapshot database ready")
	return nil
}

// LoadTheme runs a load cycle with the configured theme and overlay.
func (a *App) LoadTheme(ctx context.Context) (app.LoadResult, error) {
	if a.Config.Theme.Path == "" {
		return app.LoadResult{}, ErrNoThemePath
	}
	return a.Manager.Load(ctx, a.Config.Theme.Path, a.Config.Theme.Overlay)
}

// Handler builds the HTTP query API.
func (a *App) Handler() http.Handler {
	return apihttp.NewRouter(a.Manager, a.Logger, apihttp.RouterConfig{
		Metrics:     a.Metrics,
		MetricsPath: a.Config.Metrics.Path,
		Gatherer:    a.gatherer,
		Snapshots:   a.snapshotStore(),
		Version:     Version,
		OpenAPI:     a.Config.OpenAPI.Enabled,
	})
}

func (a *App) snapshotStore() ports.SnapshotStore {
	if a.Snapshots == nil {
		return nil
	}
	return a.Snapshots
}

// Run loads the theme, serves the query API and watches for changes until
// ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed initial load leaves an empty store; the API still reports it.
	if _, err := a.LoadTheme(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("initial theme load failed")
	}

	if err := a.startWatcher(); err != nil {
		a.Logger.Warn().Err(err).Msg("theme watcher unavailable")
	}

	a.HTTPServer = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Handler(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	ln, err := net.Listen("tcp", a.HTTPServer.Addr)
	if err != nil {
		a.Shutdown()
		return fmt.Errorf("listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", ln.Addr().String()).
			Msg("starting http server")
		if err := a.HTTPServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.Logger.Info().Msg("shutting down")
	}

	return a.Shutdown()
}

func (a *App) startWatcher() error {
	paths := []string{}
	if a.Config.Theme.Watch {
		paths = append(paths, a.Manager.Status().Last.Path, app.ExpandHome(a.Config.Theme.Overlay))
		if a.Manager.Status().Last.Path == "" {
			paths = append(paths, app.ExpandHome(a.Config.Theme.Path))
		}
	}

	w, err := config.NewWatcher(func() error {
		_, err := a.Manager.Reload(context.Background())
		if errors.Is(err, app.ErrNoThemeLoaded) {
			_, err = a.LoadTheme(context.Background())
		}
		return err
	}, a.Logger, paths...)
	if err != nil {
		return err
	}
	a.watcher = w

	w.WatchSignals()
	if len(w.Dirs()) > 0 {
		return w.WatchFiles()
	}
	return nil
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.watcher != nil {
		a.watcher.Stop()
	}

	var firstErr error
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
			firstErr = err
		}
	}

	if err := a.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	a.Logger.Info().Msg("shutdown complete")
	return firstErr
}

// Close releases the snapshot database.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	if err != nil {
		a.Logger.Error().Err(err).Msg("database close error")
	}
	return err
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// pruningRecorder saves snapshots and trims history to the newest keep.
type pruningRecorder struct {
	store  ports.SnapshotStore
	keep   int
	logger zerolog.Logger
}

func (p *pruningRecorder) SaveSnapshot(ctx context.Context, snap resource.Snapshot) error {
	if err := p.store.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	if p.keep <= 0 {
		return nil
	}
	deleted, err := p.store.Prune(ctx, p.keep)
	if err != nil {
		return err
	}
	if deleted > 0 {
		p.logger.Debug().Int64("deleted", deleted).Msg("pruned snapshots")
	}
	return nil
}
