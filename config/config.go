// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user configuration directory.
const AppName = "themekit"

// ErrNoConfig is returned by Discover when no config file exists.
var ErrNoConfig = errors.New("no config file found")

// Config is the root configuration structure.
type Config struct {
	Theme    ThemeConfig    `yaml:"theme" toml:"theme"`
	Themes   []ThemeSpec    `yaml:"themes" toml:"themes"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Snapshot SnapshotConfig `yaml:"snapshot" toml:"snapshot"`
	OpenAPI  OpenAPIConfig  `yaml:"openapi" toml:"openapi"`
}

// ThemeConfig selects the resource file to load.
type ThemeConfig struct {
	Path        string `yaml:"path" toml:"path"`                 // file, or directory holding primary_name/legacy_name
	Overlay     string `yaml:"overlay" toml:"overlay"`           // optional per-user overrides
	PrimaryName string `yaml:"primary_name" toml:"primary_name"` // default: theme.cfg
	LegacyName  string `yaml:"legacy_name" toml:"legacy_name"`   // default: themerc
	Verbose     bool   `yaml:"verbose" toml:"verbose"`           // log items that fall back to defaults
	Watch       bool   `yaml:"watch" toml:"watch"`               // reload when the files change
}

// ThemeSpec declares a theme and the items it reads.
type ThemeSpec struct {
	Name  string     `yaml:"name" toml:"name"`
	Items []ItemSpec `yaml:"items" toml:"items"`
}

// ItemSpec declares one theme item.
type ItemSpec struct {
	Name     string   `yaml:"name" toml:"name"`
	Kind     string   `yaml:"kind" toml:"kind"` // "string", "int", "bool" or "pixmap"
	Default  string   `yaml:"default" toml:"default"`
	AltNames []string `yaml:"alt_names" toml:"alt_names"`
}

// ServerConfig configures the HTTP query API.
type ServerConfig struct {
	Host         string        `yaml:"host" toml:"host"`
	Port         int           `yaml:"port" toml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"` // default: /metrics
}

// SnapshotConfig configures the snapshot history database.
type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	DSN     string `yaml:"dsn" toml:"dsn"`
	Keep    int    `yaml:"keep" toml:"keep"` // snapshots retained after each save (default: 20)
}

// OpenAPIConfig configures the OpenAPI document and Swagger UI.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Load reads configuration from a YAML file, or TOML when the extension
// is .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	return finish(&cfg)
}

// LoadFromEnv creates configuration from THEMEKIT_* environment variables
// and defaults only.
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads path when given, else the discovered per-user
// file, else environment variables and defaults.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if found, err := Discover(); err == nil {
		return Load(found)
	}
	return LoadFromEnv()
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// SearchPaths returns the candidate config files in lookup order.
func SearchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, AppName))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", AppName))
	}

	var out []string
	for _, dir := range dirs {
		out = append(out, filepath.Join(dir, "config.yaml"), filepath.Join(dir, "config.toml"))
	}
	return out
}

// Discover returns the first existing file from SearchPaths.
func Discover() (string, error) {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", ErrNoConfig
}

// UserDir returns the per-user configuration directory.
func UserDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("create config directory %s: not a directory", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}
	return nil
}

// applyEnvOverrides applies THEMEKIT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Theme
	if v := os.Getenv("THEMEKIT_THEME_PATH"); v != "" {
		cfg.Theme.Path = v
	}
	if v := os.Getenv("THEMEKIT_THEME_OVERLAY"); v != "" {
		cfg.Theme.Overlay = v
	}
	if v := os.Getenv("THEMEKIT_THEME_VERBOSE"); v != "" {
		cfg.Theme.Verbose = parseBool(v)
	}
	if v := os.Getenv("THEMEKIT_THEME_WATCH"); v != "" {
		cfg.Theme.Watch = parseBool(v)
	}

	// Server
	if v := os.Getenv("THEMEKIT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("THEMEKIT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("THEMEKIT_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("THEMEKIT_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Logging
	if v := os.Getenv("THEMEKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("THEMEKIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics
	if v := os.Getenv("THEMEKIT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("THEMEKIT_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// Snapshots
	if v := os.Getenv("THEMEKIT_SNAPSHOT_ENABLED"); v != "" {
		cfg.Snapshot.Enabled = parseBool(v)
	}
	if v := os.Getenv("THEMEKIT_SNAPSHOT_DSN"); v != "" {
		cfg.Snapshot.DSN = v
	}
	if v := os.Getenv("THEMEKIT_SNAPSHOT_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Snapshot.Keep = n
		}
	}

	// OpenAPI
	if v := os.Getenv("THEMEKIT_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Theme.PrimaryName == "" {
		cfg.Theme.PrimaryName = "theme.cfg"
	}
	if cfg.Theme.LegacyName == "" {
		cfg.Theme.LegacyName = "themerc"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8087
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Snapshot.DSN == "" {
		cfg.Snapshot.DSN = "themekit.db"
	}
	if cfg.Snapshot.Keep == 0 {
		cfg.Snapshot.Keep = 20
	}

	for i := range cfg.Themes {
		for j := range cfg.Themes[i].Items {
			if cfg.Themes[i].Items[j].Kind == "" {
				cfg.Themes[i].Items[j].Kind = KindString
			}
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	seen := map[string]bool{}
	for i, t := range cfg.Themes {
		if t.Name == "" {
			return fmt.Errorf("themes[%d].name is required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("themes[%d].name %q is duplicated", i, t.Name)
		}
		seen[t.Name] = true

		for j, item := range t.Items {
			if item.Name == "" {
				return fmt.Errorf("themes[%d].items[%d].name is required", i, j)
			}
			if strings.Contains(item.Name, "*") {
				return fmt.Errorf("themes[%d].items[%d].name %q must not contain '*'", i, j, item.Name)
			}
			if !validKinds[item.Kind] {
				return fmt.Errorf("themes[%d].items[%d].kind must be one of: string, int, bool, pixmap", i, j)
			}
		}
	}

	return nil
}
