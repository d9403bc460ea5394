package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file consulted when no --config flag is given.
const DefaultPath = "config.yaml"

// Config represents the application configuration.
type Config struct {
	BaseDir   string `yaml:"base_dir,omitempty"`
	SrcDir    string `yaml:"src_dir,omitempty"`
	OutDir    string `yaml:"out_dir,omitempty"`
	AssetDir  string `yaml:"asset_dir,omitempty"`
	PageDir   string `yaml:"page_dir,omitempty"`
	LayoutDir string `yaml:"layout_dir,omitempty"`

	Site   SiteConfig   `yaml:"site"`
	Output OutputConfig `yaml:"output"`
	Watch  WatchConfig  `yaml:"watch"`

	// StateDir, when set, enables the SQLite build-history store in
	// watch/serve modes.
	StateDir string `yaml:"state_dir,omitempty"`

	// Notify, when set, publishes build reports to NATS after every
	// watch-mode build.
	Notify *NotifyConfig `yaml:"notify,omitempty"`
}

// SiteConfig carries site-wide metadata injected into every layout.
type SiteConfig struct {
	URL         string `yaml:"url,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Image       string `yaml:"image,omitempty"`
}

// OutputConfig represents output directory behavior.
type OutputConfig struct {
	// Clean removes prior output contents before a build. Off by default:
	// the historical behavior is a non-destructive ensure-exists, and
	// pre-existing unrelated files survive builds.
	Clean bool `yaml:"clean"`
}

// WatchConfig tunes the watch loop.
type WatchConfig struct {
	// QuietWindow is how long the watcher waits after the last filesystem
	// event before triggering a rebuild. Bursts within the window coalesce
	// into a single rebuild.
	QuietWindow Duration `yaml:"quiet_window,omitempty"`

	// Interval, when positive, schedules an unconditional periodic rebuild
	// in addition to event-driven ones.
	Interval Duration `yaml:"interval,omitempty"`
}

// NotifyConfig configures NATS build-report publication.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject,omitempty"`
}

// Source identifies where a loaded configuration came from.
type Source string

const (
	// SourceFile means the configuration was read from the config file.
	SourceFile Source = "file"
	// SourceDefault means the built-in defaults were used.
	SourceDefault Source = "default"
)

// LoadInfo reports the outcome of a configuration load. Err is non-nil when
// the defaults were used because the file was unreadable or malformed; it is
// nil when the file at the default path simply does not exist.
type LoadInfo struct {
	Path   string
	Source Source
	Err    error
}

// Load resolves configuration from the given file path. Any failure (missing
// file, read error, parse error) falls back to the built-in defaults; the
// failure mode is reported through LoadInfo rather than an error so callers
// and tests can distinguish loaded-from-file, used-default, and
// malformed-file outcomes.
func Load(path string) (*Config, LoadInfo) {
	loadEnvFiles()

	if path == "" {
		path = DefaultPath
	}
	info := LoadInfo{Path: path, Source: SourceFile}

	data, err := os.ReadFile(path)
	if err != nil {
		info.Source = SourceDefault
		if !errors.Is(err, fs.ErrNotExist) || path != DefaultPath {
			info.Err = fmt.Errorf("read config file: %w", err)
		}
		return Default(), info
	}

	// Expand ${VAR} references so secrets and host-specific paths can come
	// from the environment.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		info.Source = SourceDefault
		info.Err = fmt.Errorf("unmarshal config: %w", err)
		return Default(), info
	}

	applyDefaults(cfg)
	return cfg, info
}

// loadEnvFiles loads environment variables from .env/.env.local, stopping at
// the first file that parses. Existing process environment is not overridden.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", "path", envPath)
			return
		}
	}
}

// Init creates a new configuration file with example content.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Default()
	example.Site = SiteConfig{
		URL:         "https://example.com",
		Title:       "My Site",
		Description: "A site built with sitegen",
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	slog.Info("Configuration file created", "path", path)
	return nil
}
