package config

import "time"

// Default returns the built-in last-resort configuration used when no config
// file can be loaded.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in zero-valued fields after unmarshalling, so a partial
// config file only overrides what it names.
func applyDefaults(cfg *Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if cfg.SrcDir == "" {
		cfg.SrcDir = "src"
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "dist"
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = "assets"
	}
	if cfg.PageDir == "" {
		cfg.PageDir = "pages"
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "My Site"
	}
	if cfg.Watch.QuietWindow <= 0 {
		cfg.Watch.QuietWindow = Duration(300 * time.Millisecond)
	}
	if cfg.Watch.Interval < 0 {
		cfg.Watch.Interval = 0
	}
	if cfg.Notify != nil && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "sitegen.builds"
	}
}
