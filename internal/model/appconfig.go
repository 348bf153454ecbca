package model

import (
	"fmt"
	"math"
)

// Selection policy names accepted in AppConfig.SelectionPolicy.
const (
	PolicyComposite = "composite"
	PolicyAttached  = "attached"
)

// AppConfig holds application-wide preferences and fillet defaults.
type AppConfig struct {
	// Fillet defaults applied to the panel on startup
	DefaultRadius   float64 `toml:"default_radius"`
	DeleteOriginal  bool    `toml:"delete_original"`
	SelectionPolicy string  `toml:"selection_policy"` // "composite" or "attached"

	// Document defaults
	CurveFacets int  `toml:"curve_facets"` // segments per full circle
	Units       Unit `toml:"units"`

	// Toolpath export
	Toolpath ToolpathSettings `toml:"toolpath"`

	// Application preferences
	LogLevel    string   `toml:"log_level"` // "debug", "info", "warn", "error"
	RecentFiles []string `toml:"recent_files"`
	Theme       string   `toml:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultRadius:   5,
		DeleteOriginal:  false,
		SelectionPolicy: PolicyComposite,
		CurveFacets:     24,
		Units:           UnitMillimeter,
		Toolpath:        DefaultToolpathSettings(),
		LogLevel:        "info",
		RecentFiles:     []string{},
		Theme:           "system",
	}
}

// Validate checks that the config values can drive a fillet run.
func (c AppConfig) Validate() error {
	if c.DefaultRadius <= 0 || math.IsNaN(c.DefaultRadius) || math.IsInf(c.DefaultRadius, 0) {
		return fmt.Errorf("default_radius must be a positive number, got %v", c.DefaultRadius)
	}
	if c.CurveFacets < 1 {
		return fmt.Errorf("curve_facets must be at least 1, got %d", c.CurveFacets)
	}
	switch c.SelectionPolicy {
	case PolicyComposite, PolicyAttached:
	default:
		return fmt.Errorf("unknown selection_policy %q", c.SelectionPolicy)
	}
	if !c.Units.Valid() {
		return fmt.Errorf("unknown units %q", c.Units)
	}
	return nil
}

// AddRecentFile moves path to the front of RecentFiles, keeping at most max entries.
func (c *AppConfig) AddRecentFile(path string, max int) {
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > max {
		files = files[:max]
	}
	c.RecentFiles = files
}
