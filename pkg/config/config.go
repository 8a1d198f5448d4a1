// Package config loads mindcanvas settings from TOML.
//
// Every field has a default, so an absent file is not an error. A file only
// needs the keys it changes:
//
//	[layout]
//	branch_spacing = 180
//
//	[connection]
//	style = "organic"
//
//	[locale]
//	direction = "rtl"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/focus"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/layout"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
	"github.com/matzehuels/mindcanvas/pkg/viewport"
	"github.com/matzehuels/mindcanvas/pkg/virtual"
)

// Cache backends.
const (
	CacheNull  = "null"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full settings tree.
type Config struct {
	Layout         Layout         `toml:"layout"`
	Viewport       Viewport       `toml:"viewport"`
	Virtualization Virtualization `toml:"virtualization"`
	Connection     Connection     `toml:"connection"`
	Locale         Locale         `toml:"locale"`
	Focus          Focus          `toml:"focus"`
	Cache          Cache          `toml:"cache"`
}

// Layout holds solver spacing and canvas size.
type Layout struct {
	NodeSpacing   float64 `toml:"node_spacing"`
	BranchSpacing float64 `toml:"branch_spacing"`
	CanvasWidth   float64 `toml:"canvas_width"`
	CanvasHeight  float64 `toml:"canvas_height"`
}

// Viewport holds fit-to-screen settings.
type Viewport struct {
	MaxScale float64 `toml:"max_scale"`
	Inset    float64 `toml:"inset"`
	Padding  float64 `toml:"padding"`
}

// Virtualization holds culling and pooling settings.
type Virtualization struct {
	Margin          float64 `toml:"margin"`
	FootprintWidth  float64 `toml:"footprint_width"`
	FootprintHeight float64 `toml:"footprint_height"`
	Threshold       int     `toml:"threshold"` // Cull before layout above this node count
	PoolCap         int     `toml:"pool_cap"`
}

// Connection holds routing settings.
type Connection struct {
	Style     string  `toml:"style"`
	Curvature float64 `toml:"curvature"`
	Jitter    float64 `toml:"jitter"`
	Segments  int     `toml:"segments"`
}

// Locale holds the reading direction.
type Locale struct {
	Direction string `toml:"direction"`
}

// Focus holds focus mode presentation.
type Focus struct {
	DimOpacity    float64 `toml:"dim_opacity"`
	PathOpacity   float64 `toml:"path_opacity"`
	ReducedMotion bool    `toml:"reduced_motion"`
	TransitionMS  int     `toml:"transition_ms"`
}

// Cache selects where the CLI caches computed frames.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
}

// DefaultThreshold is the node count above which the pipeline culls before layout.
const DefaultThreshold = 500

// Default returns the built-in settings.
func Default() Config {
	lo := layout.DefaultOptions()
	ro := route.DefaultOptions()
	return Config{
		Layout: Layout{
			NodeSpacing:   lo.NodeSpacing,
			BranchSpacing: lo.BranchSpacing,
			CanvasWidth:   800,
			CanvasHeight:  600,
		},
		Viewport: Viewport{
			MaxScale: viewport.DefaultMaxScale,
			Inset:    viewport.DefaultInset,
			Padding:  viewport.DefaultPadding,
		},
		Virtualization: Virtualization{
			Margin:          virtual.DefaultMargin,
			FootprintWidth:  virtual.DefaultFootprintWidth,
			FootprintHeight: virtual.DefaultFootprintHeight,
			Threshold:       DefaultThreshold,
			PoolCap:         virtual.DefaultPoolCap,
		},
		Connection: Connection{
			Style:     string(route.Curved),
			Curvature: ro.Curvature,
			Jitter:    ro.Jitter,
			Segments:  ro.Segments,
		},
		Locale: Locale{Direction: rtl.LTR.String()},
		Focus: Focus{
			DimOpacity:   focus.DefaultDimOpacity,
			PathOpacity:  focus.DefaultPathOpacity,
			TransitionMS: focus.DefaultTransitionMS,
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     "24h",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mindcanvas/config.toml, falling back
// to the user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "mindcanvas", "config.toml")
}

// Load reads path on top of the defaults and validates the result.
// A missing file yields the defaults when allowMissing is set.
func Load(path string, allowMissing bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if allowMissing {
				return cfg, nil
			}
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of the defaults without validating.
func Decode(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
	}
	return cfg, nil
}

// Validate checks every section and reports the first problem as an
// INVALID_CONFIG error.
func (c Config) Validate() error {
	checks := []func() error{
		func() error { return c.LayoutOptions().Validate() },
		func() error { return c.VirtualOptions().Validate() },
		func() error { return c.FocusConfig().Validate() },
		func() error { return errors.ValidatePositive("canvas width", c.Layout.CanvasWidth) },
		func() error { return errors.ValidatePositive("canvas height", c.Layout.CanvasHeight) },
		func() error { return errors.ValidatePositive("max scale", c.Viewport.MaxScale) },
		func() error { return errors.ValidateNonNegative("inset", c.Viewport.Inset) },
		func() error { return errors.ValidateNonNegative("padding", c.Viewport.Padding) },
		func() error { return errors.ValidateNonNegative("curvature", c.Connection.Curvature) },
		func() error { return errors.ValidateNonNegative("jitter", c.Connection.Jitter) },
		func() error { _, err := route.ParseStyle(c.Connection.Style); return err },
		func() error { _, err := rtl.ParseDirection(c.Locale.Direction); return err },
		func() error { _, err := c.CacheTTL(); return err },
		c.validateCache,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			if errors.Is(err, errors.ErrCodeInvalidConfig) {
				return err
			}
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
		}
	}
	if c.Virtualization.Threshold < 0 || c.Virtualization.PoolCap < 0 || c.Connection.Segments < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "threshold, pool_cap and segments must not be negative")
	}
	return nil
}

func (c Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheNull, CacheFile:
		return nil
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
}

// =============================================================================
// Conversions to engine options
// =============================================================================

// Canvas returns the layout canvas size.
func (c Config) Canvas() geom.Size {
	return geom.Sz(c.Layout.CanvasWidth, c.Layout.CanvasHeight)
}

// LayoutOptions returns the solver options.
func (c Config) LayoutOptions() layout.Options {
	o := layout.DefaultOptions()
	o.NodeSpacing = c.Layout.NodeSpacing
	o.BranchSpacing = c.Layout.BranchSpacing
	return o
}

// VirtualOptions returns the culling options.
func (c Config) VirtualOptions() virtual.Options {
	return virtual.Options{
		Margin:    c.Virtualization.Margin,
		Footprint: geom.Sz(c.Virtualization.FootprintWidth, c.Virtualization.FootprintHeight),
	}
}

// RouteOptions returns the connection routing options.
func (c Config) RouteOptions() route.Options {
	return route.Options{
		Curvature:     c.Connection.Curvature,
		Jitter:        c.Connection.Jitter,
		Segments:      c.Connection.Segments,
		ReducedMotion: c.Focus.ReducedMotion,
	}
}

// RouteStyle returns the parsed connection style.
func (c Config) RouteStyle() route.Style {
	st, err := route.ParseStyle(c.Connection.Style)
	if err != nil {
		return route.Curved
	}
	return st
}

// Direction returns the parsed reading direction.
func (c Config) Direction() rtl.Direction {
	d, _ := rtl.ParseDirection(c.Locale.Direction)
	return d
}

// FocusConfig returns focus presentation values.
func (c Config) FocusConfig() focus.Config {
	return focus.Config{
		DimOpacity:    c.Focus.DimOpacity,
		PathOpacity:   c.Focus.PathOpacity,
		ReducedMotion: c.Focus.ReducedMotion,
		Transition:    time.Duration(c.Focus.TransitionMS) * time.Millisecond,
	}
}

// CacheTTL parses the cache TTL.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return d, nil
}
