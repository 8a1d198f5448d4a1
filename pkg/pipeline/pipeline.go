// Package pipeline wires the engine packages into one frame computation.
//
// The engine packages are independent pure functions. This package is the
// caller that sequences them the way the canvas needs:
//
//  1. Index: validate the snapshot and reconcile adjacency (pkg/tree)
//  2. Cull: above a node-count threshold, drop nodes far outside the window
//     before layout (pkg/virtual)
//  3. Layout: solve radial positions (pkg/layout)
//  4. Mirror: reflect positions for right-to-left locales (pkg/rtl)
//  5. Fit: compute bounds and the screen transform (pkg/viewport)
//  6. Visible: compute the render set under the transform (pkg/virtual)
//  7. Route and focus: connection paths and emphasis (pkg/route, pkg/focus)
//
// The result is a [frame.Frame]. [Runner] adds the caller-side concerns the
// engine deliberately leaves out: caching, logging, collapsing duplicate
// concurrent requests, and rendering artifacts.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.FromConfig(cfg)
//	opts.Formats = []string{"svg"}
//	result, err := runner.Execute(ctx, t, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindcanvas/pkg/cache"
	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/focus"
	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/layout"
	"github.com/matzehuels/mindcanvas/pkg/render"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
	"github.com/matzehuels/mindcanvas/pkg/viewport"
	"github.com/matzehuels/mindcanvas/pkg/virtual"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height.
	DefaultHeight = 600.0
)

// Format constants for output artifacts.
const (
	FormatSVG  = render.FormatSVG
	FormatDOT  = render.FormatDOT
	FormatPNG  = render.FormatPNG
	FormatJSON = render.FormatJSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one frame computation and its artifacts.
type Options struct {
	// Root overrides the snapshot's root id.
	Root string `json:"root,omitempty"`

	// Canvas and screen
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	ScreenWidth  float64 `json:"screen_width,omitempty"`  // defaults to Width
	ScreenHeight float64 `json:"screen_height,omitempty"` // defaults to Height

	// Layout and fit
	Layout   layout.Options `json:"layout"`
	MaxScale float64        `json:"max_scale,omitempty"`
	Inset    float64        `json:"inset,omitempty"`
	Padding  float64        `json:"padding,omitempty"`

	// Virtualization. Threshold is the reachable node count above which
	// nodes are culled before layout; zero disables pre-layout culling.
	Virtual   virtual.Options `json:"virtual"`
	Threshold int             `json:"threshold,omitempty"`

	// Window is the canvas-space region used for culling. When nil, pre-layout
	// culling uses the canvas and the visible set uses the region shown under
	// the fit transform.
	Window *geom.Rect `json:"window,omitempty"`

	// Connections, locale and focus
	Style       route.Style   `json:"style,omitempty"`
	Route       route.Options `json:"route"`
	Direction   rtl.Direction `json:"direction"`
	Focus       string        `json:"focus,omitempty"`
	FocusConfig focus.Config  `json:"focus_config"`

	// Artifacts
	Formats     []string `json:"formats,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	OnlyVisible bool     `json:"only_visible,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// FromConfig builds options from loaded settings.
func FromConfig(cfg config.Config) Options {
	return Options{
		Width:       cfg.Layout.CanvasWidth,
		Height:      cfg.Layout.CanvasHeight,
		Layout:      cfg.LayoutOptions(),
		MaxScale:    cfg.Viewport.MaxScale,
		Inset:       cfg.Viewport.Inset,
		Padding:     cfg.Viewport.Padding,
		Virtual:     cfg.VirtualOptions(),
		Threshold:   cfg.Virtualization.Threshold,
		Style:       cfg.RouteStyle(),
		Route:       cfg.RouteOptions(),
		Direction:   cfg.Direction(),
		FocusConfig: cfg.FocusConfig(),
		Labels:      true,
	}
}

// SetDefaults fills zero values that have no meaningful zero.
// Inset, padding and threshold are left alone: zero is valid for them.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.ScreenWidth == 0 {
		o.ScreenWidth = o.Width
	}
	if o.ScreenHeight == 0 {
		o.ScreenHeight = o.Height
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	if o.MaxScale == 0 {
		o.MaxScale = viewport.DefaultMaxScale
	}
	if o.Virtual.Footprint.IsEmpty() && o.Virtual.Margin == 0 {
		o.Virtual = virtual.DefaultOptions()
	}
	if o.Style == "" {
		o.Style = route.Curved
	}
	if o.Route == (route.Options{}) {
		o.Route = route.DefaultOptions()
	}
	if o.FocusConfig == (focus.Config{}) {
		o.FocusConfig = focus.DefaultConfig()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks options after defaults are applied.
func (o *Options) Validate() error {
	if err := o.Canvas().Validate("canvas"); err != nil {
		return err
	}
	if err := o.Screen().Validate("screen"); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if err := errors.ValidatePositive("max scale", o.MaxScale); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("inset", o.Inset); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("padding", o.Padding); err != nil {
		return err
	}
	if err := o.Virtual.Validate(); err != nil {
		return err
	}
	if o.Window != nil {
		if err := geom.CheckPoint("window origin", o.Window.Origin); err != nil {
			return err
		}
		if err := o.Window.Size.Validate("window"); err != nil {
			return err
		}
	}
	if _, err := route.ParseStyle(string(o.Style)); err != nil {
		return err
	}
	if err := o.FocusConfig.Validate(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// Canvas returns the layout canvas size.
func (o *Options) Canvas() geom.Size { return geom.Sz(o.Width, o.Height) }

// Screen returns the target screen size.
func (o *Options) Screen() geom.Size { return geom.Sz(o.ScreenWidth, o.ScreenHeight) }

// FrameKeyOpts returns cache key options for frame computation.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	return cache.FrameKeyOpts{
		Root:            o.Root,
		CanvasWidth:     o.Width,
		CanvasHeight:    o.Height,
		ScreenWidth:     o.ScreenWidth,
		ScreenHeight:    o.ScreenHeight,
		BranchSpacing:   o.Layout.BranchSpacing,
		NodeSpacing:     o.Layout.NodeSpacing,
		MinSiblingAngle: o.Layout.MinSiblingAngle,
		MaxFan:          o.Layout.MaxFan,
		MaxScale:        o.MaxScale,
		Inset:           o.Inset,
		Padding:         o.Padding,
		Margin:          o.Virtual.Margin,
		FootprintWidth:  o.Virtual.Footprint.Width,
		FootprintHeight: o.Virtual.Footprint.Height,
		Threshold:       o.Threshold,
		Window:          windowKey(o.Window),
		Direction:       o.Direction.String(),
		Style:           string(o.Style),
		Curvature:       o.Route.Curvature,
		Jitter:          o.Route.Jitter,
		Segments:        o.Route.Segments,
		ReducedMotion:   o.Route.ReducedMotion,
		Focus:           o.Focus,
		DimOpacity:      o.FocusConfig.DimOpacity,
		PathOpacity:     o.FocusConfig.PathOpacity,
	}
}

func windowKey(w *geom.Rect) []float64 {
	if w == nil {
		return nil
	}
	return []float64{w.Origin.X, w.Origin.Y, w.Size.Width, w.Size.Height}
}

// ArtifactKeyOpts returns cache key options for one artifact format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Labels:     o.Labels,
		OnlyCulled: o.OnlyVisible,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the computed canvas state.
	Frame *frame.Frame

	// TreeHash is the content hash of the input snapshot.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputNodes int
	LaidOut    int
	Visible    int
	Culled     int
	Edges      int
	Warnings   int

	IndexTime  time.Duration
	CullTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration

	// Pool reports the render buffer pool after the run.
	Pool virtual.PoolStats
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FrameHit  bool // Whether the frame came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
