// Package cache provides caller-side caching for computed canvas frames.
//
// The layout engine itself is stateless and never caches. Callers that render
// the same snapshot repeatedly (the CLI, the explore TUI) store serialized
// frames and rendered artifacts here, keyed by content hash plus every option
// that affects the output.
//
// Three backends are available:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry per key below a directory (CLI default)
//   - [RedisCache]: shared cache for several processes
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// TTLFrame is how long a computed frame stays valid. Frames are pure
	// functions of their key, so this only bounds disk or memory use.
	TTLFrame = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered SVG/DOT/PNG output is kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// FrameKey returns the key for a frame computed from the snapshot
	// whose content hash is treeHash.
	FrameKey(treeHash string, opts FrameKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact of the frame
	// whose content hash is frameHash.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts lists every option that changes a computed frame.
type FrameKeyOpts struct {
	Root            string    `json:"root,omitempty"`
	CanvasWidth     float64   `json:"canvas_width"`
	CanvasHeight    float64   `json:"canvas_height"`
	ScreenWidth     float64   `json:"screen_width"`
	ScreenHeight    float64   `json:"screen_height"`
	BranchSpacing   float64   `json:"branch_spacing"`
	NodeSpacing     float64   `json:"node_spacing"`
	MinSiblingAngle float64   `json:"min_sibling_angle"`
	MaxFan          float64   `json:"max_fan"`
	MaxScale        float64   `json:"max_scale"`
	Inset           float64   `json:"inset"`
	Padding         float64   `json:"padding"`
	Margin          float64   `json:"margin"`
	FootprintWidth  float64   `json:"footprint_width"`
	FootprintHeight float64   `json:"footprint_height"`
	Threshold       int       `json:"threshold"`
	Window          []float64 `json:"window,omitempty"`
	Direction       string    `json:"direction"`
	Style           string    `json:"style"`
	Curvature       float64   `json:"curvature"`
	Jitter          float64   `json:"jitter"`
	Segments        int       `json:"segments"`
	ReducedMotion   bool      `json:"reduced_motion,omitempty"`
	Focus           string    `json:"focus,omitempty"`
	DimOpacity      float64   `json:"dim_opacity"`
	PathOpacity     float64   `json:"path_opacity"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Labels     bool   `json:"labels,omitempty"`
	OnlyCulled bool   `json:"only_culled,omitempty"`
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(treeHash string, opts FrameKeyOpts) string {
	return hashKey("frame", treeHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

var _ Keyer = DefaultKeyer{}
