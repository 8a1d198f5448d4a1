// Package virtual decides which nodes are worth rendering for the current
// viewport and keeps a bounded pool of reusable render objects.
//
// A node is visible when its footprint (a rectangle of the configured size
// centered on its position) intersects the viewport grown by a margin. The
// margin pre-fetches nodes just outside the edge so scrolling does not pop
// content in. Every node inside the unexpanded viewport is always included;
// nodes far outside viewport plus margin are always excluded.
//
// [VisibleNodes] scans linearly. [Index] answers the same question through a
// k-d tree and is what [Cull] uses once a snapshot crosses the index
// threshold.
package virtual

import (
	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Defaults for culling.
const (
	DefaultMargin          = 200.0
	DefaultFootprintWidth  = 160.0
	DefaultFootprintHeight = 60.0
	DefaultIndexThreshold  = 256
)

// Options configures culling.
type Options struct {
	Margin    float64   // Pre-fetch distance around the viewport
	Footprint geom.Size // Estimated rendered size of one node

	// IndexThreshold is the node count from which Cull builds a k-d tree.
	// Zero means DefaultIndexThreshold; negative disables the index.
	IndexThreshold int
}

// DefaultOptions returns the standard culling options.
func DefaultOptions() Options {
	return Options{
		Margin:         DefaultMargin,
		Footprint:      geom.Sz(DefaultFootprintWidth, DefaultFootprintHeight),
		IndexThreshold: DefaultIndexThreshold,
	}
}

// Validate rejects unusable options.
func (o Options) Validate() error {
	if err := errors.ValidateNonNegative("margin", o.Margin); err != nil {
		return err
	}
	return o.Footprint.Validate("footprint")
}

// window returns the rectangle a node center must fall in to be visible:
// the viewport grown by the margin plus half the footprint on each axis.
func (o Options) window(viewport geom.Rect) geom.Rect {
	grown := viewport.Expand(o.Margin)
	hw, hh := o.Footprint.Width/2, o.Footprint.Height/2
	return geom.Rect{
		Origin: geom.Pt(grown.Origin.X-hw, grown.Origin.Y-hh),
		Size:   geom.Sz(grown.Size.Width+2*hw, grown.Size.Height+2*hh),
	}
}

func checkViewport(viewport geom.Rect) error {
	if err := geom.CheckPoint("viewport origin", viewport.Origin); err != nil {
		return err
	}
	return viewport.Size.Validate("viewport")
}

// IsVisible reports whether a node at p is visible in viewport.
func IsVisible(p geom.Point, viewport geom.Rect, opts Options) bool {
	if !geom.Finite(p) {
		return false
	}
	return geom.Around(p, opts.Footprint).Intersects(viewport.Expand(opts.Margin))
}

// VisibleNodes returns the ids of visible nodes in input order. Nodes with
// non-finite positions are never visible.
func VisibleNodes(nodes []tree.Node, viewport geom.Rect, opts Options) ([]string, error) {
	if err := checkViewport(viewport); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out []string
	for _, n := range nodes {
		if IsVisible(n.Position, viewport, opts) {
			out = append(out, n.ID)
		}
	}
	return out, nil
}

// Cull picks the linear scan or the k-d tree depending on the node count.
func Cull(nodes []tree.Node, viewport geom.Rect, opts Options) ([]string, error) {
	threshold := opts.IndexThreshold
	if threshold == 0 {
		threshold = DefaultIndexThreshold
	}
	if threshold < 0 || len(nodes) < threshold {
		return VisibleNodes(nodes, viewport, opts)
	}
	return NewIndex(nodes).Visible(viewport, opts)
}

// IDSet converts a slice of ids into a lookup set.
func IDSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
