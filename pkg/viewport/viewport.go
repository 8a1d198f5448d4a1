// Package viewport computes content bounds and the transform that fits
// content into a screen.
//
// A [Transform] maps canvas space to screen space:
//
//	screen = canvas*Scale + Offset
//
// Everything here is a pure function of its arguments and safe to call every
// frame.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Defaults for fitting content.
const (
	DefaultInset    = 40.0
	DefaultPadding  = 100.0
	DefaultMaxScale = 2.0
	DefaultMinScale = 0.05
)

// =============================================================================
// Bounds
// =============================================================================

// Bounds returns the rectangle enclosing every node position, grown by
// padding on all four sides. Nodes are treated as points.
//
// An empty node set yields the zero rectangle. Nodes with non-finite
// positions are skipped; if no node is usable the zero rectangle is returned.
func Bounds(nodes []tree.Node, padding float64) (geom.Rect, error) {
	pts := make([]geom.Point, len(nodes))
	for i, n := range nodes {
		pts[i] = n.Position
	}
	return PointBounds(pts, padding)
}

// PointBounds is [Bounds] over bare points.
func PointBounds(points []geom.Point, padding float64) (geom.Rect, error) {
	if err := errors.ValidateNonNegative("padding", padding); err != nil {
		return geom.Rect{}, err
	}

	box := r2.Box{
		Min: geom.Pt(math.Inf(1), math.Inf(1)),
		Max: geom.Pt(math.Inf(-1), math.Inf(-1)),
	}
	found := false
	for _, p := range points {
		if !geom.Finite(p) {
			continue
		}
		found = true
		box.Min = geom.Pt(math.Min(box.Min.X, p.X), math.Min(box.Min.Y, p.Y))
		box.Max = geom.Pt(math.Max(box.Max.X, p.X), math.Max(box.Max.Y, p.Y))
	}
	if !found {
		return geom.Rect{}, nil
	}
	return geom.FromBox(box).Expand(padding), nil
}

// =============================================================================
// Transform
// =============================================================================

// Transform is a uniform scale followed by a translation.
type Transform struct {
	Scale  float64    `json:"scale"`
	Offset geom.Point `json:"offset"`
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform { return Transform{Scale: 1} }

// Apply maps a canvas point to screen space.
func (t Transform) Apply(p geom.Point) geom.Point {
	return r2.Add(r2.Scale(t.Scale, p), t.Offset)
}

// Invert maps a screen point back to canvas space.
func (t Transform) Invert(p geom.Point) geom.Point {
	return r2.Scale(1/t.Scale, r2.Sub(p, t.Offset))
}

// ApplyRect maps a canvas rectangle to screen space.
func (t Transform) ApplyRect(r geom.Rect) geom.Rect {
	return geom.Rect{
		Origin: t.Apply(r.Origin),
		Size:   geom.Sz(r.Size.Width*t.Scale, r.Size.Height*t.Scale),
	}
}

// Visible returns the canvas-space window shown on a screen of the given size.
func (t Transform) Visible(screen geom.Size) geom.Rect {
	return geom.Rect{
		Origin: t.Invert(geom.Pt(0, 0)),
		Size:   geom.Sz(screen.Width/t.Scale, screen.Height/t.Scale),
	}
}

// Pan shifts the transform by a screen-space delta.
func (t Transform) Pan(delta geom.Point) Transform {
	t.Offset = r2.Add(t.Offset, delta)
	return t
}

// ZoomAbout multiplies the scale by factor while keeping the screen point
// anchor fixed. The resulting scale is clamped to [minScale, maxScale].
func (t Transform) ZoomAbout(anchor geom.Point, factor, minScale, maxScale float64) (Transform, error) {
	if err := errors.ValidatePositive("zoom factor", factor); err != nil {
		return t, err
	}
	if err := geom.CheckPoint("zoom anchor", anchor); err != nil {
		return t, err
	}
	s := math.Max(minScale, math.Min(maxScale, t.Scale*factor))
	ratio := s / t.Scale
	return Transform{
		Scale:  s,
		Offset: r2.Sub(anchor, r2.Scale(ratio, r2.Sub(anchor, t.Offset))),
	}, nil
}

// =============================================================================
// Fitting
// =============================================================================

// FitToScreen returns the transform that fits content inside screen with
// [DefaultInset] on each side. See [FitToScreenInset].
func FitToScreen(content geom.Rect, screen geom.Size, maxScale float64) (Transform, error) {
	return FitToScreenInset(content, screen, maxScale, DefaultInset)
}

// FitToScreenInset fits content inside screen minus inset on every side.
//
// The per-axis scales that would make content fill the available area are
// computed independently and the smaller one wins, so neither axis
// overflows. The result never exceeds maxScale. The offset maps the center
// of content to the center of screen.
//
// When the inset leaves no room on an axis the full screen dimension is used
// for that axis. Zero-sized content (a single point) scales to maxScale.
func FitToScreenInset(content geom.Rect, screen geom.Size, maxScale, inset float64) (Transform, error) {
	if err := errors.ValidatePositive("max scale", maxScale); err != nil {
		return Transform{}, err
	}
	if err := errors.ValidateNonNegative("inset", inset); err != nil {
		return Transform{}, err
	}
	if err := errors.ValidatePositive("screen width", screen.Width); err != nil {
		return Transform{}, err
	}
	if err := errors.ValidatePositive("screen height", screen.Height); err != nil {
		return Transform{}, err
	}
	if err := geom.CheckPoint("content origin", content.Origin); err != nil {
		return Transform{}, err
	}
	if err := content.Size.Validate("content"); err != nil {
		return Transform{}, err
	}

	availW := screen.Width - 2*inset
	if availW <= 0 {
		availW = screen.Width
	}
	availH := screen.Height - 2*inset
	if availH <= 0 {
		availH = screen.Height
	}

	scale := maxScale
	if content.Size.Width > 0 {
		scale = math.Min(scale, availW/content.Size.Width)
	}
	if content.Size.Height > 0 {
		scale = math.Min(scale, availH/content.Size.Height)
	}
	if scale <= 0 || math.IsNaN(scale) {
		return Transform{}, errors.InvalidGeometry("content %v cannot be fitted into %v", content.Size, screen)
	}

	return Transform{
		Scale:  scale,
		Offset: r2.Sub(screen.Center(), r2.Scale(scale, content.Center())),
	}, nil
}
