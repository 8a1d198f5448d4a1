// Package geom provides the value types shared by the layout engine:
// points, sizes and axis-aligned rectangles.
//
// Points are gonum r2 vectors so the vector helpers in
// gonum.org/v1/gonum/spatial/r2 (Add, Sub, Scale, Norm, Rotate) apply
// directly. Every type here is an immutable value; methods return new values.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/mindcanvas/pkg/errors"
)

// Point is a position in canvas space.
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Finite reports whether both coordinates of p are finite.
func Finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// CheckPoint returns an INVALID_GEOMETRY error if p is not finite.
func CheckPoint(name string, p Point) error {
	return errors.ValidateFinite(name, p.X, p.Y)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b Point, t float64) Point {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// Polar returns the point at the given radius and angle (radians) from c.
func Polar(c Point, radius, angle float64) Point {
	return Point{X: c.X + radius*math.Cos(angle), Y: c.Y + radius*math.Sin(angle)}
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h float64) Size { return Size{Width: w, Height: h} }

// Center returns the midpoint of a rectangle of this size anchored at the origin.
func (s Size) Center() Point { return Point{X: s.Width / 2, Y: s.Height / 2} }

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Validate returns an INVALID_GEOMETRY error for non-finite or negative sizes.
func (s Size) Validate(name string) error {
	if err := errors.ValidateNonNegative(name+" width", s.Width); err != nil {
		return err
	}
	return errors.ValidateNonNegative(name+" height", s.Height)
}

// Rect is an axis-aligned rectangle described by its top-left origin and size.
// The zero Rect is the explicit "no content" sentinel.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// R is shorthand for a Rect with origin (x, y) and size (w, h).
func R(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// FromBox converts a gonum box into a Rect, canonicalising min/max first.
func FromBox(b r2.Box) Rect {
	b = b.Canon()
	sz := b.Size()
	return Rect{Origin: b.Min, Size: Size{Width: sz.X, Height: sz.Y}}
}

// Box returns r as a gonum r2.Box.
func (r Rect) Box() r2.Box {
	return r2.Box{Min: r.Origin, Max: r.Max()}
}

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool { return r == Rect{} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.Origin.X + r.Size.Width, Y: r.Origin.Y + r.Size.Height}
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// Inset shrinks r by d on every side. A negative d grows it.
// The result never has negative dimensions.
func (r Rect) Inset(d float64) Rect {
	out := Rect{
		Origin: Point{X: r.Origin.X + d, Y: r.Origin.Y + d},
		Size:   Size{Width: r.Size.Width - 2*d, Height: r.Size.Height - 2*d},
	}
	if out.Size.Width < 0 {
		out.Origin.X = r.Center().X
		out.Size.Width = 0
	}
	if out.Size.Height < 0 {
		out.Origin.Y = r.Center().Y
		out.Size.Height = 0
	}
	return out
}

// Expand grows r by d on every side.
func (r Rect) Expand(d float64) Rect { return r.Inset(-d) }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	m := r.Max()
	return p.X >= r.Origin.X && p.X <= m.X && p.Y >= r.Origin.Y && p.Y <= m.Y
}

// Intersects reports whether r and o overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	rm, om := r.Max(), o.Max()
	return r.Origin.X <= om.X && o.Origin.X <= rm.X &&
		r.Origin.Y <= om.Y && o.Origin.Y <= rm.Y
}

// Union returns the smallest rectangle containing r and o.
// The zero rectangle acts as the identity. Degenerate (zero-area) rectangles
// still contribute their extent.
func (r Rect) Union(o Rect) Rect {
	if r.IsZero() {
		return o
	}
	if o.IsZero() {
		return r
	}
	rm, om := r.Max(), o.Max()
	return FromBox(r2.Box{
		Min: Point{X: math.Min(r.Origin.X, o.Origin.X), Y: math.Min(r.Origin.Y, o.Origin.Y)},
		Max: Point{X: math.Max(rm.X, om.X), Y: math.Max(rm.Y, om.Y)},
	})
}

// Around returns the rectangle of size sz centered on p.
func Around(p Point, sz Size) Rect {
	return Rect{
		Origin: Point{X: p.X - sz.Width/2, Y: p.Y - sz.Height/2},
		Size:   sz,
	}
}
