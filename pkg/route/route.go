// Package route turns a parent/child pair of positions into a path
// description that a drawing collaborator can render.
//
// Three styles are supported:
//
//   - Straight: one line segment
//   - Curved: one quadratic arc whose control point sits off the midpoint,
//     perpendicular to the segment, at Curvature times its length
//   - Organic: the curved arc split into Segments quadratic pieces with
//     jitter seeded from the endpoint ids, so a pair always draws the same
//
// Routing never fails for finite input. Coincident endpoints give a
// zero-length path.
package route

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
)

// Style selects how a connection is drawn.
type Style string

const (
	Straight Style = "straight"
	Curved   Style = "curved"
	Organic  Style = "organic"
)

// ValidStyles is the set of supported connection styles.
var ValidStyles = map[Style]bool{
	Straight: true,
	Curved:   true,
	Organic:  true,
}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if !ValidStyles[st] {
		return "", errors.New(errors.ErrCodeInvalidStyle, "unknown connection style %q (want straight, curved or organic)", s)
	}
	return st, nil
}

// Defaults for routing.
const (
	DefaultCurvature = 0.2
	DefaultJitter    = 0.06
	DefaultSegments  = 4
)

// Options tunes the curved and organic styles.
type Options struct {
	Curvature float64 // Control-point offset as a fraction of segment length
	Jitter    float64 // Organic wobble as a fraction of segment length
	Segments  int     // Organic piece count

	// ReducedMotion drops organic jitter and draws the plain curve instead.
	ReducedMotion bool
}

// DefaultOptions returns the standard routing options.
func DefaultOptions() Options {
	return Options{
		Curvature: DefaultCurvature,
		Jitter:    DefaultJitter,
		Segments:  DefaultSegments,
	}
}

// Endpoint is one end of a connection.
type Endpoint struct {
	ID    string
	Point geom.Point
}

// Op is a path command.
type Op byte

const (
	MoveTo Op = 'M'
	LineTo Op = 'L'
	QuadTo Op = 'Q'
)

// Command is one path instruction. QuadTo carries the control point first.
type Command struct {
	Op     Op
	Points []geom.Point
}

// Path is the description of one drawn connection.
type Path struct {
	Style    Style
	From, To geom.Point
	Commands []Command
}

// IsZero reports whether the path has no extent.
func (p Path) IsZero() bool { return p.From == p.To }

// SVG returns the path as SVG path data.
func (p Path) SVG() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		for j, pt := range c.Points {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(num(pt.X))
			b.WriteByte(',')
			b.WriteString(num(pt.Y))
		}
	}
	return b.String()
}

func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Route describes the connection from one endpoint to another.
func Route(from, to Endpoint, style Style, opts Options) (Path, error) {
	if err := geom.CheckPoint("from", from.Point); err != nil {
		return Path{}, err
	}
	if err := geom.CheckPoint("to", to.Point); err != nil {
		return Path{}, err
	}
	if !ValidStyles[style] {
		return Path{}, errors.New(errors.ErrCodeInvalidStyle, "unknown connection style %q", style)
	}

	a, b := from.Point, to.Point
	path := Path{Style: style, From: a, To: b}
	move := Command{Op: MoveTo, Points: []geom.Point{a}}

	length := geom.Distance(a, b)
	if length == 0 || style == Straight {
		path.Commands = []Command{move, {Op: LineTo, Points: []geom.Point{b}}}
		return path, nil
	}

	normal := r2.Scale(1/length, geom.Pt(-(b.Y-a.Y), b.X-a.X))
	ctrl := r2.Add(geom.Lerp(a, b, 0.5), r2.Scale(opts.Curvature*length, normal))

	if style == Curved || opts.ReducedMotion || opts.Segments < 1 || opts.Jitter == 0 {
		path.Commands = []Command{move, {Op: QuadTo, Points: []geom.Point{ctrl, b}}}
		return path, nil
	}

	seed := pairSeed(from.ID, to.ID)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	amp := opts.Jitter * length

	path.Commands = append(make([]Command, 0, opts.Segments+1), move)
	n := float64(opts.Segments)
	for i := 1; i <= opts.Segments; i++ {
		t0, t1 := float64(i-1)/n, float64(i)/n
		end := quad(a, ctrl, b, t1)
		if i < opts.Segments {
			end = r2.Add(end, r2.Scale(amp*0.5*(rng.Float64()*2-1), normal))
		} else {
			end = b
		}
		mid := quad(a, ctrl, b, (t0+t1)/2)
		mid = r2.Add(mid, r2.Scale(amp*(rng.Float64()*2-1), normal))
		path.Commands = append(path.Commands, Command{Op: QuadTo, Points: []geom.Point{mid, end}})
	}
	return path, nil
}

// quad evaluates the quadratic Bézier a-c-b at t.
func quad(a, c, b geom.Point, t float64) geom.Point {
	u := 1 - t
	return r2.Add(r2.Add(r2.Scale(u*u, a), r2.Scale(2*u*t, c)), r2.Scale(t*t, b))
}

// pairSeed hashes the ordered endpoint ids.
func pairSeed(from, to string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(from))
	h.Write([]byte{0})
	h.Write([]byte(to))
	return h.Sum64()
}
