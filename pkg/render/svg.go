package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/virtual"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultNodeSize is the drawn size of a node box.
var DefaultNodeSize = geom.Sz(140, 44)

const edgeCSS = `
    .edge { fill: none; stroke: #8a8f98; stroke-width: 2; stroke-linecap: round; }
    .node rect { fill: #ffffff; stroke: #3b4252; stroke-width: 2; }
    .node.focused rect { stroke: #d08770; stroke-width: 3; }
    .node text { font: 14px sans-serif; fill: #2e3440; dominant-baseline: middle; }`

// buffers recycles SVG output buffers across calls.
var buffers = virtual.NewPool(32,
	func() *bytes.Buffer { return new(bytes.Buffer) },
	func(b **bytes.Buffer) { (*b).Reset() },
)

// PoolStats reports usage of the SVG buffer pool.
func PoolStats() virtual.PoolStats { return buffers.Stats() }

// Option configures SVG output.
type Option func(*renderer)

type renderer struct {
	labels      bool
	onlyVisible bool
	node        geom.Size
}

// WithLabels toggles node text.
func WithLabels(on bool) Option { return func(r *renderer) { r.labels = on } }

// WithOnlyVisible drops nodes outside the frame's visible set.
func WithOnlyVisible() Option { return func(r *renderer) { r.onlyVisible = true } }

// WithNodeSize sets the drawn node box size.
func WithNodeSize(sz geom.Size) Option { return func(r *renderer) { r.node = sz } }

func newRenderer(opts ...Option) renderer {
	r := renderer{labels: true, node: DefaultNodeSize}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SVG renders f as a standalone SVG document sized to the frame's screen.
// Canvas coordinates are mapped through the frame transform.
func SVG(f *frame.Frame, opts ...Option) []byte {
	r := newRenderer(opts...)

	buf := buffers.Acquire()
	defer buffers.Release(buf)

	w, h := f.Screen.Width, f.Screen.Height
	if w <= 0 || h <= 0 {
		w, h = f.Canvas.Width, f.Canvas.Height
	}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f"`, w, h, w, h)
	if f.Direction == "rtl" {
		buf.WriteString(` direction="rtl"`)
	}
	buf.WriteString(">\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", edgeCSS)

	t := f.Transform
	if t.Scale == 0 {
		t.Scale = 1
	}
	fmt.Fprintf(buf, `  <g transform="matrix(%s 0 0 %s %s %s)">`+"\n", num(t.Scale), num(t.Scale), num(t.OffsetX), num(t.OffsetY))

	opacity := make(map[string]float64, len(f.Nodes))
	for _, n := range f.Nodes {
		opacity[n.ID] = n.Opacity
	}

	edges := f.Edges
	if r.onlyVisible {
		edges = f.VisibleEdges()
	}
	for _, e := range edges {
		op := math.Min(opacity[e.From], opacity[e.To])
		fmt.Fprintf(buf, `    <path class="edge" d="%s" opacity="%s"/>`+"\n", e.Path, num(op))
	}

	for _, n := range f.Nodes {
		if r.onlyVisible && !n.Visible {
			continue
		}
		r.writeNode(buf, n)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return bytes.Clone(buf.Bytes())
}

func (r renderer) writeNode(buf *bytes.Buffer, n frame.Node) {
	box := geom.Around(n.Point(), r.node)
	class := "node"
	if n.Emphasis != "" {
		class += " " + n.Emphasis
	}
	buf.WriteString(`    <g class="`)
	buf.WriteString(class)
	buf.WriteString(`" id="node-`)
	xml.EscapeText(buf, []byte(n.ID))
	fmt.Fprintf(buf, `" opacity="%s">`+"\n", num(n.Opacity))
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="10"/>`+"\n",
		num(box.Origin.X), num(box.Origin.Y), num(box.Size.Width), num(box.Size.Height))
	if r.labels && n.Text != "" {
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle">`, num(n.X), num(n.Y))
		xml.EscapeText(buf, []byte(n.Text))
		buf.WriteString("</text>\n")
	}
	buf.WriteString("    </g>\n")
}

// num formats v with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
