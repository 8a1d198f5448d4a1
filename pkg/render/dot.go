package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/frame"
)

// pointsPerInch converts canvas units to Graphviz points.
const pointsPerInch = 72.0

// ToDOT converts a frame to Graphviz DOT. Every node is pinned ("pos" with
// "!") to its solved position so neato draws the engine's layout instead of
// computing its own. Graphviz puts y upward, so y is flipped.
func ToDOT(f *frame.Frame) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		label := n.Text
		if label == "" {
			label = n.ID
		}
		attrs := fmt.Sprintf("label=%q, pos=\"%s,%s!\"", label, num(n.X/pointsPerInch), num(-n.Y/pointsPerInch))
		if n.Emphasis == "dimmed" {
			attrs += ", fontcolor=gray60, color=gray70"
		}
		if n.Emphasis == "focused" {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT renders DOT source with neato. format is FormatSVG or FormatPNG.
func RenderDOT(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
