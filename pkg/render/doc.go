// Package render draws computed frames.
//
// The layout engine never paints anything; it hands a [frame.Frame] to a
// drawing collaborator. This package provides two:
//
//   - [SVG] writes a standalone SVG document. Node positions, routed
//     connection paths, focus opacities and the fit transform are taken from
//     the frame as-is.
//   - [ToDOT] exports the frame as Graphviz DOT with every node pinned to
//     its solved position, and [RenderDOT] renders that through neato to SVG
//     or PNG.
//
// Usage:
//
//	svg := render.SVG(f, render.WithLabels(true))
//	dot := render.ToDOT(f)
//	png, err := render.RenderDOT(ctx, dot, render.FormatPNG)
//
// Frames are already mirrored for right-to-left locales, so renderers only
// set the text direction; they never flip geometry themselves.
package render
