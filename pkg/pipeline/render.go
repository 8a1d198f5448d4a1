package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/observability"
	"github.com/matzehuels/mindcanvas/pkg/render"
)

// Render generates output artifacts for f in the requested formats.
func Render(ctx context.Context, f *frame.Frame, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		data, err := renderFormat(ctx, f, format, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, f *frame.Frame, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.SVG(f, svgOptions(opts)...), nil
	case FormatDOT:
		return []byte(render.ToDOT(f)), nil
	case FormatPNG:
		return render.RenderDOT(ctx, render.ToDOT(f), render.FormatPNG)
	case FormatJSON:
		return frame.Marshal(f)
	}
	return nil, ValidateFormat(format)
}

func svgOptions(opts Options) []render.Option {
	out := []render.Option{render.WithLabels(opts.Labels)}
	if opts.OnlyVisible {
		out = append(out, render.WithOnlyVisible())
	}
	return out
}
