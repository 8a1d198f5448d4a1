package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
)

// canvasFlags are the frame options shared by layout, render and explore.
// Settings from the config file apply unless a flag is set explicitly.
type canvasFlags struct {
	width, height             float64
	screenWidth, screenHeight float64
	root                      string
	focus                     string
	style                     string
	direction                 string
	window                    string
	threshold                 int
	refresh                   bool
	noCache                   bool
}

func (f *canvasFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height")
	fs.Float64Var(&f.screenWidth, "screen-width", 0, "screen width (default: canvas width)")
	fs.Float64Var(&f.screenHeight, "screen-height", 0, "screen height (default: canvas height)")
	fs.StringVar(&f.root, "root", "", "root node id (default: the snapshot's root)")
	fs.StringVar(&f.focus, "focus", "", "focus this node and dim unrelated ones")
	fs.StringVar(&f.style, "style", "", "connection style: straight, curved (default), organic")
	fs.StringVar(&f.direction, "direction", "", "reading direction: ltr (default), rtl")
	fs.StringVar(&f.window, "window", "", "canvas-space culling window as x,y,width,height")
	fs.IntVar(&f.threshold, "threshold", 0, "cull before layout above this node count (default from config)")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges the settings and explicitly set flags.
func (f *canvasFlags) options(cmd *cobra.Command, cfg config.Config) (pipeline.Options, error) {
	opts := pipeline.FromConfig(cfg)
	changed := cmd.Flags().Changed

	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	opts.ScreenWidth = f.screenWidth
	opts.ScreenHeight = f.screenHeight
	opts.Root = f.root
	opts.Focus = f.focus
	opts.Refresh = f.refresh
	if changed("threshold") {
		opts.Threshold = f.threshold
	}

	if f.style != "" {
		st, err := route.ParseStyle(f.style)
		if err != nil {
			return opts, err
		}
		opts.Style = st
	}
	if f.direction != "" {
		d, err := rtl.ParseDirection(f.direction)
		if err != nil {
			return opts, err
		}
		opts.Direction = d
	}
	if f.window != "" {
		w, err := parseWindow(f.window)
		if err != nil {
			return opts, err
		}
		opts.Window = &w
	}
	return opts, nil
}

// parseWindow parses "x,y,width,height".
func parseWindow(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidInput, "window %q: want x,y,width,height", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "window %q", s)
		}
		v[i] = f
	}
	r := geom.R(v[0], v[1], v[2], v[3])
	if err := r.Size.Validate("window"); err != nil {
		return geom.Rect{}, err
	}
	return r, nil
}
