package pipeline

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/layout"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// compass is a root with four children. On an 800x600 canvas the root sits
// at (400, 300) and the children land north, east, south and west of it.
func compass() tree.Tree {
	return tree.Tree{
		Root: "r",
		Nodes: []tree.Node{
			{ID: "r", Text: "root", ChildIDs: []string{"n", "e", "s", "w"}},
			{ID: "n", Text: "north", ParentID: "r"},
			{ID: "e", Text: "east", ParentID: "r"},
			{ID: "s", Text: "south", ParentID: "r"},
			{ID: "w", Text: "west", ParentID: "r"},
		},
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("canvas = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.ScreenWidth != opts.Width || opts.ScreenHeight != opts.Height {
		t.Errorf("screen = %vx%v, want canvas size", opts.ScreenWidth, opts.ScreenHeight)
	}
	if opts.Layout != layout.DefaultOptions() {
		t.Errorf("Layout = %+v, want defaults", opts.Layout)
	}
	if opts.Style != route.Curved {
		t.Errorf("Style = %q, want %q", opts.Style, route.Curved)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger = nil after SetDefaults")
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() after SetDefaults = %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"negative canvas", func(o *Options) { o.Width = -1 }, errors.ErrCodeInvalidGeometry},
		{"nan screen", func(o *Options) { o.ScreenHeight = math.NaN() }, errors.ErrCodeInvalidGeometry},
		{"negative inset", func(o *Options) { o.Inset = -2 }, errors.ErrCodeInvalidGeometry},
		{"bad style", func(o *Options) { o.Style = "zigzag" }, errors.ErrCodeInvalidStyle},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"negative window", func(o *Options) { o.Window = &geom.Rect{Size: geom.Sz(-1, 10)} }, errors.ErrCodeInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			opts.SetDefaults()
			tt.modify(&opts)
			err := opts.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.CanvasWidth = 1024
	cfg.Locale.Direction = "rtl"
	cfg.Connection.Style = "straight"

	opts := FromConfig(cfg)
	if opts.Width != 1024 {
		t.Errorf("Width = %v, want 1024", opts.Width)
	}
	if !opts.Direction.IsRTL() {
		t.Error("Direction is not RTL")
	}
	if opts.Style != route.Straight {
		t.Errorf("Style = %q, want straight", opts.Style)
	}
	if !opts.Labels {
		t.Error("Labels should default on")
	}
}

func TestFrameKeyOpts_DistinguishesInputs(t *testing.T) {
	var a, b Options
	a.SetDefaults()
	b.SetDefaults()
	b.Direction = rtl.RTL

	if a.FrameKeyOpts().Direction == b.FrameKeyOpts().Direction {
		t.Error("direction not part of frame key")
	}

	b = a
	b.Window = &geom.Rect{Size: geom.Sz(10, 10)}
	if a.FrameKeyOpts().Window != nil || len(b.FrameKeyOpts().Window) != 4 {
		t.Errorf("window key = %v / %v", a.FrameKeyOpts().Window, b.FrameKeyOpts().Window)
	}
}

// =============================================================================
// ComputeFrame
// =============================================================================

func TestComputeFrame_Compass(t *testing.T) {
	f, st, err := ComputeFrame(context.Background(), compass(), Options{})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}

	if st.LaidOut != 5 || st.Edges != 4 || st.Visible != 5 {
		t.Errorf("stats = %+v, want 5 laid out, 4 edges, 5 visible", st)
	}

	want := map[string]geom.Point{
		"r": geom.Pt(400, 300),
		"n": geom.Pt(400, 140),
		"e": geom.Pt(560, 300),
		"s": geom.Pt(400, 460),
		"w": geom.Pt(240, 300),
	}
	for id, p := range want {
		n, ok := f.Node(id)
		if !ok {
			t.Fatalf("node %q missing", id)
		}
		if !near(n.X, p.X) || !near(n.Y, p.Y) {
			t.Errorf("node %q at (%v, %v), want %v", id, n.X, n.Y, p)
		}
		if n.Opacity != 1 || n.Emphasis != "" {
			t.Errorf("node %q emphasis = %q opacity %v without focus", id, n.Emphasis, n.Opacity)
		}
	}

	dirs := map[string]string{}
	for _, e := range f.Edges {
		if e.From != "r" {
			t.Errorf("edge %s -> %s, want parent r", e.From, e.To)
		}
		if !strings.HasPrefix(e.Path, "M") {
			t.Errorf("edge path %q is not SVG path data", e.Path)
		}
		dirs[e.To] = e.Direction
	}
	wantDirs := map[string]string{"n": "up", "e": "right", "s": "down", "w": "left"}
	for id, d := range wantDirs {
		if dirs[id] != d {
			t.Errorf("edge r -> %s direction = %q, want %q", id, dirs[id], d)
		}
	}

	if f.Transform.Scale <= 0 {
		t.Errorf("transform scale = %v", f.Transform.Scale)
	}
	// Content fits on screen.
	xf := f.Transform.Viewport()
	for _, n := range f.Nodes {
		p := xf.Apply(n.Point())
		if p.X < -1e-6 || p.Y < -1e-6 || p.X > 800+1e-6 || p.Y > 600+1e-6 {
			t.Errorf("node %q maps to %v, outside the screen", n.ID, p)
		}
	}
}

func TestComputeFrame_RTL(t *testing.T) {
	opts := Options{Direction: rtl.RTL}
	f, _, err := ComputeFrame(context.Background(), compass(), opts)
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	if f.Direction != "rtl" {
		t.Errorf("Direction = %q, want rtl", f.Direction)
	}

	e, _ := f.Node("e")
	if !near(e.X, 240) {
		t.Errorf("east child x = %v, want mirrored 240", e.X)
	}
	for _, edge := range f.Edges {
		// Reading-direction classification survives the mirror.
		if edge.To == "e" && edge.Direction != "right" {
			t.Errorf("edge r -> e direction = %q, want right", edge.Direction)
		}
		if edge.To == "w" && edge.Direction != "left" {
			t.Errorf("edge r -> w direction = %q, want left", edge.Direction)
		}
	}
}

func TestComputeFrame_Focus(t *testing.T) {
	opts := Options{Focus: "e"}
	opts.SetDefaults()
	f, _, err := ComputeFrame(context.Background(), compass(), opts)
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}

	tests := []struct {
		id       string
		emphasis string
		opacity  float64
	}{
		{"e", "focused", 1},
		{"r", "on_path", opts.FocusConfig.PathOpacity},
		{"n", "dimmed", opts.FocusConfig.DimOpacity},
		{"w", "dimmed", opts.FocusConfig.DimOpacity},
	}
	for _, tt := range tests {
		n, _ := f.Node(tt.id)
		if n.Emphasis != tt.emphasis || n.Opacity != tt.opacity {
			t.Errorf("node %q = (%q, %v), want (%q, %v)", tt.id, n.Emphasis, n.Opacity, tt.emphasis, tt.opacity)
		}
	}

	_, _, err = ComputeFrame(context.Background(), compass(), Options{Focus: "ghost"})
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("unknown focus error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestComputeFrame_PreCull(t *testing.T) {
	in := tree.Tree{
		Root: "r",
		Nodes: []tree.Node{
			{ID: "r", Position: geom.Pt(100, 100), ChildIDs: []string{"a", "b"}},
			{ID: "a", Position: geom.Pt(150, 100), ParentID: "r"},
			{ID: "b", Position: geom.Pt(5000, 5000), ParentID: "r", ChildIDs: []string{"c", "d"}},
			{ID: "c", Position: geom.Pt(5000, 5100), ParentID: "b"},
			{ID: "d", Position: geom.Pt(200, 200), ParentID: "b"},
		},
	}

	f, st, err := ComputeFrame(context.Background(), in, Options{Threshold: 2})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	if st.Culled != 1 || f.Culled != 1 {
		t.Errorf("culled = %d / %d, want 1", st.Culled, f.Culled)
	}
	if _, ok := f.Node("c"); ok {
		t.Error("far node c survived culling")
	}
	// b is off-window but kept as the ancestor of d.
	for _, id := range []string{"r", "a", "b", "d"} {
		if _, ok := f.Node(id); !ok {
			t.Errorf("node %q missing after culling", id)
		}
	}
	if len(f.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", f.Warnings)
	}

	// Below the threshold nothing is culled.
	f, _, err = ComputeFrame(context.Background(), in, Options{Threshold: 10})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	if f.Len() != 5 {
		t.Errorf("Len() = %d, want 5", f.Len())
	}
}

func TestComputeFrame_Structural(t *testing.T) {
	tests := []struct {
		name string
		in   tree.Tree
		code errors.Code
	}{
		{
			name: "missing root",
			in:   tree.Tree{Root: "ghost", Nodes: compass().Nodes},
			code: errors.ErrCodeRootNotFound,
		},
		{
			name: "cycle",
			in: tree.Tree{Root: "a", Nodes: []tree.Node{
				{ID: "a", ParentID: "a", ChildIDs: []string{"a"}},
			}},
			code: errors.ErrCodeCyclicStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ComputeFrame(context.Background(), tt.in, Options{})
			if !errors.Is(err, tt.code) {
				t.Errorf("ComputeFrame() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestComputeFrame_Warnings(t *testing.T) {
	in := compass()
	in.Nodes = append(in.Nodes, tree.Node{ID: "o", ParentID: "nobody"})

	f, st, err := ComputeFrame(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	if st.Warnings != 1 || len(f.Warnings) != 1 || f.Warnings[0].Kind != tree.WarnOrphan {
		t.Errorf("warnings = %v, want one orphan", f.Warnings)
	}
	if _, ok := f.Node("o"); ok {
		t.Error("orphan was laid out")
	}
}

func TestComputeFrame_Empty(t *testing.T) {
	f, _, err := ComputeFrame(context.Background(), tree.Tree{}, Options{})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	if f.Len() != 0 || len(f.Edges) != 0 {
		t.Errorf("empty input gave %d nodes, %d edges", f.Len(), len(f.Edges))
	}
	if f.Transform.Scale != 1 || f.Transform.OffsetX != 0 || f.Transform.OffsetY != 0 {
		t.Errorf("Transform = %+v, want identity", f.Transform)
	}
}

func TestComputeFrame_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ComputeFrame(ctx, compass(), Options{})
	if err != context.Canceled {
		t.Errorf("ComputeFrame() error = %v, want context.Canceled", err)
	}
}

func TestComputeFrame_Deterministic(t *testing.T) {
	in := tree.Generate(tree.GenerateOptions{Nodes: 60, Seed: 7})
	a, _, err := ComputeFrame(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	b, _, err := ComputeFrame(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Fatalf("node %d differs: %+v vs %+v", i, a.Nodes[i], b.Nodes[i])
		}
	}
}

// =============================================================================
// Load and Render
// =============================================================================

func TestLoad(t *testing.T) {
	var buf bytes.Buffer
	if err := tree.Write(compass(), &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := Load(Source{Path: "-", Stdin: &buf})
	if err != nil {
		t.Fatalf("Load(stdin) error: %v", err)
	}
	if got.Root != "r" || got.Len() != 5 {
		t.Errorf("Load(stdin) = root %q, %d nodes", got.Root, got.Len())
	}

	gen, err := Load(Source{Generate: &tree.GenerateOptions{Nodes: 12, Seed: 1}})
	if err != nil || gen.Len() != 12 {
		t.Errorf("Load(generate) = %d nodes, err %v", gen.Len(), err)
	}

	if _, err := Load(Source{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(empty) error = %v, want INVALID_INPUT", err)
	}
	if _, err := Load(Source{Path: t.TempDir() + "/missing.json"}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRender(t *testing.T) {
	opts := Options{Formats: []string{FormatSVG, FormatDOT, FormatJSON}, Labels: true}
	opts.SetDefaults()
	f, _, err := ComputeFrame(context.Background(), compass(), opts)
	if err != nil {
		t.Fatalf("ComputeFrame() error: %v", err)
	}

	artifacts, err := Render(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("Render() returned %d artifacts, want 3", len(artifacts))
	}
	if !bytes.HasPrefix(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact does not start with <svg")
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte(">north<")) {
		t.Error("svg artifact missing label")
	}
	if !bytes.HasPrefix(artifacts[FormatDOT], []byte("graph G {")) {
		t.Error("dot artifact is not a DOT graph")
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte(`"root": "r"`)) {
		t.Error("json artifact missing root")
	}

	if _, err := Render(context.Background(), f, Options{Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}
