package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []tree.Node
		padding float64
		want    geom.Rect
	}{
		{
			name: "empty",
			want: geom.Rect{},
		},
		{
			name:    "single node",
			nodes:   []tree.Node{{Position: geom.Pt(100, 200)}},
			padding: 100,
			want:    geom.R(0, 100, 200, 200),
		},
		{
			name: "several nodes",
			nodes: []tree.Node{
				{Position: geom.Pt(10, 50)},
				{Position: geom.Pt(-30, 20)},
				{Position: geom.Pt(70, -10)},
			},
			padding: 5,
			want:    geom.R(-35, -15, 110, 70),
		},
		{
			name: "non-finite skipped",
			nodes: []tree.Node{
				{Position: geom.Pt(0, 0)},
				{Position: geom.Pt(math.NaN(), 5)},
				{Position: geom.Pt(10, 10)},
			},
			want: geom.R(0, 0, 10, 10),
		},
		{
			name:  "all non-finite",
			nodes: []tree.Node{{Position: geom.Pt(math.Inf(1), 0)}},
			want:  geom.Rect{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bounds(tt.nodes, tt.padding)
			if err != nil {
				t.Fatalf("Bounds() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBounds_BadPadding(t *testing.T) {
	for _, pad := range []float64{-1, math.NaN()} {
		_, err := PointBounds([]geom.Point{geom.Pt(1, 1)}, pad)
		if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
			t.Errorf("PointBounds(pad=%v) error = %v, want INVALID_GEOMETRY", pad, err)
		}
	}
}

func TestFitToScreen_NeverExceedsMaxScale(t *testing.T) {
	screen := geom.Sz(800, 600)
	contents := []geom.Rect{
		geom.R(0, 0, 0, 0),
		geom.R(5, 5, 0, 0),
		geom.R(0, 0, 1e-9, 1e-9),
		geom.R(0, 0, 1, 1),
		geom.R(0, 0, 100, 20),
		geom.R(-1e6, -1e6, 2e6, 1e3),
		geom.R(0, 0, 1e12, 1e12),
	}
	for _, maxScale := range []float64{0.1, 1, 2, 50} {
		for _, c := range contents {
			tr, err := FitToScreen(c, screen, maxScale)
			if err != nil {
				t.Fatalf("FitToScreen(%v) error: %v", c, err)
			}
			if tr.Scale > maxScale || tr.Scale <= 0 {
				t.Errorf("FitToScreen(%v, max %v) scale = %v", c, maxScale, tr.Scale)
			}
		}
	}
}

func TestFitToScreen_PicksSmallerAxis(t *testing.T) {
	// Available area 720x520. Width wants 720/360=2, height wants 520/130=4.
	tr, err := FitToScreenInset(geom.R(0, 0, 360, 130), geom.Sz(800, 600), 10, 40)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Scale != 2 {
		t.Errorf("Scale = %v, want 2", tr.Scale)
	}
}

func TestFitToScreen_CentersContent(t *testing.T) {
	content := geom.R(100, 200, 300, 50)
	screen := geom.Sz(800, 600)
	tr, err := FitToScreen(content, screen, DefaultMaxScale)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Apply(content.Center()); !near(got, screen.Center()) {
		t.Errorf("content center maps to %v, want %v", got, screen.Center())
	}
	fitted := tr.ApplyRect(content)
	if fitted.Size.Width > screen.Width-2*DefaultInset+1e-9 {
		t.Errorf("fitted width %v overflows", fitted.Size.Width)
	}
}

func TestFitToScreen_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  geom.Rect
		screen   geom.Size
		maxScale float64
	}{
		{"zero max scale", geom.R(0, 0, 10, 10), geom.Sz(800, 600), 0},
		{"nan max scale", geom.R(0, 0, 10, 10), geom.Sz(800, 600), math.NaN()},
		{"empty screen", geom.R(0, 0, 10, 10), geom.Sz(0, 600), 1},
		{"nan content", geom.R(math.NaN(), 0, 10, 10), geom.Sz(800, 600), 1},
		{"infinite content", geom.R(0, 0, math.Inf(1), 10), geom.Sz(800, 600), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitToScreen(tt.content, tt.screen, tt.maxScale)
			if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("FitToScreen() error = %v, want INVALID_GEOMETRY", err)
			}
		})
	}
}

func TestFitToScreen_TinyScreenIgnoresInset(t *testing.T) {
	tr, err := FitToScreen(geom.R(0, 0, 100, 100), geom.Sz(50, 50), 5)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", tr.Scale)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Scale: 1.75, Offset: geom.Pt(-30, 12)}
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(123.4, -56.7), geom.Pt(1e4, 1e4)} {
		if got := tr.Invert(tr.Apply(p)); !near(got, p) {
			t.Errorf("Invert(Apply(%v)) = %v", p, got)
		}
	}
	if got := Identity().Apply(geom.Pt(3, 4)); got != geom.Pt(3, 4) {
		t.Errorf("Identity().Apply() = %v", got)
	}
}

func TestTransformVisible(t *testing.T) {
	tr := Transform{Scale: 2, Offset: geom.Pt(100, 50)}
	got := tr.Visible(geom.Sz(800, 600))
	want := geom.R(-50, -25, 400, 300)
	if got != want {
		t.Errorf("Visible() = %v, want %v", got, want)
	}
}

func TestZoomAbout(t *testing.T) {
	tr := Transform{Scale: 1, Offset: geom.Pt(10, 10)}
	anchor := geom.Pt(400, 300)
	before := tr.Invert(anchor)

	z, err := tr.ZoomAbout(anchor, 2, DefaultMinScale, DefaultMaxScale)
	if err != nil {
		t.Fatal(err)
	}
	if z.Scale != 2 {
		t.Errorf("Scale = %v, want 2", z.Scale)
	}
	if after := z.Invert(anchor); !near(after, before) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}

	clamped, _ := tr.ZoomAbout(anchor, 100, DefaultMinScale, DefaultMaxScale)
	if clamped.Scale != DefaultMaxScale {
		t.Errorf("Scale = %v, want clamp to %v", clamped.Scale, DefaultMaxScale)
	}

	if _, err := tr.ZoomAbout(anchor, 0, DefaultMinScale, DefaultMaxScale); err == nil {
		t.Error("ZoomAbout(factor=0) returned no error")
	}

	panned := tr.Pan(geom.Pt(5, -5))
	if panned.Offset != geom.Pt(15, 5) {
		t.Errorf("Pan() offset = %v", panned.Offset)
	}
}
