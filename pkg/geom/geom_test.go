package geom

import (
	"math"
	"testing"

	"github.com/matzehuels/mindcanvas/pkg/errors"
)

func TestRectBasics(t *testing.T) {
	r := R(10, 20, 100, 50)

	if got, want := r.Max(), Pt(110, 70); got != want {
		t.Errorf("Max() = %v, want %v", got, want)
	}
	if got, want := r.Center(), Pt(60, 45); got != want {
		t.Errorf("Center() = %v, want %v", got, want)
	}
	if got := FromBox(r.Box()); got != r {
		t.Errorf("FromBox(Box()) = %v, want %v", got, r)
	}
	if r.IsZero() {
		t.Error("IsZero() = true for non-zero rect")
	}
	if !(Rect{}).IsZero() {
		t.Error("IsZero() = false for zero rect")
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		d    float64
		want Rect
	}{
		{"shrink", R(0, 0, 100, 100), 10, R(10, 10, 80, 80)},
		{"grow", R(0, 0, 100, 100), -10, R(-10, -10, 120, 120)},
		{"collapse width", R(0, 0, 10, 100), 20, R(5, 20, 0, 60)},
		{"collapse both", R(0, 0, 10, 10), 20, R(5, 5, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Inset(tt.d); got != tt.want {
				t.Errorf("Inset(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestRectContainsIntersects(t *testing.T) {
	r := R(0, 0, 10, 10)

	tests := []struct {
		name       string
		other      Rect
		intersects bool
	}{
		{"inside", R(2, 2, 2, 2), true},
		{"overlap", R(5, 5, 10, 10), true},
		{"touching edge", R(10, 0, 5, 5), true},
		{"disjoint", R(11, 11, 5, 5), false},
		{"left of", R(-20, 0, 5, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.intersects {
				t.Errorf("Intersects() = %v, want %v", got, tt.intersects)
			}
			if got := tt.other.Intersects(r); got != tt.intersects {
				t.Errorf("Intersects() not symmetric: %v", got)
			}
		})
	}

	if !r.Contains(Pt(10, 10)) {
		t.Error("Contains() should include edges")
	}
	if r.Contains(Pt(10.01, 5)) {
		t.Error("Contains() included point outside")
	}
}

func TestRectUnion(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(20, -5, 5, 5)

	if got, want := a.Union(b), R(0, -5, 25, 15); got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("zero.Union(b) = %v, want %v", got, b)
	}
}

func TestPointHelpers(t *testing.T) {
	if d := Distance(Pt(0, 0), Pt(3, 4)); d != 5 {
		t.Errorf("Distance() = %v, want 5", d)
	}
	if got, want := Lerp(Pt(0, 0), Pt(10, 20), 0.5), Pt(5, 10); got != want {
		t.Errorf("Lerp() = %v, want %v", got, want)
	}
	p := Polar(Pt(1, 1), 2, math.Pi/2)
	if math.Abs(p.X-1) > 1e-9 || math.Abs(p.Y-3) > 1e-9 {
		t.Errorf("Polar() = %v, want (1,3)", p)
	}
	if got, want := Around(Pt(5, 5), Sz(4, 2)), R(3, 4, 4, 2); got != want {
		t.Errorf("Around() = %v, want %v", got, want)
	}
}

func TestCheckPoint(t *testing.T) {
	if err := CheckPoint("p", Pt(1, 2)); err != nil {
		t.Errorf("CheckPoint() unexpected error: %v", err)
	}
	for _, p := range []Point{Pt(math.NaN(), 0), Pt(0, math.Inf(1))} {
		err := CheckPoint("p", p)
		if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
			t.Errorf("CheckPoint(%v) = %v, want INVALID_GEOMETRY", p, err)
		}
		if Finite(p) {
			t.Errorf("Finite(%v) = true", p)
		}
	}
}

func TestSizeValidate(t *testing.T) {
	if err := Sz(800, 600).Validate("canvas"); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if err := Sz(-1, 600).Validate("canvas"); err == nil {
		t.Error("Validate() accepted negative width")
	}
	if !Sz(0, 10).IsEmpty() {
		t.Error("IsEmpty() = false for zero width")
	}
	if got, want := Sz(800, 600).Center(), Pt(400, 300); got != want {
		t.Errorf("Center() = %v, want %v", got, want)
	}
}
