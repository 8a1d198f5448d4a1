// Package rtl mirrors geometry and directional gestures for right-to-left
// locales.
//
// Only geometry is touched. Text, colors and other content are never
// interpreted here. All functions are pure; LTR is always a no-op.
package rtl

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
)

// Direction is the reading direction of the active locale.
type Direction int

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// ParseDirection accepts "ltr" or "rtl" in any case. The empty string is LTR.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return LTR, nil
	case "rtl":
		return RTL, nil
	}
	return LTR, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (want ltr or rtl)", s)
}

// IsRTL reports whether d is right-to-left.
func (d Direction) IsRTL() bool { return d == RTL }

// =============================================================================
// Points and offsets
// =============================================================================

// MirrorPoint reflects p across the vertical center line of a container of
// the given width. Applying it twice returns p.
func MirrorPoint(p geom.Point, containerWidth float64) (geom.Point, error) {
	if err := geom.CheckPoint("point", p); err != nil {
		return p, err
	}
	if err := errors.ValidateFinite("container width", containerWidth); err != nil {
		return p, err
	}
	return geom.Pt(containerWidth-p.X, p.Y), nil
}

// Adjust mirrors p when d is RTL and returns it unchanged otherwise.
func Adjust(p geom.Point, containerWidth float64, d Direction) (geom.Point, error) {
	if d != RTL {
		return p, geom.CheckPoint("point", p)
	}
	return MirrorPoint(p, containerWidth)
}

// MirrorPositions mirrors every position for RTL. Positions that cannot be
// mirrored keep their value and their ids are returned in skipped.
func MirrorPositions(positions map[string]geom.Point, containerWidth float64, d Direction) (out map[string]geom.Point, skipped []string) {
	out = make(map[string]geom.Point, len(positions))
	for id, p := range positions {
		m, err := Adjust(p, containerWidth, d)
		if err != nil {
			skipped = append(skipped, id)
			out[id] = p
			continue
		}
		out[id] = m
	}
	return out, skipped
}

// MirrorMenuOffset keeps a context menu on the trailing side of a touch
// point: a positive LTR offset becomes a negative offset of equal magnitude.
func MirrorMenuOffset(offset float64, d Direction) float64 {
	if d == RTL {
		return -offset
	}
	return offset
}

// MirrorVector reflects the horizontal component of a gesture vector.
func MirrorVector(v geom.Point, d Direction) geom.Point {
	if d == RTL {
		return geom.Pt(-v.X, v.Y)
	}
	return v
}

// =============================================================================
// Swipes
// =============================================================================

// Swipe is a gesture direction.
type Swipe int

const (
	SwipeLeft Swipe = iota
	SwipeRight
	SwipeUp
	SwipeDown
)

var swipeNames = [...]string{"left", "right", "up", "down"}

func (s Swipe) String() string {
	if int(s) < len(swipeNames) {
		return swipeNames[s]
	}
	return fmt.Sprintf("swipe(%d)", int(s))
}

// MirrorSwipe swaps left and right. Up and down are unaffected.
func MirrorSwipe(s Swipe) Swipe {
	switch s {
	case SwipeLeft:
		return SwipeRight
	case SwipeRight:
		return SwipeLeft
	}
	return s
}

// AdjustSwipeDirection mirrors s for RTL and is a no-op for LTR.
func AdjustSwipeDirection(s Swipe, d Direction) Swipe {
	if d == RTL {
		return MirrorSwipe(s)
	}
	return s
}
