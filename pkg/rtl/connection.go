package rtl

import (
	"fmt"
	"math"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
)

// Connection classifies the edge from a parent to a child.
//
// Horizontal names are in reading-direction terms: Right is toward the end
// of a line of text, so an RTL child drawn to the physical left of its
// parent is still Right.
type Connection int

const (
	ConnRight Connection = iota
	ConnLeft
	ConnUp
	ConnDown
	ConnUpRight
	ConnUpLeft
	ConnDownRight
	ConnDownLeft
)

var connNames = [...]string{
	"right", "left", "up", "down",
	"up-right", "up-left", "down-right", "down-left",
}

func (c Connection) String() string {
	if int(c) < len(connNames) {
		return connNames[c]
	}
	return fmt.Sprintf("connection(%d)", int(c))
}

// IsHorizontal reports whether c is a pure left or right connection.
func (c Connection) IsHorizontal() bool { return c == ConnRight || c == ConnLeft }

// ConnectionDirection classifies the displacement from parent to child in
// screen coordinates (y grows downward).
//
// When the horizontal component dominates (ties included) the result is
// Right or Left by its sign. Otherwise the result is Up or Down, combined
// with Right or Left when there is any horizontal component. For RTL the
// horizontal component is reflected before classifying, so every case
// mirrors consistently and the same inputs always give the same answer.
//
// Coincident or non-finite points are rejected with INVALID_GEOMETRY.
func ConnectionDirection(parent, child geom.Point, d Direction) (Connection, error) {
	if err := geom.CheckPoint("parent", parent); err != nil {
		return 0, err
	}
	if err := geom.CheckPoint("child", child); err != nil {
		return 0, err
	}
	dx, dy := child.X-parent.X, child.Y-parent.Y
	if dx == 0 && dy == 0 {
		return 0, errors.InvalidGeometry("parent and child coincide at %v", parent)
	}
	if d == RTL {
		dx = -dx
	}

	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return ConnRight, nil
		}
		return ConnLeft, nil
	}

	up := dy < 0
	switch {
	case dx > 0 && up:
		return ConnUpRight, nil
	case dx < 0 && up:
		return ConnUpLeft, nil
	case up:
		return ConnUp, nil
	case dx > 0:
		return ConnDownRight, nil
	case dx < 0:
		return ConnDownLeft, nil
	}
	return ConnDown, nil
}
