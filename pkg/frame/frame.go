// Package frame defines the serialized result of one pipeline run.
//
// A [Frame] is everything a drawing collaborator needs to paint a mind map:
// solved node positions, the content bounds, the fit transform, the routed
// connection paths, per-node focus emphasis and the visible set. It is the
// format written by "mindcanvas layout", read by "mindcanvas render" and
// stored in the frame cache.
//
// Frames are plain data. They hold no references to the engine types they
// were built from, so the JSON form is stable across engine changes.
package frame

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/tree"
	"github.com/matzehuels/mindcanvas/pkg/viewport"
)

// =============================================================================
// Frame
// =============================================================================

// Frame is one computed canvas state.
type Frame struct {
	Root      string    `json:"root"`
	Canvas    geom.Size `json:"canvas"`
	Screen    geom.Size `json:"screen"`
	Direction string    `json:"direction"`
	Style     string    `json:"style"`
	Focus     string    `json:"focus,omitempty"`

	Bounds    Rect      `json:"bounds"`
	Transform Transform `json:"transform"`
	Window    Rect      `json:"window"` // canvas-space region used for the visible set

	Nodes    []Node         `json:"nodes"`
	Edges    []Edge         `json:"edges,omitempty"`
	Warnings []tree.Warning `json:"warnings,omitempty"`

	// Culled counts nodes dropped by virtualization before layout.
	Culled int `json:"culled,omitempty"`
}

// Node is a laid-out node.
type Node struct {
	ID        string  `json:"id"`
	Text      string  `json:"text,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Depth     int     `json:"depth"`
	Parent    string  `json:"parent,omitempty"`
	Collapsed bool    `json:"collapsed,omitempty"`
	Pinned    bool    `json:"pinned,omitempty"`
	Visible   bool    `json:"visible"`
	Emphasis  string  `json:"emphasis,omitempty"`
	Opacity   float64 `json:"opacity"`
}

// Point returns the node position.
func (n Node) Point() geom.Point { return geom.Pt(n.X, n.Y) }

// Edge is a routed parent to child connection.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"` // reading-direction connection class
	Path      string `json:"path"`      // SVG path data
}

// Rect is a JSON-friendly rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectOf converts a geometry rectangle.
func RectOf(r geom.Rect) Rect {
	return Rect{X: r.Origin.X, Y: r.Origin.Y, Width: r.Size.Width, Height: r.Size.Height}
}

// Geom converts back to a geometry rectangle.
func (r Rect) Geom() geom.Rect { return geom.R(r.X, r.Y, r.Width, r.Height) }

// Transform is a JSON-friendly viewport transform.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// TransformOf converts a viewport transform.
func TransformOf(t viewport.Transform) Transform {
	return Transform{Scale: t.Scale, OffsetX: t.Offset.X, OffsetY: t.Offset.Y}
}

// Viewport converts back to a viewport transform.
func (t Transform) Viewport() viewport.Transform {
	return viewport.Transform{Scale: t.Scale, Offset: geom.Pt(t.OffsetX, t.OffsetY)}
}

// =============================================================================
// Accessors
// =============================================================================

// Len returns the number of laid-out nodes.
func (f *Frame) Len() int { return len(f.Nodes) }

// Node returns the node with the given id.
func (f *Frame) Node(id string) (Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Positions returns the node positions keyed by id.
func (f *Frame) Positions() map[string]geom.Point {
	out := make(map[string]geom.Point, len(f.Nodes))
	for _, n := range f.Nodes {
		out[n.ID] = n.Point()
	}
	return out
}

// VisibleIDs returns the ids of visible nodes in layout order.
func (f *Frame) VisibleIDs() []string {
	var out []string
	for _, n := range f.Nodes {
		if n.Visible {
			out = append(out, n.ID)
		}
	}
	return out
}

// VisibleEdges returns edges whose endpoints are both visible.
func (f *Frame) VisibleEdges() []Edge {
	vis := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		vis[n.ID] = n.Visible
	}
	var out []Edge
	for _, e := range f.Edges {
		if vis[e.From] && vis[e.To] {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a frame to indented JSON.
func Marshal(f *Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Unmarshal decodes a frame and checks that it is internally consistent:
// the root is laid out and every edge joins two laid-out nodes.
func Unmarshal(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode frame")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks frame consistency.
func (f *Frame) Validate() error {
	if len(f.Nodes) == 0 {
		return nil
	}
	ids := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if err := errors.ValidateFinite("position of "+n.ID, n.X, n.Y); err != nil {
			return err
		}
		ids[n.ID] = true
	}
	if !ids[f.Root] {
		return errors.RootNotFound(f.Root)
	}
	for _, e := range f.Edges {
		if !ids[e.From] || !ids[e.To] {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s -> %s references a node outside the frame", e.From, e.To)
		}
	}
	return nil
}

// WriteFile writes a frame to a JSON file.
func WriteFile(f *Frame, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a frame from a JSON file.
func ReadFile(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "frame %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
