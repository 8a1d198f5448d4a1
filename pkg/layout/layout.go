// Package layout assigns canvas positions to the nodes of a mind map.
//
// The solver is radial. The root sits at the center of the canvas and its
// children are spread evenly around it at BranchSpacing. Every deeper node
// fans its children out on an arc that faces away from the root, so each
// level lands strictly farther from the root than the one before it and
// siblings stay equidistant from their parent.
//
// Each node owns an angular wedge handed down by its parent. A node's
// children share that wedge equally, widened to at least MinSiblingAngle per
// child and capped at MaxFan, which keeps sibling subtrees apart without any
// collision pass.
//
// Solve is a pure function: the same snapshot, root, canvas and options
// always produce the same positions, and nothing is cached between calls.
package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Default spacing values.
const (
	DefaultBranchSpacing   = 160.0
	DefaultNodeSpacing     = 40.0
	DefaultMinSiblingAngle = math.Pi / 12
	DefaultMaxFan          = 2 * math.Pi / 3
)

// Options configures the radial solver.
type Options struct {
	// BranchSpacing is the distance between a parent and its children.
	BranchSpacing float64
	// NodeSpacing is added to BranchSpacing once per depth level beyond the first.
	NodeSpacing float64
	// MinSiblingAngle is the smallest angle (radians) between adjacent siblings
	// below the first level.
	MinSiblingAngle float64
	// MaxFan caps the arc (radians) a node's children may occupy. Must not exceed π.
	MaxFan float64
}

// DefaultOptions returns the standard spacing.
func DefaultOptions() Options {
	return Options{
		BranchSpacing:   DefaultBranchSpacing,
		NodeSpacing:     DefaultNodeSpacing,
		MinSiblingAngle: DefaultMinSiblingAngle,
		MaxFan:          DefaultMaxFan,
	}
}

// Validate rejects non-finite or out-of-range spacing.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("branch spacing", o.BranchSpacing); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("node spacing", o.NodeSpacing); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("min sibling angle", o.MinSiblingAngle); err != nil {
		return err
	}
	if err := errors.ValidatePositive("max fan", o.MaxFan); err != nil {
		return err
	}
	if o.MaxFan > math.Pi {
		return errors.InvalidGeometry("max fan %v exceeds π", o.MaxFan)
	}
	return nil
}

// Result maps node ids to their assigned positions.
type Result struct {
	Positions map[string]geom.Point
	Order     []string // Laid-out ids in pre-order
	Depths    map[string]int
	Warnings  []tree.Warning
}

// Len returns the number of positioned nodes.
func (r Result) Len() int { return len(r.Order) }

// Position returns the position assigned to id.
func (r Result) Position(id string) (geom.Point, bool) {
	p, ok := r.Positions[id]
	return p, ok
}

// Points returns the positions in pre-order.
func (r Result) Points() []geom.Point {
	out := make([]geom.Point, len(r.Order))
	for i, id := range r.Order {
		out[i] = r.Positions[id]
	}
	return out
}

// Solve lays out every node reachable from rootID.
//
// An empty node set yields an empty result. Structural problems reported by
// [tree.Build] (missing root, cycle) are returned unchanged; unreachable
// nodes and collapsed subtrees are simply absent from the result.
func Solve(nodes []tree.Node, rootID string, canvas geom.Size, opts Options) (Result, error) {
	if len(nodes) == 0 {
		return Result{Positions: map[string]geom.Point{}, Depths: map[string]int{}}, nil
	}
	if err := canvas.Validate("canvas"); err != nil {
		return Result{}, err
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	idx, err := tree.Build(nodes, rootID)
	if err != nil {
		return Result{}, err
	}
	return solve(idx, canvas, opts), nil
}

// SolveIndex lays out an already built index.
func SolveIndex(idx *tree.Index, canvas geom.Size, opts Options) (Result, error) {
	if err := canvas.Validate("canvas"); err != nil {
		return Result{}, err
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	return solve(idx, canvas, opts), nil
}

// slot is the placement state a node hands down to its children.
type slot struct {
	pos   geom.Point
	angle float64 // direction from the root, radians
	wedge float64 // angular share owned by this node's subtree
}

func solve(idx *tree.Index, canvas geom.Size, opts Options) Result {
	res := Result{
		Positions: make(map[string]geom.Point, idx.Len()),
		Depths:    make(map[string]int, idx.Len()),
		Warnings:  idx.Warnings(),
	}

	rootID := idx.Root()
	center := canvas.Center()
	slots := make(map[string]slot, idx.Len())
	slots[rootID] = slot{pos: res.pin(idx, rootID, center), angle: -math.Pi / 2, wedge: 2 * math.Pi}

	idx.Visible(func(id string, depth int) {
		s := slots[id]
		res.Positions[id] = s.pos
		res.Depths[id] = depth
		res.Order = append(res.Order, id)

		n, _ := idx.Node(id)
		kids := idx.Children(id)
		if n.Collapsed || len(kids) == 0 {
			return
		}

		dist := opts.BranchSpacing + float64(depth)*opts.NodeSpacing
		k := float64(len(kids))

		if depth == 0 {
			step := 2 * math.Pi / k
			for i, cid := range kids {
				a := s.angle + float64(i)*step
				slots[cid] = slot{
					pos:   res.pin(idx, cid, geom.Polar(s.pos, dist, a)),
					angle: a,
					wedge: step,
				}
			}
			return
		}

		heading := s.angle
		if off := r2.Sub(s.pos, slots[rootID].pos); r2.Norm(off) > 1e-9 {
			heading = math.Atan2(off.Y, off.X)
		}
		spread := math.Min(opts.MaxFan, math.Max(s.wedge, k*opts.MinSiblingAngle))
		step := spread / k
		for i, cid := range kids {
			a := heading - spread/2 + (float64(i)+0.5)*step
			slots[cid] = slot{
				pos:   res.pin(idx, cid, geom.Polar(s.pos, dist, a)),
				angle: a,
				wedge: step,
			}
		}
	})

	return res
}

// pin returns the node's own position when it is pinned and finite,
// otherwise the computed one.
func (r *Result) pin(idx *tree.Index, id string, computed geom.Point) geom.Point {
	n, _ := idx.Node(id)
	if !n.Pinned {
		return computed
	}
	if !geom.Finite(n.Position) {
		r.Warnings = append(r.Warnings, tree.Warning{
			Kind:   tree.WarnInvalidPosition,
			NodeID: id,
			Detail: "pinned position is not finite",
		})
		return computed
	}
	return n.Position
}
