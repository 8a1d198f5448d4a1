package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/mindcanvas/pkg/focus"
	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/layout"
	"github.com/matzehuels/mindcanvas/pkg/observability"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
	"github.com/matzehuels/mindcanvas/pkg/tree"
	"github.com/matzehuels/mindcanvas/pkg/viewport"
	"github.com/matzehuels/mindcanvas/pkg/virtual"
)

// =============================================================================
// Frame Computation
// =============================================================================

// ComputeFrame runs index → cull → layout → mirror → fit → visible → route →
// focus over t. Stages are debug-logged to opts.Logger; caching lives in
// [Runner].
//
// An empty snapshot yields an empty frame with the identity transform.
// Structural errors (missing root, cycle) abort the computation and are
// returned unchanged so callers can match them with errors.Is.
func ComputeFrame(ctx context.Context, t tree.Tree, opts Options) (*frame.Frame, Stats, error) {
	opts.SetDefaults()
	var st Stats
	if err := opts.Validate(); err != nil {
		return nil, st, err
	}
	hooks := observability.Pipeline()

	rootID := opts.Root
	if rootID == "" {
		rootID = t.Root
	}
	canvas, screen := opts.Canvas(), opts.Screen()
	f := &frame.Frame{
		Root:      rootID,
		Canvas:    canvas,
		Screen:    screen,
		Direction: opts.Direction.String(),
		Style:     string(opts.Style),
		Focus:     opts.Focus,
		Transform: frame.TransformOf(viewport.Identity()),
		Window:    frame.RectOf(geom.Rect{Size: screen}),
		Nodes:     []frame.Node{},
	}
	st.InputNodes = t.Len()
	if t.Len() == 0 {
		return f, st, nil
	}

	// Stage 1: Index
	start := time.Now()
	full, err := tree.Build(t.Nodes, rootID)
	st.IndexTime = time.Since(start)
	if err != nil {
		hooks.OnIndexComplete(ctx, t.Len(), 0, err)
		return nil, st, err
	}
	warnings := full.Warnings()
	hooks.OnIndexComplete(ctx, t.Len(), len(warnings), nil)
	opts.Logger.Debug("indexed snapshot", "nodes", full.Len(), "warnings", len(warnings), "duration", st.IndexTime)

	// Stage 2: Pre-layout culling for large snapshots
	idx := full
	if opts.Threshold > 0 && full.Len() > opts.Threshold {
		start = time.Now()
		idx, err = preCull(t, full, opts)
		if err != nil {
			return nil, st, fmt.Errorf("cull: %w", err)
		}
		st.Culled = full.Len() - idx.Len()
		st.CullTime = time.Since(start)
		hooks.OnCullComplete(ctx, "pre", full.Len(), idx.Len(), st.CullTime)
		opts.Logger.Debug("culled before layout", "kept", idx.Len(), "culled", st.Culled, "threshold", opts.Threshold)
	}
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}

	// Stage 3: Layout
	hooks.OnLayoutStart(ctx, idx.Len())
	start = time.Now()
	res, err := layout.SolveIndex(idx, canvas, opts.Layout)
	st.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, res.Len(), st.LayoutTime, err)
	if err != nil {
		return nil, st, fmt.Errorf("layout: %w", err)
	}
	opts.Logger.Debug("solved layout", "placed", res.Len(), "duration", st.LayoutTime)
	for _, w := range res.Warnings {
		if w.Kind == tree.WarnInvalidPosition {
			warnings = append(warnings, w)
		}
	}

	// Stage 4: Mirror for RTL
	positions := res.Positions
	if opts.Direction.IsRTL() {
		positions, _ = rtl.MirrorPositions(positions, canvas.Width, opts.Direction)
	}

	// Stage 5: Bounds and fit
	points := make([]geom.Point, len(res.Order))
	for i, id := range res.Order {
		points[i] = positions[id]
	}
	bounds, err := viewport.PointBounds(points, opts.Padding)
	if err != nil {
		return nil, st, fmt.Errorf("bounds: %w", err)
	}
	xf, err := viewport.FitToScreenInset(bounds, screen, opts.MaxScale, opts.Inset)
	if err != nil {
		return nil, st, fmt.Errorf("fit: %w", err)
	}
	f.Bounds = frame.RectOf(bounds)
	f.Transform = frame.TransformOf(xf)

	// Stage 6: Visible set under the transform
	window := xf.Visible(screen)
	if opts.Window != nil {
		window = *opts.Window
	}
	f.Window = frame.RectOf(window)

	solved := make([]tree.Node, len(res.Order))
	for i, id := range res.Order {
		solved[i] = tree.Node{ID: id, Position: positions[id]}
	}
	start = time.Now()
	visibleIDs, err := virtual.Cull(solved, window, opts.Virtual)
	if err != nil {
		return nil, st, fmt.Errorf("cull: %w", err)
	}
	hooks.OnCullComplete(ctx, "post", len(solved), len(visibleIDs), time.Since(start))
	visible := virtual.IDSet(visibleIDs)

	// Stage 7: Focus and routes
	var emphasis map[string]focus.Emphasis
	if opts.Focus != "" {
		emphasis, err = focus.StateIndex(full, opts.Focus)
		if err != nil {
			return nil, st, fmt.Errorf("focus: %w", err)
		}
	}

	f.Nodes = make([]frame.Node, 0, len(res.Order))
	for _, id := range res.Order {
		n, _ := idx.Node(id)
		p := positions[id]
		fn := frame.Node{
			ID:        id,
			Text:      n.Text,
			X:         p.X,
			Y:         p.Y,
			Depth:     res.Depths[id],
			Collapsed: n.Collapsed,
			Pinned:    n.Pinned,
			Visible:   visible[id],
			Opacity:   1,
		}
		if parent, ok := idx.Parent(id); ok {
			fn.Parent = parent
			edge, err := connect(parent, id, positions, opts)
			if err != nil {
				return nil, st, fmt.Errorf("route %s -> %s: %w", parent, id, err)
			}
			f.Edges = append(f.Edges, edge)
		}
		if emphasis != nil {
			e := emphasis[id]
			fn.Emphasis = e.String()
			fn.Opacity = opts.FocusConfig.Opacity(e)
		}
		f.Nodes = append(f.Nodes, fn)
	}
	f.Warnings = warnings
	f.Culled = st.Culled

	st.LaidOut = len(f.Nodes)
	st.Visible = len(visibleIDs)
	st.Edges = len(f.Edges)
	st.Warnings = len(warnings)
	return f, st, nil
}

// connect routes the edge from parent to child and classifies its direction.
// Coincident endpoints (two pinned nodes on top of each other) still route
// to a zero-length path; they just carry no direction.
func connect(parent, child string, positions map[string]geom.Point, opts Options) (frame.Edge, error) {
	from := route.Endpoint{ID: parent, Point: positions[parent]}
	to := route.Endpoint{ID: child, Point: positions[child]}

	path, err := route.Route(from, to, opts.Style, opts.Route)
	if err != nil {
		return frame.Edge{}, err
	}
	edge := frame.Edge{From: parent, To: child, Path: path.SVG()}
	if !path.IsZero() {
		conn, err := rtl.ConnectionDirection(from.Point, to.Point, opts.Direction)
		if err != nil {
			return frame.Edge{}, err
		}
		edge.Direction = conn.String()
	}
	return edge, nil
}

// preCull keeps the reachable nodes whose input positions fall in the cull
// window, plus every ancestor of a kept node so the subset stays connected.
// The window is opts.Window or the whole canvas.
func preCull(t tree.Tree, full *tree.Index, opts Options) (*tree.Index, error) {
	window := geom.Rect{Size: opts.Canvas()}
	if opts.Window != nil {
		window = *opts.Window
	}

	reachable := make([]tree.Node, 0, full.Len())
	for _, id := range full.Order() {
		n, _ := full.Node(id)
		reachable = append(reachable, n)
	}
	ids, err := virtual.Cull(reachable, window, opts.Virtual)
	if err != nil {
		return nil, err
	}

	keep := map[string]bool{full.Root(): true}
	for _, id := range ids {
		if keep[id] {
			continue
		}
		keep[id] = true
		for _, a := range full.Ancestors(id) {
			if keep[a] {
				break
			}
			keep[a] = true
		}
	}

	sub := t.Subset(keep)
	sub.Root = full.Root()
	return tree.Build(sub.Nodes, sub.Root)
}
