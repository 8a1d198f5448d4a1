package virtual

import (
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Index is a k-d tree over node positions for repeated viewport queries.
// Build it once per snapshot and query it every frame; it is safe for
// concurrent queries.
type Index struct {
	tree *kdtree.Tree
	ids  []string
}

// NewIndex indexes the finite positions in nodes.
func NewIndex(nodes []tree.Node) *Index {
	pts := make(points, 0, len(nodes))
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		if geom.Finite(n.Position) {
			pts = append(pts, point{x: n.Position.X, y: n.Position.Y, i: i})
		}
	}
	return &Index{tree: kdtree.New(pts, false), ids: ids}
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int { return x.tree.Len() }

// Visible returns the ids of visible nodes in input order.
func (x *Index) Visible(viewport geom.Rect, opts Options) ([]string, error) {
	if err := checkViewport(viewport); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	w := opts.window(viewport)
	far := w.Max()
	bounds := &kdtree.Bounding{
		Min: point{x: w.Origin.X, y: w.Origin.Y},
		Max: point{x: far.X, y: far.Y},
	}

	var hits []int
	x.tree.DoBounded(bounds, func(c kdtree.Comparable, _ *kdtree.Bounding, _ int) bool {
		hits = append(hits, c.(point).i)
		return false
	})
	slices.Sort(hits)

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = x.ids[h]
	}
	return out, nil
}

// point is a node position stored in the k-d tree. i is the node's input index.
type point struct {
	x, y float64
	i    int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

func (p point) Dims() int { return 2 }

func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Pivot(d kdtree.Dim) int                { return plane{points: p, Dim: d}.Pivot() }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts points along one dimension for median selection.
type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.points[i].x < p.points[j].x
	}
	return p.points[i].y < p.points[j].y
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
