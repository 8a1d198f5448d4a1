package tree

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/mindcanvas/pkg/geom"
)

// GenerateOptions controls [Generate].
type GenerateOptions struct {
	Nodes       int       // Total node count, root included (default 32)
	MaxChildren int       // Upper bound on children per node (default 5)
	Seed        uint64    // Same seed, same tree
	Area        geom.Size // When non-empty, positions are scattered uniformly over it
}

var topics = []string{
	"goals", "risks", "budget", "timeline", "team", "research", "design",
	"launch", "metrics", "feedback", "ideas", "backlog", "hiring", "docs",
	"support", "pricing", "partners", "roadmap", "testing", "ops",
}

// Generate builds a deterministic random mind map. Ids are derived from the
// seed, so two calls with equal options return equal trees.
func Generate(opts GenerateOptions) Tree {
	if opts.Nodes <= 0 {
		opts.Nodes = 32
	}
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = 5
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))

	nodes := make([]Node, opts.Nodes)
	open := make([]int, 0, opts.Nodes)
	for i := range nodes {
		nodes[i] = Node{
			ID:   seededID(opts.Seed, i),
			Text: fmt.Sprintf("%s %d", topics[rng.IntN(len(topics))], i),
		}
		if !opts.Area.IsEmpty() {
			nodes[i].Position = geom.Pt(rng.Float64()*opts.Area.Width, rng.Float64()*opts.Area.Height)
		}
		if i == 0 {
			nodes[i].Text = "central idea"
			open = append(open, 0)
			continue
		}

		k := rng.IntN(len(open))
		p := open[k]
		nodes[i].ParentID = nodes[p].ID
		nodes[p].ChildIDs = append(nodes[p].ChildIDs, nodes[i].ID)
		if len(nodes[p].ChildIDs) >= opts.MaxChildren {
			open[k] = open[len(open)-1]
			open = open[:len(open)-1]
		}
		open = append(open, i)
	}

	return Tree{Root: nodes[0].ID, Nodes: nodes}
}
