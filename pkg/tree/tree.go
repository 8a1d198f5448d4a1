package tree

import (
	"slices"

	"github.com/matzehuels/mindcanvas/pkg/geom"
)

// Node is one idea in a mind map.
//
// The engine never owns nodes: callers hand in a snapshot for each pass and
// get fresh derived values back. Text is carried for renderers and is never
// interpreted by the layout code.
type Node struct {
	ID        string     // Opaque unique identifier
	Text      string     // Display text
	Position  geom.Point // Engine-assigned unless Pinned
	ParentID  string     // Empty for the root
	ChildIDs  []string   // Stored order drives layout order
	Collapsed bool       // Subtree is excluded from layout
	Pinned    bool       // User-dragged; layout keeps Position
}

// HasParent reports whether the node declares a parent.
func (n Node) HasParent() bool { return n.ParentID != "" }

// Clone returns a copy of n that shares no slices with it.
func (n Node) Clone() Node {
	n.ChildIDs = slices.Clone(n.ChildIDs)
	return n
}

// Tree is a node collection plus the designated root.
type Tree struct {
	Root  string
	Nodes []Node
}

// Len returns the number of nodes in the collection.
func (t Tree) Len() int { return len(t.Nodes) }

// Index builds the adjacency index for t. See [Build].
func (t Tree) Index() (*Index, error) { return Build(t.Nodes, t.Root) }

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	out := Tree{Root: t.Root, Nodes: make([]Node, len(t.Nodes))}
	for i, n := range t.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}

// WithPositions returns a copy of t where every node that has an entry in
// positions takes that position. Nodes without an entry keep their own.
func (t Tree) WithPositions(positions map[string]geom.Point) Tree {
	out := t.Clone()
	for i := range out.Nodes {
		if p, ok := positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out
}

// Subset returns the nodes of t whose ids are in keep, preserving input
// order. Child lists are pruned to kept ids so the subset indexes without
// unknown_child warnings.
func (t Tree) Subset(keep map[string]bool) Tree {
	out := Tree{Root: t.Root, Nodes: make([]Node, 0, len(keep))}
	for _, n := range t.Nodes {
		if !keep[n.ID] {
			continue
		}
		c := n.Clone()
		c.ChildIDs = slices.DeleteFunc(c.ChildIDs, func(id string) bool { return !keep[id] })
		out.Nodes = append(out.Nodes, c)
	}
	return out
}
