package tree

import (
	"fmt"
	"slices"

	"github.com/matzehuels/mindcanvas/pkg/errors"
)

// Index is the validated parent/child view over a node snapshot.
//
// An Index is immutable after [Build] returns and safe for concurrent reads.
type Index struct {
	root     string
	nodes    map[string]*Node
	children map[string][]string
	parent   map[string]string
	order    []string
	depth    map[string]int
	warnings []Warning
}

// Build indexes nodes and validates the structure reachable from rootID.
//
// Adjacency is reconciled from both sides. A child id listed by a parent is
// accepted when the child names that parent, or names no parent at all and
// has not been claimed yet. A node whose parent id names an existing node
// that does not list it is appended to that parent's children. Every repair
// and every dropped reference is reported as a [Warning].
//
// Build fails with ROOT_NOT_FOUND when rootID is not in nodes and with
// CYCLIC_STRUCTURE when a cycle is reachable from the root. The traversal is
// bounded by len(nodes).
func Build(nodes []Node, rootID string) (*Index, error) {
	idx := &Index{
		root:     rootID,
		nodes:    make(map[string]*Node, len(nodes)),
		children: make(map[string][]string),
		parent:   make(map[string]string),
		depth:    make(map[string]int),
	}

	ids := make([]string, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if _, dup := idx.nodes[n.ID]; dup {
			idx.warn(WarnDuplicateID, n.ID, "later definition ignored")
			continue
		}
		idx.nodes[n.ID] = n
		ids = append(ids, n.ID)
	}

	if _, ok := idx.nodes[rootID]; !ok {
		return nil, errors.RootNotFound(rootID)
	}

	idx.link(ids)

	if err := idx.walk(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := idx.depth[id]; ok {
			continue
		}
		if p := idx.nodes[id].ParentID; p != "" && idx.nodes[p] == nil {
			continue // already reported as orphan
		}
		idx.warn(WarnUnreachable, id, "")
	}

	return idx, nil
}

// link resolves child lists and parent ids into one adjacency map.
func (idx *Index) link(ids []string) {
	claimed := make(map[string]bool, len(ids))

	for _, pid := range ids {
		p := idx.nodes[pid]
		seen := make(map[string]bool, len(p.ChildIDs))
		for _, cid := range p.ChildIDs {
			if seen[cid] {
				idx.warn(WarnDuplicateChild, cid, "listed twice by "+pid)
				continue
			}
			seen[cid] = true

			c, ok := idx.nodes[cid]
			if !ok {
				idx.warn(WarnUnknownChild, cid, "listed by "+pid)
				continue
			}
			switch {
			case c.ParentID == pid && !claimed[cid]:
			case c.ParentID == "" && !claimed[cid] && cid != idx.root:
				idx.warn(WarnParentMismatch, cid, fmt.Sprintf("listed by %s but declares no parent", pid))
			default:
				idx.warn(WarnParentMismatch, cid, fmt.Sprintf("listed by %s but declares parent %q", pid, c.ParentID))
				continue
			}
			claimed[cid] = true
			idx.children[pid] = append(idx.children[pid], cid)
			idx.parent[cid] = pid
		}
	}

	for _, cid := range ids {
		c := idx.nodes[cid]
		if c.ParentID == "" || claimed[cid] || cid == idx.root {
			continue
		}
		if _, ok := idx.nodes[c.ParentID]; !ok {
			idx.warn(WarnOrphan, cid, "parent "+c.ParentID+" not found")
			continue
		}
		idx.warn(WarnParentMismatch, cid, "not listed by parent "+c.ParentID)
		claimed[cid] = true
		idx.children[c.ParentID] = append(idx.children[c.ParentID], cid)
		idx.parent[cid] = c.ParentID
	}
}

// walk computes pre-order and depth from the root and rejects cycles.
// Every node has at most one accepted parent, so revisiting a node on the
// current path is the only way to see it twice.
func (idx *Index) walk() error {
	type frame struct {
		id   string
		next int
	}

	onPath := make(map[string]bool)
	stack := []frame{{id: idx.root}}
	onPath[idx.root] = true
	idx.depth[idx.root] = 0
	idx.order = append(idx.order, idx.root)

	for steps := 0; len(stack) > 0; steps++ {
		if steps > 2*len(idx.nodes)+1 {
			return errors.CyclicStructure(stack[len(stack)-1].id)
		}
		top := &stack[len(stack)-1]
		kids := idx.children[top.id]
		if top.next >= len(kids) {
			onPath[top.id] = false
			stack = stack[:len(stack)-1]
			continue
		}
		cid := kids[top.next]
		top.next++

		if onPath[cid] {
			return errors.CyclicStructure(cid)
		}
		if _, seen := idx.depth[cid]; seen {
			return errors.CyclicStructure(cid)
		}
		idx.depth[cid] = len(stack)
		idx.order = append(idx.order, cid)
		onPath[cid] = true
		stack = append(stack, frame{id: cid})
	}
	return nil
}

func (idx *Index) warn(kind WarningKind, id, detail string) {
	idx.warnings = append(idx.warnings, Warning{Kind: kind, NodeID: id, Detail: detail})
}

// Root returns the root id.
func (idx *Index) Root() string { return idx.root }

// Len returns the number of reachable nodes.
func (idx *Index) Len() int { return len(idx.order) }

// Order returns reachable ids in pre-order, children in stored order.
func (idx *Index) Order() []string { return slices.Clone(idx.order) }

// Contains reports whether id is reachable from the root.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.depth[id]
	return ok
}

// Node returns the node with the given id, reachable or not.
func (idx *Index) Node(id string) (Node, bool) {
	n, ok := idx.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Children returns the reconciled children of id in stored order.
func (idx *Index) Children(id string) []string { return idx.children[id] }

// Parent returns the accepted parent of id.
func (idx *Index) Parent(id string) (string, bool) {
	p, ok := idx.parent[id]
	return p, ok
}

// Depth returns the distance from the root, or -1 when id is unreachable.
func (idx *Index) Depth(id string) int {
	d, ok := idx.depth[id]
	if !ok {
		return -1
	}
	return d
}

// Warnings returns the anomalies found while building the index.
func (idx *Index) Warnings() []Warning { return slices.Clone(idx.warnings) }

// Ancestors returns the path from id's parent up to the root.
func (idx *Index) Ancestors(id string) []string {
	var out []string
	if !idx.Contains(id) {
		return out
	}
	for cur := id; cur != idx.root; {
		p := idx.parent[cur]
		out = append(out, p)
		cur = p
	}
	return out
}

// Descendants returns every node below id in pre-order.
func (idx *Index) Descendants(id string) []string {
	var out []string
	if !idx.Contains(id) {
		return out
	}
	stack := slices.Clone(idx.children[id])
	slices.Reverse(stack)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		kids := idx.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// Visible walks the reachable nodes in pre-order and skips the children of
// collapsed nodes. The collapsed node itself is visited.
func (idx *Index) Visible(fn func(id string, depth int)) {
	stack := []string{idx.root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur, idx.depth[cur])
		if idx.nodes[cur].Collapsed {
			continue
		}
		kids := idx.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}
