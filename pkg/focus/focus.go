// Package focus computes per-node emphasis when one node is focused.
//
// The focused node is Focused, its ancestors and descendants are OnPath and
// everything else is Dimmed. No animation state lives here: renderers
// animate toward the values returned by [Config.Opacity] over
// [Config.TransitionDuration].
package focus

import (
	"time"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Emphasis is the display state of one node in focus mode.
type Emphasis int

const (
	Dimmed Emphasis = iota
	OnPath
	Focused
)

func (e Emphasis) String() string {
	switch e {
	case Focused:
		return "focused"
	case OnPath:
		return "on_path"
	}
	return "dimmed"
}

// MarshalText encodes the emphasis by name.
func (e Emphasis) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// State returns the emphasis of every node in nodes for the given focus.
//
// Parent links are followed from both sides (child lists and parent ids) in
// both directions, so an edge known only to the parent's child list still
// links ancestor and descendant. Every walk is bounded by a visited set, so malformed or cyclic snapshots
// still terminate. An unknown focusedID is a NODE_NOT_FOUND error.
func State(nodes []tree.Node, focusedID string) (map[string]Emphasis, error) {
	byID := make(map[string]*tree.Node, len(nodes))
	for i := range nodes {
		if _, dup := byID[nodes[i].ID]; !dup {
			byID[nodes[i].ID] = &nodes[i]
		}
	}
	if _, ok := byID[focusedID]; !ok {
		return nil, errors.NodeNotFound(focusedID)
	}

	children := make(map[string][]string, len(nodes))
	for _, n := range byID {
		for _, c := range n.ChildIDs {
			if _, ok := byID[c]; ok {
				children[n.ID] = append(children[n.ID], c)
			}
		}
		if p := n.ParentID; p != "" {
			if _, ok := byID[p]; ok {
				children[p] = append(children[p], n.ID)
			}
		}
	}

	out := make(map[string]Emphasis, len(byID))
	for id := range byID {
		out[id] = Dimmed
	}

	parents := make(map[string][]string, len(children))
	for p, cs := range children {
		for _, c := range cs {
			parents[c] = append(parents[c], p)
		}
	}

	up := append([]string(nil), parents[focusedID]...)
	seen := map[string]bool{focusedID: true}
	for len(up) > 0 {
		cur := up[len(up)-1]
		up = up[:len(up)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out[cur] = OnPath
		up = append(up, parents[cur]...)
	}

	stack := append([]string(nil), children[focusedID]...)
	visited := map[string]bool{focusedID: true}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out[cur] = OnPath
		stack = append(stack, children[cur]...)
	}

	out[focusedID] = Focused
	return out, nil
}

// StateIndex is [State] over an index's reconciled adjacency. Nodes that are
// not reachable from the index root are not included.
func StateIndex(idx *tree.Index, focusedID string) (map[string]Emphasis, error) {
	if !idx.Contains(focusedID) {
		return nil, errors.NodeNotFound(focusedID)
	}
	out := make(map[string]Emphasis, idx.Len())
	for _, id := range idx.Order() {
		out[id] = Dimmed
	}
	for _, id := range idx.Ancestors(focusedID) {
		out[id] = OnPath
	}
	for _, id := range idx.Descendants(focusedID) {
		out[id] = OnPath
	}
	out[focusedID] = Focused
	return out, nil
}

// Defaults for focus presentation.
const (
	DefaultDimOpacity   = 0.25
	DefaultPathOpacity  = 0.85
	DefaultTransitionMS = 250
)

// Config carries presentation values for focus mode. ReducedMotion is an
// explicit input rather than ambient state.
type Config struct {
	DimOpacity    float64
	PathOpacity   float64
	ReducedMotion bool
	Transition    time.Duration
}

// DefaultConfig returns the standard focus presentation.
func DefaultConfig() Config {
	return Config{
		DimOpacity:  DefaultDimOpacity,
		PathOpacity: DefaultPathOpacity,
		Transition:  DefaultTransitionMS * time.Millisecond,
	}
}

// Validate checks that opacities are within [0, 1].
func (c Config) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"dim opacity", c.DimOpacity}, {"path opacity", c.PathOpacity}} {
		if err := errors.ValidateNonNegative(v.name, v.val); err != nil {
			return err
		}
		if v.val > 1 {
			return errors.InvalidGeometry("%s must be at most 1, got %v", v.name, v.val)
		}
	}
	if c.Transition < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "transition must not be negative")
	}
	return nil
}

// Opacity returns the target opacity for e.
func (c Config) Opacity(e Emphasis) float64 {
	switch e {
	case Focused:
		return 1
	case OnPath:
		return c.PathOpacity
	}
	return c.DimOpacity
}

// TransitionDuration is the animation length toward new targets, zero under
// reduced motion.
func (c Config) TransitionDuration() time.Duration {
	if c.ReducedMotion {
		return 0
	}
	return c.Transition
}
