package tree

import "fmt"

// WarningKind classifies a structural anomaly the index repaired or skipped.
type WarningKind string

const (
	// WarnOrphan: the node's parent id names no node in the snapshot.
	WarnOrphan WarningKind = "orphan"
	// WarnParentMismatch: a parent's child list and the child's parent id disagree.
	WarnParentMismatch WarningKind = "parent_mismatch"
	// WarnUnknownChild: a child list names an id that is not in the snapshot.
	WarnUnknownChild WarningKind = "unknown_child"
	// WarnUnreachable: the node exists but cannot be reached from the root.
	WarnUnreachable WarningKind = "unreachable"
	// WarnDuplicateChild: a child id appears more than once in one child list.
	WarnDuplicateChild WarningKind = "duplicate_child"
	// WarnDuplicateID: two nodes share an id; the first one wins.
	WarnDuplicateID WarningKind = "duplicate_id"
	// WarnInvalidPosition: a pinned node carries a non-finite position and is
	// laid out as if it were not pinned.
	WarnInvalidPosition WarningKind = "invalid_position"
)

// Warning describes one anomaly found while building an index.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	NodeID string      `json:"node_id"`
	Detail string      `json:"detail,omitempty"`
}

func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.NodeID)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Kind, w.NodeID, w.Detail)
}

// CountByKind tallies warnings per kind.
func CountByKind(ws []Warning) map[WarningKind]int {
	out := make(map[WarningKind]int)
	for _, w := range ws {
		out[w.Kind]++
	}
	return out
}
