package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/geom"
)

// =============================================================================
// Snapshot - JSON Serialization
// =============================================================================

// Snapshot is the on-disk form of a [Tree].
type Snapshot struct {
	Root  string         `json:"root"`
	Nodes []SnapshotNode `json:"nodes"`
}

// SnapshotNode is the on-disk form of a [Node].
type SnapshotNode struct {
	ID        string   `json:"id,omitempty"`
	Text      string   `json:"text,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Parent    string   `json:"parent,omitempty"`
	Children  []string `json:"children,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty"`
	Pinned    bool     `json:"pinned,omitempty"`
}

// FromTree converts t to its serialization format. Input order is kept.
func FromTree(t Tree) Snapshot {
	out := Snapshot{Root: t.Root, Nodes: make([]SnapshotNode, len(t.Nodes))}
	for i, n := range t.Nodes {
		out.Nodes[i] = SnapshotNode{
			ID:        n.ID,
			Text:      n.Text,
			X:         n.Position.X,
			Y:         n.Position.Y,
			Parent:    n.ParentID,
			Children:  n.ChildIDs,
			Collapsed: n.Collapsed,
			Pinned:    n.Pinned,
		}
	}
	return out
}

// ToTree converts a snapshot to a Tree.
//
// Nodes without an id get a fresh one from [NewID]. When the snapshot does
// not name a root, the first node without a parent becomes the root.
// Non-finite coordinates and malformed ids are rejected.
func ToTree(s Snapshot) (Tree, error) {
	t := Tree{Root: s.Root, Nodes: make([]Node, len(s.Nodes))}
	for i, sn := range s.Nodes {
		id := sn.ID
		if id == "" {
			id = NewID()
		}
		if err := errors.ValidateNodeID(id); err != nil {
			return Tree{}, fmt.Errorf("node %d: %w", i, err)
		}
		if err := errors.ValidateFinite("position of "+id, sn.X, sn.Y); err != nil {
			return Tree{}, err
		}
		t.Nodes[i] = Node{
			ID:        id,
			Text:      sn.Text,
			Position:  geom.Pt(sn.X, sn.Y),
			ParentID:  sn.Parent,
			ChildIDs:  sn.Children,
			Collapsed: sn.Collapsed,
			Pinned:    sn.Pinned,
		}
	}
	if t.Root == "" {
		for _, n := range t.Nodes {
			if !n.HasParent() {
				t.Root = n.ID
				break
			}
		}
	}
	return t, nil
}

// Marshal converts a tree to indented JSON bytes.
func Marshal(t Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a tree.
func Unmarshal(data []byte) (Tree, error) {
	return Read(bytes.NewReader(data))
}

// WriteFile writes a tree to a JSON file.
func WriteFile(t Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(t, f)
}

// Write writes a tree as JSON to w.
func Write(t Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFile reads a JSON snapshot file.
func ReadFile(path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Tree{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return Tree{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON snapshot from r.
func Read(r io.Reader) (Tree, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Tree{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	return ToTree(s)
}
