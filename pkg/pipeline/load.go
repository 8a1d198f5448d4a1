package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// Source selects where a snapshot comes from. Exactly one of Path or
// Generate should be set.
type Source struct {
	Path     string                // snapshot file; "-" reads Stdin
	Stdin    io.Reader             // used for "-"; defaults to os.Stdin
	Generate *tree.GenerateOptions // build a demo tree instead of reading
}

// Load reads or generates the snapshot described by src.
func Load(src Source) (tree.Tree, error) {
	switch {
	case src.Generate != nil:
		return tree.Generate(*src.Generate), nil
	case src.Path == "-":
		r := src.Stdin
		if r == nil {
			r = os.Stdin
		}
		return tree.Read(r)
	case src.Path != "":
		return tree.ReadFile(src.Path)
	}
	return tree.Tree{}, errors.New(errors.ErrCodeInvalidInput, "no snapshot given")
}
