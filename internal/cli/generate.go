package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindcanvas/pkg/geom"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// generateCommand creates the generate command for demo snapshots.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		scatter bool
		gen     tree.GenerateOptions
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random mind map snapshot",
		Long: `Write a random mind map snapshot.

The same seed always produces the same snapshot, which makes generated maps
handy for benchmarks and bug reports. With --scatter every node gets a
random starting position on the default canvas, which is what pre-layout
culling looks at.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scatter {
				gen.Area = geom.Sz(pipeline.DefaultWidth, pipeline.DefaultHeight)
			}
			t, err := pipeline.Load(pipeline.Source{Generate: &gen})
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return tree.Write(t, os.Stdout)
			}
			if err := tree.WriteFile(t, output); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			c.Logger.Debug("generated snapshot", "nodes", t.Len(), "seed", gen.Seed)
			printSuccess("Generated %d nodes", t.Len())
			printFile(output)
			printNewline()
			printNextStep("Lay out", appName+" layout "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&gen.Nodes, "nodes", "n", 32, "node count, root included")
	cmd.Flags().IntVar(&gen.MaxChildren, "max-children", 5, "upper bound on children per node")
	cmd.Flags().Uint64Var(&gen.Seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&scatter, "scatter", false, "assign random starting positions")

	return cmd
}
