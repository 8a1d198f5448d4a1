package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
	"github.com/matzehuels/mindcanvas/pkg/tree"
)

// exploreCommand creates the interactive canvas command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags    canvasFlags
		generate int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "explore [snapshot.json]",
		Short: "Browse a mind map in the terminal",
		Long: `Browse a mind map in the terminal.

Pan with the arrow keys (mirrored for right-to-left reading), zoom with + and
-, and press tab to walk the focus through the map. Changing focus, reading
direction or connection style recomputes the frame in the background; a
result that arrives after a newer request is discarded.

Without a snapshot argument, --generate builds a random map to explore.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := pipeline.Source{}
			switch {
			case len(args) == 1:
				src.Path = args[0]
			case generate > 0:
				src.Generate = &tree.GenerateOptions{Nodes: generate, Seed: seed}
			default:
				return fmt.Errorf("give a snapshot file or --generate N")
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), src, opts, cfg, flags.noCache)
		},
	}

	cmd.Flags().IntVar(&generate, "generate", 0, "explore a random map with this many nodes")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for --generate")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, src pipeline.Source, opts pipeline.Options, cfg config.Config, noCache bool) error {
	t, err := pipeline.Load(src)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// The canvas owns the terminal; keep pipeline logging out of it.
	prev := c.Logger.GetLevel()
	c.SetLogLevel(LogWarn)
	opts.Logger = c.Logger

	m := newExploreModel(ctx, runner, t, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	c.SetLogLevel(prev)
	if err != nil {
		return err
	}
	if em, ok := final.(exploreModel); ok && em.dropped > 0 {
		c.Logger.Debug("discarded stale frames", "count", em.dropped)
	}
	return nil
}
