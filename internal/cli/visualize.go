package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a frame.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr  string
		output      string
		noCache     bool
		noLabels    bool
		onlyVisible bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [frame.json]",
		Short: "Render a computed frame",
		Long: `Render a computed frame.

The visualize command takes a frame file (produced by 'layout') and renders
it to SVG, DOT, PNG or JSON. The frame already holds every position, route
and emphasis, so this step only draws.

Use 'render' as a shortcut to go directly from a snapshot to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats:     parseFormats(formatsStr),
				Labels:      !noLabels,
				OnlyVisible: onlyVisible,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], output, opts, cfg, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit node text")
	cmd.Flags().BoolVar(&onlyVisible, "only-visible", false, "draw only nodes inside the window")

	return cmd
}

// runVisualize loads the frame and renders it.
func (c *CLI) runVisualize(ctx context.Context, input, output string, opts pipeline.Options, cfg config.Config, noCache bool) error {
	f, err := frame.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load frame %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, f, opts)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}
	prog.done("Rendered frame", "nodes", f.Len(), "cached", cacheHit)

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
}
