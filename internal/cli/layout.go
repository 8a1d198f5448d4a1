package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/frame"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
)

// maxListedWarnings bounds how many structural warnings a command prints.
const maxListedWarnings = 10

// layoutCommand creates the layout command for computing frames.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  canvasFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot.json]",
		Short: "Compute a frame from a mind map snapshot",
		Long: `Compute a frame from a mind map snapshot.

The layout command reads a snapshot (use "-" for stdin), solves the radial
layout, fits it to the screen and routes every connection. The result is a
frame file (same format as 'render -f json') that 'visualize' can draw.

Frames are cached, so repeated runs with the same snapshot and options are
instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], output, opts, cfg, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frame.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the snapshot, computes the frame, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, cfg config.Config, noCache bool) error {
	t, err := pipeline.Load(pipeline.Source{Path: input})
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d nodes...", t.Len()))
	spinner.Start()

	f, st, cacheHit, err := runner.FrameWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute frame: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, "frame.json")
	}
	if err := frame.WriteFile(f, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(st, cacheHit)
	printFrameSummary(f)
	printWarnings(f.Warnings, maxListedWarnings)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// derivedPath replaces the extension of input with suffix.
func derivedPath(input, suffix string) string {
	return stem(input) + "." + suffix
}

// stem strips the extension from input. Stdin input is named "mindmap".
func stem(input string) string {
	if input == "-" || input == "" {
		return "mindmap"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
