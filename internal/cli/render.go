package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindcanvas/pkg/config"
	"github.com/matzehuels/mindcanvas/pkg/pipeline"
)

// renderCommand creates the render command: snapshot straight to artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr  string
		output      string
		noLabels    bool
		onlyVisible bool
		flags       canvasFlags
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render a mind map snapshot to SVG, DOT, PNG or JSON",
		Long: `Render a mind map snapshot to SVG, DOT, PNG or JSON.

This is 'layout' followed by 'visualize' in one step. PNG output is drawn by
Graphviz with every node pinned to its computed position.`,
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
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Labels = !noLabels
			opts.OnlyVisible = onlyVisible
			return c.runRender(cmd.Context(), args[0], output, opts, cfg, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit node text")
	cmd.Flags().BoolVar(&onlyVisible, "only-visible", false, "draw only nodes inside the window")
	flags.register(cmd)

	return cmd
}

// runRender loads the snapshot and runs the full pipeline.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, cfg config.Config, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d nodes...", t.Len()))
	spinner.Start()

	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}
	printStats(result.Stats, result.CacheInfo.FrameHit && result.CacheInfo.RenderHit)
	printWarnings(result.Frame.Warnings, maxListedWarnings)
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format. A single format goes to output
// as given; several formats share the output path as a base name.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 {
		format := p.formats[0]
		path := p.output
		if path == "" {
			path = derivedPath(p.input, format)
		}
		if err := writeArtifact(path, p.artifacts[format]); err != nil {
			return err
		}
		printSuccess("Rendered %s", strings.ToUpper(format))
		printFile(path)
		return nil
	}

	base := basePath(p.output, p.input)
	formats := slices.Clone(p.formats)
	slices.Sort(formats)
	printSuccess("Rendered %s", strings.ToUpper(strings.Join(formats, ", ")))
	for _, format := range formats {
		path := base + "." + format
		if err := writeArtifact(path, p.artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return stem(input)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
