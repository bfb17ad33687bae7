package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heapviz/heapviz/pkg/errors"
	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file base path
	formats []string // output formats: "dot", "xml", "svg", "png"
	index   int      // heap index to render, -1 for all
	banner  bool     // include the label banner node
	noCache bool     // bypass the render cache entirely
	refresh bool     // recompute even when cached artifacts exist
}

// renderCommand creates the render command for generating heap visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{index: -1}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render symbolic heaps from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.formats(formatsStr)
			opts.banner = c.bannerDefault(cmd, opts.banner)
			if opts.output != "" {
				if err := errors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single heap/format) or base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), xml, svg, png (comma-separated)")
	cmd.Flags().IntVar(&opts.index, "index", opts.index, "render only the heap at this index")
	cmd.Flags().BoolVar(&opts.banner, "banner", false, "include a label banner in the graph")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached artifacts")

	return cmd
}

// runRender loads the heaps from input and renders the selected ones.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	props, err := heap.ImportFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d heaps from %s", len(props), input)

	if opts.index >= 0 {
		if opts.index >= len(props) {
			return fmt.Errorf("index %d out of range: file has %d heaps", opts.index, len(props))
		}
		props = props[opts.index : opts.index+1]
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Formats: opts.formats,
		Banner:  opts.banner,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}

	prog := newProgress(logger)
	base := basePath(opts.output, input)
	for i, p := range props {
		res, err := runner.Render(ctx, p, pipeOpts)
		if err != nil {
			return fmt.Errorf("heap %d (%s): %w", i, p.Label, err)
		}

		printInfo("%s", displayLabel(p.Label, i))
		printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.Hit)
		if err := writeArtifacts(res, artifactBase(base, i, len(props))); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d heaps", len(props)))
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case pipeline.FormatDOT, pipeline.FormatXML, pipeline.FormatSVG, pipeline.FormatPNG:
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactBase returns the per-heap base path: base_N when the file holds
// multiple heaps, base otherwise.
func artifactBase(base string, index, total int) string {
	if total == 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, index)
}

// writeArtifacts writes each produced format to base.format.
func writeArtifacts(res *pipeline.Result, base string) error {
	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, f := range formats {
		path := base + "." + f
		if err := writeFile(path, res.Artifacts[f]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// displayLabel returns the heap label, falling back to its index.
func displayLabel(label string, index int) string {
	if label == "" {
		return fmt.Sprintf("heap %d", index)
	}
	return label
}
