package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heapviz/heapviz/pkg/errors"
	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/pipeline"
)

// diffOpts holds the command-line flags for the diff command.
type diffOpts struct {
	output    string
	formats   []string
	preIndex  int
	postIndex int
	banner    bool
	noCache   bool
}

// diffCommand creates the diff command for rendering pre/post heap pairs.
// Elements that changed between the two states are highlighted in red; the
// post state baseline is drawn in orange to set it apart from the pre state.
func (c *CLI) diffCommand() *cobra.Command {
	var formatsStr string
	opts := diffOpts{}

	cmd := &cobra.Command{
		Use:   "diff [pre-file] [post-file]",
		Short: "Render a pre/post heap pair with change highlighting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.formats(formatsStr)
			opts.banner = c.bannerDefault(cmd, opts.banner)
			if opts.output != "" {
				if err := errors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			return c.runDiff(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), xml, svg, png (comma-separated)")
	cmd.Flags().IntVar(&opts.preIndex, "pre-index", 0, "heap index within the pre file")
	cmd.Flags().IntVar(&opts.postIndex, "post-index", 0, "heap index within the post file")
	cmd.Flags().BoolVar(&opts.banner, "banner", false, "include a label banner in the graphs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

func (c *CLI) runDiff(ctx context.Context, preFile, postFile string, opts *diffOpts) error {
	pre, err := loadHeapAt(preFile, opts.preIndex)
	if err != nil {
		return err
	}
	post, err := loadHeapAt(postFile, opts.postIndex)
	if err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	diff, err := runner.RenderDiff(ctx, pre, post, pipeline.Options{
		Formats: opts.formats,
		Banner:  opts.banner,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, preFile)

	printInfo("%s", displayLabel(pre.Label, opts.preIndex))
	printStats(diff.Pre.Stats.NodeCount, diff.Pre.Stats.EdgeCount, diff.Pre.CacheInfo.Hit)
	if err := writeArtifacts(diff.Pre, base+"_pre"); err != nil {
		return err
	}

	printInfo("%s", displayLabel(post.Label, opts.postIndex))
	printStats(diff.Post.Stats.NodeCount, diff.Post.Stats.EdgeCount, diff.Post.CacheInfo.Hit)
	if err := writeArtifacts(diff.Post, base+"_post"); err != nil {
		return err
	}

	return nil
}

// loadHeapAt loads the heap at index from a file.
func loadHeapAt(path string, index int) (*heap.Prop, error) {
	props, err := heap.ImportFile(path)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(props) {
		return nil, fmt.Errorf("index %d out of range: %s has %d heaps", index, path, len(props))
	}
	return props[index], nil
}
