package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/pipeline"
	"github.com/heapviz/heapviz/pkg/report"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	output  string
	formats []string
	banner  bool
	noCache bool
	store   bool
}

// batchCommand creates the batch command. It renders every heap in the file,
// tolerating malformed ones, and prints a summary of successes and failures.
// With --store and a configured MongoDB, the summary is persisted as a report.
func (c *CLI) batchCommand() *cobra.Command {
	var formatsStr string
	opts := batchOpts{}

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Render every heap in a file and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = c.formats(formatsStr)
			opts.banner = c.bannerDefault(cmd, opts.banner)
			return c.runBatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), xml, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.banner, "banner", false, "include label banners in the graphs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")
	cmd.Flags().BoolVar(&opts.store, "store", false, "persist the batch report to MongoDB")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, input string, opts *batchOpts) error {
	props, err := heap.ImportFile(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded %d heaps from %s", len(props), input)

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	batch, err := runner.RenderBatch(ctx, props, pipeline.Options{
		Formats: opts.formats,
		Banner:  opts.banner,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	for i, res := range batch.Results {
		printInfo("%s", displayLabel(res.Label, i))
		printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.Hit)
		if err := writeArtifacts(res, artifactBase(base, i, len(props))); err != nil {
			return err
		}
	}
	for _, f := range batch.Failures {
		printWarning("heap %d (%s): %s", f.Index, f.Label, f.Error)
	}
	prog.done(fmt.Sprintf("Rendered %d of %d heaps", len(batch.Results), len(props)))

	if opts.store {
		return c.storeReport(ctx, filepath.Base(input), batch)
	}
	return nil
}

// storeReport persists the batch outcome to the configured MongoDB.
func (c *CLI) storeReport(ctx context.Context, source string, batch *pipeline.BatchResult) error {
	uri := c.Config.Server.MongoURI
	if uri == "" {
		return fmt.Errorf("--store requires server.mongo_uri in the config file")
	}

	store, err := report.NewMongoStore(ctx, uri, c.Config.Server.MongoDatabase)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	rep := report.New(source, batch)
	if err := store.Put(ctx, rep); err != nil {
		return err
	}
	printSuccess("Stored report %s", rep.ID)
	return nil
}
