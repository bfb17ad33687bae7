package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heapviz/heapviz/internal/server"
	"github.com/heapviz/heapviz/pkg/report"
)

// serveCommand creates the serve command, which runs the HTTP API server
// until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the heapviz HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, falls back to :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "serve without a render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	reports, err := c.newReportStore(ctx)
	if err != nil {
		return err
	}
	defer reports.Close(context.Background())

	runner := c.newRunner(noCache)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:    addr,
		Runner:  runner,
		Reports: reports,
		Logger:  c.Logger,
	})
	return srv.ListenAndServe(ctx)
}

// newReportStore connects to MongoDB when configured, otherwise keeps
// reports in memory for the lifetime of the process.
func (c *CLI) newReportStore(ctx context.Context) (report.Store, error) {
	uri := c.Config.Server.MongoURI
	if uri == "" {
		c.Logger.Info("no mongo_uri configured, storing reports in memory")
		return report.NewMemoryStore(), nil
	}

	sp := newSpinnerWithContext(ctx, "connecting to MongoDB")
	sp.Start()
	store, err := report.NewMongoStore(ctx, uri, c.Config.Server.MongoDatabase)
	if err != nil {
		sp.StopWithError("MongoDB connection failed")
		return nil, err
	}
	sp.StopWithSuccess("Connected to MongoDB")
	return store, nil
}
