// Package cli implements the heapviz command-line interface.
//
// This package provides commands for rendering symbolic heaps as graph
// visualizations, comparing pre/post states, browsing heap files
// interactively, running the HTTP API server, and managing the render
// cache. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate DOT, XML, SVG, or PNG visualizations of heaps
//   - diff: Render a pre/post heap pair with change highlighting
//   - batch: Render every heap in a file and print a summary report
//   - browse: Interactively pick a heap from a file and render it
//   - serve: Run the HTTP API server
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/heapviz/heapviz/pkg/buildinfo"
	"github.com/heapviz/heapviz/pkg/cache"
	"github.com/heapviz/heapviz/pkg/config"
	"github.com/heapviz/heapviz/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "heapviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Heapviz renders symbolic heaps as graphs",
		Long:         `Heapviz turns symbolic heap states from separation-logic analysis into graph visualizations, making it easier to see how pointer structures evolve across program points.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./heapviz.toml, then user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration, preferring --config over
// the discovery path.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		return nil
	}
	cfg, err := config.Discover()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// newRunner creates a pipeline runner for CLI use. A configured cache TTL
// overrides the pipeline default.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(c.newCache(noCache), nil, c.Logger)
	if ttl := c.Config.Cache.TTLDuration(); ttl > 0 {
		r.TTL = ttl
	}
	return r
}

// newCache selects the cache backend from configuration. Cache failures
// degrade to no caching rather than blocking the render.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache()
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(url)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := c.Config.Cache.CacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// formats resolves the effective output formats: the --format flag when
// given, then the config file, then the pipeline default.
func (c *CLI) formats(flag string) []string {
	if flag == "" && len(c.Config.Render.Formats) > 0 {
		return c.Config.Render.Formats
	}
	return parseFormats(flag)
}

// bannerDefault resolves the banner setting when the flag was not set.
func (c *CLI) bannerDefault(cmd *cobra.Command, flagValue bool) bool {
	if !cmd.Flags().Changed("banner") {
		return c.Config.Render.Banner
	}
	return flagValue
}
