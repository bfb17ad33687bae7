// Package pipeline provides the core render pipeline for heapviz.
//
// This package implements the complete render → serialize pipeline that can
// be used by CLI and API components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Render: Build the graph representation of one symbolic heap
//  2. Serialize: Produce output in various formats (DOT, XML, SVG, PNG)
//
// Batches and precondition/postcondition pairs are thin layers over single
// renders: [Runner.RenderBatch] isolates per-proposition failures, and
// [Runner.RenderDiff] renders both sides with diff coloring.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"dot", "svg"},
//	    Banner:  true,
//	}
//	result, err := runner.Render(ctx, prop, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/heapviz/heapviz/pkg/errors"
	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/render"
)

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatXML = "xml"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DefaultFormat is used when no formats are requested.
const DefaultFormat = FormatDOT

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Formats are the outputs to produce: dot, xml, svg, png.
	Formats []string `json:"formats,omitempty"`

	// Banner adds a section header node (PRE/POST or the prop label) to
	// graph outputs.
	Banner bool `json:"banner,omitempty"`

	// Refresh bypasses the cache for reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized). A nil Logger falls back to the
	// runner's logger.
	Prover heap.Prover `json:"-"`
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// Result contains the outputs of one proposition render.
type Result struct {
	// Label is the proposition's display label.
	Label string

	// Graph is the built graph, nil when every artifact came from cache.
	Graph *render.Graph

	// PropHash is the content hash of the proposition.
	PropHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	RenderTime    time.Duration
	SerializeTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hit bool // Whether all artifacts came from cache
}

// DiffResult pairs the rendered sides of a precondition/postcondition pair.
type DiffResult struct {
	Pre  *Result
	Post *Result
}

// BatchFailure records one proposition that could not be rendered.
type BatchFailure struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Error string `json:"error"`
}

// BatchResult contains the outcome of a batch render. Failed propositions
// are skipped and recorded; the rest render normally.
type BatchResult struct {
	Results  []*Result
	Failures []BatchFailure
}
