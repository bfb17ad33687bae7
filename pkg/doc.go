// Package pkg provides the core libraries for heapviz symbolic heap visualization.
//
// # Overview
//
// Heapviz turns the symbolic heap states produced by separation-logic
// analysis into graph pictures, so that pointer structures, list segments,
// and pre/post changes can be read at a glance. The pkg directory is
// organized into four main areas:
//
//  1. [heap] - Domain model (symbolic heaps, pure formulas, prover, diff oracle)
//  2. [render] - Graph construction and the DOT and XML tree serializers
//  3. [pipeline] - Orchestration (render → serialize, caching, batches)
//  4. [cache], [report], [config] - Infrastructure (artifact caching, batch
//     report storage, configuration)
//
// # Architecture
//
// The typical data flow through heapviz:
//
//	Analyzer output (JSON heaps)
//	         ↓
//	    [heap] package (parse propositions, prove nil/equality facts)
//	         ↓
//	    [render] package (build the graph: cells, segments, dangling refs)
//	         ↓
//	    [render/dot] and [render/xtree] (DOT text, XML tree, SVG/PNG)
//	         ↓
//	    Files, HTTP responses, or cached artifacts
//
// # Quick Start
//
// Render every heap in a file to DOT:
//
//	import (
//	    "context"
//	    "github.com/heapviz/heapviz/pkg/heap"
//	    "github.com/heapviz/heapviz/pkg/pipeline"
//	)
//
//	props, _ := heap.ImportFile("heaps.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	for _, p := range props {
//	    res, err := runner.Render(context.Background(), p, pipeline.Options{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    os.WriteFile(p.Label+".dot", res.Artifacts[pipeline.FormatDOT], 0o644)
//	}
//
// # Main Packages
//
// ## Domain Model
//
// [heap] - Symbolic heaps: points-to cells, structs, arrays, and list
// segment predicates, plus the pure constraint formula. Includes the JSON
// wire format, the syntactic prover, and the structural diff oracle used
// for pre/post comparison.
//
// ## Rendering
//
// [render] - Builds the graph from a proposition: one node per cell,
// struct and array panels, dangling reference resolution, nested segment
// bodies as clustered levels, and placeholder pruning.
//
// [render/dot] - DOT serialization and in-process Graphviz rasterization
// to SVG and PNG.
//
// [render/xtree] - XML tree serialization of graphs and stack formulas.
//
// ## Infrastructure
//
// [pipeline] - Complete render pipeline (build → serialize) used by CLI
// and server. Handles caching, diff coloring, and batch isolation.
//
// [cache] - Artifact cache with file, Redis, and null backends plus
// versioned key derivation.
//
// [report] - Batch report storage with memory and MongoDB backends.
//
// [config] - TOML configuration with discovery and layered defaults.
//
// [errors] - Structured error codes and input validation.
//
// [observability] - Render and cache hook registry for instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/render/...     # Specific package
//
// [heap]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/heap
// [render]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/render/dot
// [render/xtree]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/render/xtree
// [pipeline]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/cache
// [report]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/report
// [config]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/heapviz/heapviz/pkg/observability
package pkg
