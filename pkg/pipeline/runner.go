package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/heapviz/heapviz/pkg/cache"
	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/observability"
	"github.com/heapviz/heapviz/pkg/render"
	"github.com/heapviz/heapviz/pkg/render/dot"
	"github.com/heapviz/heapviz/pkg/render/xtree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds the lifetime of cached artifacts. Zero means the
	// cache.TTLRender default.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// logger returns the per-call logger when the options carry one, otherwise
// the runner's own.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Render runs the render → serialize pipeline for one proposition.
func (r *Runner) Render(ctx context.Context, p *heap.Prop, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return r.renderOne(ctx, p, nil, render.Black, "", opts)
}

// RenderDiff renders a precondition/postcondition pair with diff coloring.
// Added and removed elements come out red on their respective sides; the
// post side keeps an orange baseline so the two renders are distinguishable
// when placed next to each other.
//
// A side's coloring depends on what it was compared against, so each side's
// cache key carries the counterpart's content hash tagged with the side.
func (r *Runner) RenderDiff(ctx context.Context, pre, post *heap.Prop, opts Options) (*DiffResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	preHash, err := hashProp(pre)
	if err != nil {
		return nil, fmt.Errorf("hash pre: %w", err)
	}
	postHash, err := hashProp(post)
	if err != nil {
		return nil, fmt.Errorf("hash post: %w", err)
	}

	preOracle, postOracle := heap.StructuralDiff(pre, post)

	preRes, err := r.renderOne(ctx, pre, render.NewColorer(preOracle, render.Black), render.Black, "pre:"+postHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render pre: %w", err)
	}
	postRes, err := r.renderOne(ctx, post, render.NewColorer(postOracle, render.Orange), render.Orange, "post:"+preHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render post: %w", err)
	}

	return &DiffResult{Pre: preRes, Post: postRes}, nil
}

// RenderBatch renders a list of propositions. A failing proposition does not
// abort the batch: it is skipped and recorded in the result's failures.
func (r *Runner) RenderBatch(ctx context.Context, props []*heap.Prop, opts Options) (*BatchResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	batch := &BatchResult{}
	for i, p := range props {
		res, err := r.renderOne(ctx, p, nil, render.Black, "", opts)
		if err != nil {
			r.logger(opts).Warn("skipping proposition", "index", i, "label", p.Label, "err", err)
			batch.Failures = append(batch.Failures, BatchFailure{
				Index: i,
				Label: p.Label,
				Error: err.Error(),
			})
			continue
		}
		batch.Results = append(batch.Results, res)
	}
	return batch, nil
}

// renderOne renders one proposition to every requested format, consulting
// the cache per format. The graph is built at most once per call. diffHash
// is empty for plain renders and the side-tagged counterpart hash for diff
// renders.
func (r *Runner) renderOne(ctx context.Context, p *heap.Prop, colors *render.Colorer, base render.Color, diffHash string, opts Options) (*Result, error) {
	propHash, err := hashProp(p)
	if err != nil {
		return nil, fmt.Errorf("hash proposition: %w", err)
	}

	result := &Result{
		Label:     p.Label,
		PropHash:  propHash,
		Artifacts: make(map[string][]byte),
	}

	// Try cache first (unless refresh requested)
	missing := opts.Formats
	if !opts.Refresh {
		missing = missing[:0:0]
		for _, format := range opts.Formats {
			key := r.renderKey(propHash, format, diffHash, opts)
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				result.Artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "render")
			missing = append(missing, format)
		}
		if len(missing) == 0 {
			result.CacheInfo.Hit = true
			return result, nil
		}
	}

	// Render
	renderStart := time.Now()
	observability.Render().OnRenderStart(ctx, p.Label)
	g, err := render.Build(p, render.Options{Prover: opts.Prover, Colors: colors, Base: base})
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Render().OnRenderComplete(ctx, p.Label, nodeCountOf(g), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", p.Label, err)
	}
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.logger(opts).Info("rendered heap",
		"label", p.Label,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.RenderTime)

	// Serialize
	serializeStart := time.Now()
	observability.Render().OnSerializeStart(ctx, missing)
	err = r.serialize(ctx, result, p, g, colors, missing, diffHash, opts)
	result.Stats.SerializeTime = time.Since(serializeStart)
	observability.Render().OnSerializeComplete(ctx, missing, result.Stats.SerializeTime, err)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Runner) serialize(ctx context.Context, result *Result, p *heap.Prop, g *render.Graph, colors *render.Colorer, formats []string, diffHash string, opts Options) error {
	var dotText []byte
	dotFor := func() []byte {
		if dotText == nil {
			dotText = dot.Marshal(g, dot.Options{Banner: bannerText(p, opts)})
		}
		return dotText
	}

	for _, format := range formats {
		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = dotFor()
		case FormatXML:
			data = marshalXML(p, g, colors)
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, dotFor())
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, dotFor())
		default:
			panic("unreachable")
		}
		if err != nil {
			return fmt.Errorf("serialize %s: %w", format, err)
		}

		result.Artifacts[format] = data
		key := r.renderKey(result.PropHash, format, diffHash, opts)
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.logger(opts).Debug("cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLRender
}

// marshalXML produces the tree document: a state element holding the stack
// and heap trees side by side.
func marshalXML(p *heap.Prop, g *render.Graph, colors *render.Colorer) []byte {
	root := xtree.New("state")
	if p.Label != "" {
		root.Attr("id", render.EscapeText(p.Label))
	}
	root.Children = append(root.Children, xtree.StackTree(p, colors))
	root.Children = append(root.Children, xtree.HeapTree(g, render.EscapeText(p.Label)))
	return root.Marshal()
}

func bannerText(p *heap.Prop, opts Options) string {
	if !opts.Banner {
		return ""
	}
	if p.Label != "" {
		return p.Label
	}
	return "HEAP"
}

func (r *Runner) renderKey(propHash, format, diffHash string, opts Options) string {
	return r.Keyer.RenderKey(propHash, cache.RenderKeyOpts{
		Format:   format,
		Banner:   opts.Banner,
		DiffHash: diffHash,
	})
}

// hashProp computes the content hash of a proposition via its canonical
// JSON encoding.
func hashProp(p *heap.Prop) (string, error) {
	var buf bytes.Buffer
	if err := heap.WriteProp(p, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

func nodeCountOf(g *render.Graph) int {
	if g == nil {
		return 0
	}
	return g.NodeCount()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
