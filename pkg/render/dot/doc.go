// Package dot serializes rendered heap graphs to Graphviz DOT text and
// rasterizes them in-process.
//
// # Layout
//
// [Marshal] emits one digraph per graph. Plain cells, dangling placeholders
// and nil references are boxes; struct and array panels are record-shaped
// nodes whose member ports carry the full access path, so an edge leaving a
// nested field attaches to the exact row that names it. Every nested
// sub-render becomes a grey filled cluster, and each segment placeholder is
// followed by a short dotted chain hinting at the elided elements.
//
// # Rasterization
//
// [RenderSVG] and [RenderPNG] run Graphviz through cgo-free bindings, so no
// external dot binary is needed.
package dot
