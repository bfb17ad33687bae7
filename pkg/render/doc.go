// Package render turns one symbolic heap into a node/edge graph suitable
// for serialization.
//
// # Pipeline
//
// [Build] runs the passes in order over a render-scoped context:
//
//  1. Node building: each heap predicate becomes one rendered node (two for
//     a pointer with struct or array content). List and doubly-linked list
//     segment bodies are not rendered inline; they are queued as pending
//     sub-renders at the next nesting level and processed iteratively until
//     the queue drains, so arbitrarily deep segment chains never grow the
//     call stack.
//  2. Dangling resolution: addresses referenced at a nesting level but not
//     allocated there get exactly one dangling placeholder node per level.
//  3. Link building: cell content is resolved into edges, recursing through
//     record fields and sequence elements in declaration order.
//  4. Pruning: placeholder-addressed nodes with no incoming edges are
//     dropped along with their outgoing edges.
//
// All counters and caches live in the context created at the top of [Build];
// no state survives a call, so independent propositions can be rendered
// concurrently without locking.
//
// # Coordinates
//
// Every node carries a [Coord]: a globally unique id drawn from one counter
// shared across all nesting levels, plus the nesting level itself. The level
// keeps coordinate namespaces of outer and nested sub-renders apart when
// resolving addresses.
//
// # Diff coloring
//
// When rendering a precondition/postcondition pair, supply a [Colorer] built
// from a [heap.Oracle]; builders consult it at node and edge creation time
// and mark added or removed elements red.
package render
