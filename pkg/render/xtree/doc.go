// Package xtree serializes rendered heaps to a tagged tree document.
//
// The document is the structured sibling of the DOT output: one heap element
// per rendered graph plus one stack element for the pure constraints, meant
// for programmatic consumers rather than layout engines. [Elem] is a small
// generic tree with ordered attributes and a deterministic indented XML
// writer, so identical graphs always serialize to identical bytes.
//
// Label text goes through the same escaping routine as the DOT emitter, so
// the two formats agree on every address and path.
package xtree
