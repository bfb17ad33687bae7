// Package heap defines the symbolic-heap model consumed by the renderer.
//
// A symbolic heap describes one program state in separation logic: a list of
// heap predicates (cells) plus a pure constraint formula. The analysis engine
// that produces these states is a separate system; this package only models
// its output and the two oracle seams the renderer needs from it.
//
// # Core Types
//
//   - [Expr]: address expressions (program/logical/placeholder variables,
//     integer constants, and the distinguished nil)
//   - [Content]: recursive cell content (scalar, record, sequence)
//   - [Cell]: heap predicates (points-to, struct, array, list and
//     doubly-linked list segments)
//   - [Atom], [Prop]: pure constraints and full propositions
//
// All variant types are closed: consumers dispatch with exhaustive type
// switches and treat unknown variants as unreachable.
//
// # Oracles
//
// The renderer never decides entailment itself. [Prover] answers the two
// questions it needs (nil-ness and address equality); [SyntacticProver] is
// the default purely structural implementation. [Oracle] classifies cells
// and atoms for pre/post diff coloring; [StructuralDiff] derives a pair of
// oracles from two related propositions by structural comparison.
//
// # Serialization
//
// Propositions travel as JSON documents (see [ReadProp] and [ReadBatch]).
// Address expressions are encoded as strings: "nil" for the nil address,
// decimal literals for constants, a leading underscore for logical
// variables, and a leading dollar sign for placeholder (anonymous) values.
package heap
