package heap

import (
	"strconv"
	"strings"
)

// VarKind distinguishes the three variable classes produced by the analysis.
type VarKind int

const (
	// VarProgram is a named program variable (x, list, head).
	VarProgram VarKind = iota
	// VarLogical is an existentially quantified logical variable.
	VarLogical
	// VarPlaceholder is an anonymous value invented by the analysis for
	// unknown footprint. Placeholder-addressed nodes with no incoming edges
	// are removed by the pruning pass.
	VarPlaceholder
)

// Expr is an address expression. Equality is structural; the distinguished
// [Nil] value never gets a dangling node allocated for it.
//
// The variant set is closed: Var, Const, and NilExpr.
type Expr interface {
	expr()

	// Key returns a stable string usable as a map key. Two expressions are
	// structurally equal iff their keys are equal.
	Key() string

	// String returns display text for labels. Not escaped; callers embed it
	// in output formats through the render escaping routine.
	String() string
}

// Var is a named variable address.
type Var struct {
	Name string
	Kind VarKind
}

// Const is an integer constant address (or scalar value).
type Const struct {
	Value int64
}

// NilExpr is the distinguished nil address. Use the [Nil] singleton.
type NilExpr struct{}

// Nil is the canonical nil address value.
var Nil Expr = NilExpr{}

func (Var) expr()     {}
func (Const) expr()   {}
func (NilExpr) expr() {}

func (v Var) Key() string {
	return "v" + strconv.Itoa(int(v.Kind)) + ":" + v.Name
}

func (c Const) Key() string {
	return "c:" + strconv.FormatInt(c.Value, 10)
}

func (NilExpr) Key() string { return "nil" }

func (v Var) String() string {
	switch v.Kind {
	case VarLogical:
		return "_" + v.Name
	case VarPlaceholder:
		return "$" + v.Name
	default:
		return v.Name
	}
}

func (c Const) String() string { return strconv.FormatInt(c.Value, 10) }

func (NilExpr) String() string { return "nil" }

// ExprEqual reports structural equality of two address expressions.
func ExprEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}

// IsPlaceholder reports whether e is a placeholder variable.
func IsPlaceholder(e Expr) bool {
	v, ok := e.(Var)
	return ok && v.Kind == VarPlaceholder
}

// ParseExpr decodes the string encoding used by the JSON wire format:
// "nil" for the nil address, a decimal literal for constants, a leading
// underscore for logical variables, a leading dollar sign for placeholders,
// and anything else for program variables.
func ParseExpr(s string) Expr {
	switch {
	case s == "nil" || s == "":
		return Nil
	case strings.HasPrefix(s, "_"):
		return Var{Name: s[1:], Kind: VarLogical}
	case strings.HasPrefix(s, "$"):
		return Var{Name: s[1:], Kind: VarPlaceholder}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Const{Value: n}
	}
	return Var{Name: s, Kind: VarProgram}
}
