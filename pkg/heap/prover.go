package heap

// Prover answers the two questions the renderer asks of the separation-logic
// decision procedures: whether an address is provably nil, and whether two
// addresses are provably equal. A real prover sits outside this module; the
// renderer only depends on this seam.
type Prover interface {
	// IsNil reports whether e is provably the nil address.
	IsNil(e Expr) bool

	// Equal reports whether a and b are provably the same address.
	Equal(a, b Expr) bool
}

// SyntacticProver is the default Prover: nil-ness holds for the nil literal
// and the zero constant, and equality is structural. It never consults the
// pure formula.
type SyntacticProver struct{}

// IsNil reports whether e is the nil literal or the constant zero.
func (SyntacticProver) IsNil(e Expr) bool {
	if _, ok := e.(NilExpr); ok {
		return true
	}
	c, ok := e.(Const)
	return ok && c.Value == 0
}

// Equal reports structural equality.
func (SyntacticProver) Equal(a, b Expr) bool { return ExprEqual(a, b) }
