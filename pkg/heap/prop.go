package heap

// Atom is one pure constraint of a symbolic heap. The variant set is closed:
// Eq, Ne, and Lt.
type Atom interface {
	atom()

	// Kind returns the constraint class tag used by the tree serializer:
	// "equality", "disequality", or "inequality".
	Kind() string

	// String returns display text for the atom.
	String() string
}

// Eq asserts L = R.
type Eq struct{ L, R Expr }

// Ne asserts L != R.
type Ne struct{ L, R Expr }

// Lt asserts L < R.
type Lt struct{ L, R Expr }

func (Eq) atom() {}
func (Ne) atom() {}
func (Lt) atom() {}

func (Eq) Kind() string { return "equality" }
func (Ne) Kind() string { return "disequality" }
func (Lt) Kind() string { return "inequality" }

func (a Eq) String() string { return a.L.String() + " = " + a.R.String() }
func (a Ne) String() string { return a.L.String() + " != " + a.R.String() }
func (a Lt) String() string { return a.L.String() + " < " + a.R.String() }

// AtomKey returns a stable structural encoding of an atom, usable as a map
// key by the diff oracle.
func AtomKey(a Atom) string {
	switch a := a.(type) {
	case Eq:
		return "eq(" + a.L.Key() + "," + a.R.Key() + ")"
	case Ne:
		return "ne(" + a.L.Key() + "," + a.R.Key() + ")"
	case Lt:
		return "lt(" + a.L.Key() + "," + a.R.Key() + ")"
	default:
		panic("unreachable")
	}
}

// Prop is one symbolic heap: a list of heap predicates plus a pure
// constraint formula. Label carries display text such as "PRE 0".
type Prop struct {
	Label string
	Cells []Cell
	Pure  []Atom
}
