package heap

// DiffClass classifies one heap element relative to a related proposition.
type DiffClass int

const (
	// DiffUnchanged marks an element present on both sides.
	DiffUnchanged DiffClass = iota
	// DiffAdded marks an element present only on this side.
	DiffAdded
	// DiffRemoved marks an element present only on the other side.
	DiffRemoved
)

// Oracle classifies cells and pure atoms for diff coloring. The renderer
// consults it at node/edge creation time when rendering a pre/post pair.
type Oracle interface {
	Cell(c Cell) DiffClass
	Atom(a Atom) DiffClass
}

// keyOracle classifies by structural key lookup. Elements missing from the
// map get the fallback class.
type keyOracle struct {
	cells    map[string]DiffClass
	atoms    map[string]DiffClass
	fallback DiffClass
}

func (o *keyOracle) Cell(c Cell) DiffClass {
	if cl, ok := o.cells[CellKey(c)]; ok {
		return cl
	}
	return o.fallback
}

func (o *keyOracle) Atom(a Atom) DiffClass {
	if cl, ok := o.atoms[AtomKey(a)]; ok {
		return cl
	}
	return o.fallback
}

// StructuralDiff compares a precondition with one derived postcondition and
// returns the oracle for each side. A cell or atom present on both sides is
// unchanged; one present only in pre is removed (on the pre oracle); one
// present only in post is added (on the post oracle). Matching is purely
// structural; proving deeper equivalences is the prover's business, not ours.
func StructuralDiff(pre, post *Prop) (preSide, postSide Oracle) {
	preCells := cellKeySet(pre)
	postCells := cellKeySet(post)
	preAtoms := atomKeySet(pre)
	postAtoms := atomKeySet(post)

	p := &keyOracle{
		cells:    make(map[string]DiffClass, len(preCells)),
		atoms:    make(map[string]DiffClass, len(preAtoms)),
		fallback: DiffUnchanged,
	}
	for k := range preCells {
		if _, ok := postCells[k]; ok {
			p.cells[k] = DiffUnchanged
		} else {
			p.cells[k] = DiffRemoved
		}
	}
	for k := range preAtoms {
		if _, ok := postAtoms[k]; ok {
			p.atoms[k] = DiffUnchanged
		} else {
			p.atoms[k] = DiffRemoved
		}
	}

	q := &keyOracle{
		cells:    make(map[string]DiffClass, len(postCells)),
		atoms:    make(map[string]DiffClass, len(postAtoms)),
		fallback: DiffUnchanged,
	}
	for k := range postCells {
		if _, ok := preCells[k]; ok {
			q.cells[k] = DiffUnchanged
		} else {
			q.cells[k] = DiffAdded
		}
	}
	for k := range postAtoms {
		if _, ok := preAtoms[k]; ok {
			q.atoms[k] = DiffUnchanged
		} else {
			q.atoms[k] = DiffAdded
		}
	}

	return p, q
}

func cellKeySet(p *Prop) map[string]struct{} {
	s := make(map[string]struct{}, len(p.Cells))
	for _, c := range p.Cells {
		s[CellKey(c)] = struct{}{}
	}
	return s
}

func atomKeySet(p *Prop) map[string]struct{} {
	s := make(map[string]struct{}, len(p.Pure))
	for _, a := range p.Pure {
		s[AtomKey(a)] = struct{}{}
	}
	return s
}
