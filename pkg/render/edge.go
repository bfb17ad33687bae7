package render

// EdgeKind classifies an edge by the kinds of its endpoints. The set is
// closed; serializers dispatch on it exhaustively.
type EdgeKind int

const (
	// CellToCell links a plain cell to a plain, dangling, or nil target.
	CellToCell EdgeKind = iota
	// CellToStruct links a plain cell to a struct-backed address.
	CellToStruct
	// StructToCell links a struct field port to a plain target.
	StructToCell
	// StructToStruct links a struct field port to a struct-backed address.
	StructToStruct
	// ArrayLink links an array element port to a synthesized (dangling or
	// nil) target.
	ArrayLink
	// ArrayToCell links an array element port to an allocated cell.
	ArrayToCell
	// ArrayToStruct links an array element port to a struct-backed address.
	ArrayToStruct
	// ListSegLink anchors a list segment placeholder to its sink or to its
	// body sub-render.
	ListSegLink
	// DLLSegLink anchors a doubly-linked segment placeholder: body anchors
	// plus best-effort forward/backward adjacency hints.
	DLLSegLink
)

// String returns the edge kind tag used by serializers.
func (k EdgeKind) String() string {
	switch k {
	case CellToCell:
		return "cell-to-cell"
	case CellToStruct:
		return "cell-to-struct"
	case StructToCell:
		return "struct-to-cell"
	case StructToStruct:
		return "struct-to-struct"
	case ArrayLink:
		return "array-link"
	case ArrayToCell:
		return "array-to-cell"
	case ArrayToStruct:
		return "array-to-struct"
	case ListSegLink:
		return "list-seg-link"
	case DLLSegLink:
		return "dll-seg-link"
	default:
		panic("unreachable")
	}
}

// Edge is one directed link between two rendered coordinates. SrcField
// carries the field or element path on panel sources; serializers derive
// ports from it.
type Edge struct {
	Kind     EdgeKind
	Src      Coord
	SrcField string
	Dst      Coord
	DstField string
	Label    string
	Color    Color
}
