package heap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrUnknownCellKind is returned when a JSON cell carries an
	// unrecognized "kind" tag.
	ErrUnknownCellKind = errors.New("unknown cell kind")

	// ErrUnknownContentKind is returned when JSON content carries an
	// unrecognized "kind" tag.
	ErrUnknownContentKind = errors.New("unknown content kind")

	// ErrUnknownAtomKind is returned when a JSON pure atom carries an
	// unrecognized "kind" tag.
	ErrUnknownAtomKind = errors.New("unknown atom kind")
)

type propJSON struct {
	Label string     `json:"label,omitempty"`
	Cells []cellJSON `json:"cells"`
	Pure  []atomJSON `json:"pure,omitempty"`
}

type batchJSON struct {
	Props []propJSON `json:"props"`
}

type cellJSON struct {
	Kind      string       `json:"kind"`
	Addr      string       `json:"addr,omitempty"`
	Type      string       `json:"type,omitempty"`
	Value     *contentJSON `json:"value,omitempty"`
	Fields    []fieldJSON  `json:"fields,omitempty"`
	Size      string       `json:"size,omitempty"`
	Elems     []elemJSON   `json:"elems,omitempty"`
	Seg       string       `json:"seg,omitempty"`
	First     string       `json:"first,omitempty"`
	Last      string       `json:"last,omitempty"`
	FirstPrev string       `json:"first_prev,omitempty"`
	LastNext  string       `json:"last_next,omitempty"`
	Body      []cellJSON   `json:"body,omitempty"`
}

type contentJSON struct {
	Kind   string      `json:"kind"`
	Target string      `json:"target,omitempty"`
	Fields []fieldJSON `json:"fields,omitempty"`
	Elems  []elemJSON  `json:"elems,omitempty"`
}

type fieldJSON struct {
	Name  string      `json:"name"`
	Value contentJSON `json:"value"`
}

type elemJSON struct {
	Index string      `json:"index"`
	Value contentJSON `json:"value"`
}

type atomJSON struct {
	Kind  string `json:"kind"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// ReadProp decodes a single proposition from r.
//
// The input is a JSON object with a "cells" array, an optional "label", and
// an optional "pure" array. Each cell has a "kind" tag selecting the
// variant: "pointsto", "struct", "array", "listseg", or "dllseg". Segment
// cells nest their body heap as a "body" array of cells.
//
// ReadProp returns an error if the JSON is malformed or any kind tag is
// unknown. Errors are wrapped with the index of the offending cell or atom.
func ReadProp(r io.Reader) (*Prop, error) {
	var data propJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return propFromJSON(data)
}

// ReadBatch decodes a batch of propositions from r. The input is a JSON
// object with a "props" array of proposition objects.
func ReadBatch(r io.Reader) ([]*Prop, error) {
	var data batchJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	props := make([]*Prop, len(data.Props))
	for i, pj := range data.Props {
		p, err := propFromJSON(pj)
		if err != nil {
			return nil, fmt.Errorf("prop %d: %w", i, err)
		}
		props[i] = p
	}
	return props, nil
}

// ImportFile reads path and decodes its propositions. A file holding a
// single proposition object (no "props" wrapper) yields a one-element slice.
func ImportFile(path string) ([]*Prop, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var wrapper struct {
		Props []json.RawMessage `json:"props"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Props != nil {
		props := make([]*Prop, len(wrapper.Props))
		for i, msg := range wrapper.Props {
			var pj propJSON
			if err := json.Unmarshal(msg, &pj); err != nil {
				return nil, fmt.Errorf("%s: prop %d: %w", path, i, err)
			}
			p, err := propFromJSON(pj)
			if err != nil {
				return nil, fmt.Errorf("%s: prop %d: %w", path, i, err)
			}
			props[i] = p
		}
		return props, nil
	}

	var pj propJSON
	if err := json.Unmarshal(raw, &pj); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p, err := propFromJSON(pj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []*Prop{p}, nil
}

// WriteProp encodes a single proposition to w as indented JSON.
func WriteProp(p *Prop, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(propToJSON(p)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes propositions to path in the batch wire format, so the
// file round-trips through ImportFile.
func ExportFile(path string, props []*Prop) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteBatch(props, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteBatch encodes a batch of propositions to w as indented JSON.
func WriteBatch(props []*Prop, w io.Writer) error {
	out := batchJSON{Props: make([]propJSON, len(props))}
	for i, p := range props {
		out.Props[i] = propToJSON(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func propFromJSON(pj propJSON) (*Prop, error) {
	p := &Prop{Label: pj.Label}
	for i, cj := range pj.Cells {
		c, err := cellFromJSON(cj)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		p.Cells = append(p.Cells, c)
	}
	for i, aj := range pj.Pure {
		a, err := atomFromJSON(aj)
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}
		p.Pure = append(p.Pure, a)
	}
	return p, nil
}

func cellFromJSON(cj cellJSON) (Cell, error) {
	switch cj.Kind {
	case "pointsto":
		value, err := contentFromJSON(cj.Value)
		if err != nil {
			return nil, err
		}
		return PointsTo{Addr: ParseExpr(cj.Addr), Value: value, Type: cj.Type}, nil
	case "struct":
		fields, err := fieldsFromJSON(cj.Fields)
		if err != nil {
			return nil, err
		}
		return StructCell{Addr: ParseExpr(cj.Addr), Fields: fields, Type: cj.Type}, nil
	case "array":
		elems, err := elemsFromJSON(cj.Elems)
		if err != nil {
			return nil, err
		}
		return ArrayCell{Addr: ParseExpr(cj.Addr), Size: ParseExpr(cj.Size), Elems: elems, Type: cj.Type}, nil
	case "listseg":
		body, err := bodyFromJSON(cj.Body)
		if err != nil {
			return nil, err
		}
		return ListSeg{Kind: segKindFromJSON(cj.Seg), First: ParseExpr(cj.First), Last: ParseExpr(cj.Last), Body: body}, nil
	case "dllseg":
		body, err := bodyFromJSON(cj.Body)
		if err != nil {
			return nil, err
		}
		return DLLSeg{
			Kind:      segKindFromJSON(cj.Seg),
			First:     ParseExpr(cj.First),
			Last:      ParseExpr(cj.Last),
			FirstPrev: ParseExpr(cj.FirstPrev),
			LastNext:  ParseExpr(cj.LastNext),
			Body:      body,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCellKind, cj.Kind)
	}
}

func bodyFromJSON(cjs []cellJSON) ([]Cell, error) {
	var body []Cell
	for i, cj := range cjs {
		c, err := cellFromJSON(cj)
		if err != nil {
			return nil, fmt.Errorf("body cell %d: %w", i, err)
		}
		body = append(body, c)
	}
	return body, nil
}

func contentFromJSON(cj *contentJSON) (Content, error) {
	if cj == nil {
		return Scalar{Target: Nil}, nil
	}
	switch cj.Kind {
	case "scalar", "":
		return Scalar{Target: ParseExpr(cj.Target)}, nil
	case "record":
		fields, err := fieldsFromJSON(cj.Fields)
		if err != nil {
			return nil, err
		}
		return Record{Fields: fields}, nil
	case "sequence":
		elems, err := elemsFromJSON(cj.Elems)
		if err != nil {
			return nil, err
		}
		return Sequence{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentKind, cj.Kind)
	}
}

func fieldsFromJSON(fjs []fieldJSON) ([]Field, error) {
	var fields []Field
	for _, fj := range fjs {
		v := fj.Value
		value, err := contentFromJSON(&v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fj.Name, err)
		}
		fields = append(fields, Field{Name: fj.Name, Value: value})
	}
	return fields, nil
}

func elemsFromJSON(ejs []elemJSON) ([]SeqElem, error) {
	var elems []SeqElem
	for i, ej := range ejs {
		v := ej.Value
		value, err := contentFromJSON(&v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems = append(elems, SeqElem{Index: ParseExpr(ej.Index), Value: value})
	}
	return elems, nil
}

func atomFromJSON(aj atomJSON) (Atom, error) {
	l, r := ParseExpr(aj.Left), ParseExpr(aj.Right)
	switch aj.Kind {
	case "eq":
		return Eq{L: l, R: r}, nil
	case "ne":
		return Ne{L: l, R: r}, nil
	case "lt":
		return Lt{L: l, R: r}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAtomKind, aj.Kind)
	}
}

func segKindFromJSON(s string) SegKind {
	if s == "PE" {
		return SegPE
	}
	return SegNE
}

func propToJSON(p *Prop) propJSON {
	out := propJSON{Label: p.Label, Cells: make([]cellJSON, len(p.Cells))}
	for i, c := range p.Cells {
		out.Cells[i] = cellToJSON(c)
	}
	for _, a := range p.Pure {
		out.Pure = append(out.Pure, atomToJSON(a))
	}
	return out
}

func cellToJSON(c Cell) cellJSON {
	switch c := c.(type) {
	case PointsTo:
		v := contentToJSON(c.Value)
		return cellJSON{Kind: "pointsto", Addr: c.Addr.String(), Type: c.Type, Value: &v}
	case StructCell:
		return cellJSON{Kind: "struct", Addr: c.Addr.String(), Type: c.Type, Fields: fieldsToJSON(c.Fields)}
	case ArrayCell:
		return cellJSON{Kind: "array", Addr: c.Addr.String(), Type: c.Type, Size: c.Size.String(), Elems: elemsToJSON(c.Elems)}
	case ListSeg:
		return cellJSON{Kind: "listseg", Seg: c.Kind.String(), First: c.First.String(), Last: c.Last.String(), Body: bodyToJSON(c.Body)}
	case DLLSeg:
		return cellJSON{
			Kind:      "dllseg",
			Seg:       c.Kind.String(),
			First:     c.First.String(),
			Last:      c.Last.String(),
			FirstPrev: c.FirstPrev.String(),
			LastNext:  c.LastNext.String(),
			Body:      bodyToJSON(c.Body),
		}
	default:
		panic("unreachable")
	}
}

func bodyToJSON(body []Cell) []cellJSON {
	out := make([]cellJSON, len(body))
	for i, c := range body {
		out[i] = cellToJSON(c)
	}
	return out
}

func contentToJSON(c Content) contentJSON {
	switch c := c.(type) {
	case Scalar:
		return contentJSON{Kind: "scalar", Target: c.Target.String()}
	case Record:
		return contentJSON{Kind: "record", Fields: fieldsToJSON(c.Fields)}
	case Sequence:
		return contentJSON{Kind: "sequence", Elems: elemsToJSON(c.Elems)}
	default:
		panic("unreachable")
	}
}

func fieldsToJSON(fields []Field) []fieldJSON {
	out := make([]fieldJSON, len(fields))
	for i, f := range fields {
		out[i] = fieldJSON{Name: f.Name, Value: contentToJSON(f.Value)}
	}
	return out
}

func elemsToJSON(elems []SeqElem) []elemJSON {
	out := make([]elemJSON, len(elems))
	for i, e := range elems {
		out[i] = elemJSON{Index: e.Index.String(), Value: contentToJSON(e.Value)}
	}
	return out
}

func atomToJSON(a Atom) atomJSON {
	switch a := a.(type) {
	case Eq:
		return atomJSON{Kind: "eq", Left: a.L.String(), Right: a.R.String()}
	case Ne:
		return atomJSON{Kind: "ne", Left: a.L.String(), Right: a.R.String()}
	case Lt:
		return atomJSON{Kind: "lt", Left: a.L.String(), Right: a.R.String()}
	default:
		panic("unreachable")
	}
}
