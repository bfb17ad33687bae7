package heap

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleProp = `{
  "label": "PRE 0",
  "cells": [
    {"kind": "pointsto", "addr": "x", "type": "node", "value": {"kind": "scalar", "target": "y"}},
    {"kind": "listseg", "seg": "NE", "first": "y", "last": "nil", "body": [
      {"kind": "pointsto", "addr": "_p", "value": {"kind": "scalar", "target": "_q"}}
    ]}
  ],
  "pure": [
    {"kind": "ne", "left": "x", "right": "nil"}
  ]
}`

func TestReadProp(t *testing.T) {
	p, err := ReadProp(strings.NewReader(sampleProp))
	if err != nil {
		t.Fatalf("ReadProp: %v", err)
	}

	if p.Label != "PRE 0" {
		t.Errorf("label = %q, want %q", p.Label, "PRE 0")
	}
	if len(p.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(p.Cells))
	}
	if len(p.Pure) != 1 {
		t.Fatalf("pure atoms = %d, want 1", len(p.Pure))
	}

	pt, ok := p.Cells[0].(PointsTo)
	if !ok {
		t.Fatalf("cell 0 = %T, want PointsTo", p.Cells[0])
	}
	if pt.Type != "node" {
		t.Errorf("cell 0 type = %q, want node", pt.Type)
	}

	seg, ok := p.Cells[1].(ListSeg)
	if !ok {
		t.Fatalf("cell 1 = %T, want ListSeg", p.Cells[1])
	}
	if seg.Kind != SegNE {
		t.Errorf("segment kind = %v, want SegNE", seg.Kind)
	}
	if !ExprEqual(seg.Last, Nil) {
		t.Errorf("segment last = %v, want nil", seg.Last)
	}
	if len(seg.Body) != 1 {
		t.Fatalf("segment body = %d cells, want 1", len(seg.Body))
	}
	inner := seg.Body[0].(PointsTo)
	if v, ok := inner.Addr.(Var); !ok || v.Kind != VarLogical {
		t.Errorf("body addr = %v, want logical variable", inner.Addr)
	}
}

func TestReadPropUnknownKind(t *testing.T) {
	_, err := ReadProp(strings.NewReader(`{"cells":[{"kind":"magic"}]}`))
	if !errors.Is(err, ErrUnknownCellKind) {
		t.Errorf("err = %v, want ErrUnknownCellKind", err)
	}
}

func TestPropRoundTrip(t *testing.T) {
	p, err := ReadProp(strings.NewReader(sampleProp))
	if err != nil {
		t.Fatalf("ReadProp: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteProp(p, &buf); err != nil {
		t.Fatalf("WriteProp: %v", err)
	}
	p2, err := ReadProp(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}

	if len(p2.Cells) != len(p.Cells) {
		t.Fatalf("cells = %d, want %d", len(p2.Cells), len(p.Cells))
	}
	for i := range p.Cells {
		if CellKey(p.Cells[i]) != CellKey(p2.Cells[i]) {
			t.Errorf("cell %d changed across round trip", i)
		}
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()

	single := filepath.Join(dir, "single.json")
	if err := os.WriteFile(single, []byte(sampleProp), 0644); err != nil {
		t.Fatal(err)
	}
	props, err := ImportFile(single)
	if err != nil {
		t.Fatalf("ImportFile(single): %v", err)
	}
	if len(props) != 1 {
		t.Fatalf("props = %d, want 1", len(props))
	}

	batch := filepath.Join(dir, "batch.json")
	content := `{"props":[` + sampleProp + `,` + sampleProp + `]}`
	if err := os.WriteFile(batch, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	props, err = ImportFile(batch)
	if err != nil {
		t.Fatalf("ImportFile(batch): %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("props = %d, want 2", len(props))
	}
}

func TestExportFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	src, err := ReadProp(strings.NewReader(sampleProp))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "out.json")
	if err := ExportFile(path, []*Prop{src, src}); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	props, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("props = %d, want 2", len(props))
	}
	if props[0].Label != src.Label || len(props[0].Cells) != len(src.Cells) {
		t.Errorf("round trip changed proposition: %+v", props[0])
	}
}
