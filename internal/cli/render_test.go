package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heapviz/heapviz/pkg/config"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to dot", "", []string{"dot"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "dot,xml,svg", []string{"dot", "xml", "svg"}},
		{"png only", "png", []string{"png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "heaps/list.json", "heaps/list"},
		{"explicit without extension", "out/graph", "list.json", "out/graph"},
		{"strip format extension", "out/graph.dot", "list.json", "out/graph"},
		{"strip svg extension", "graph.svg", "list.json", "graph"},
		{"keep unknown extension", "graph.txt", "list.json", "graph.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactBase(t *testing.T) {
	if got := artifactBase("out", 0, 1); got != "out" {
		t.Errorf("single heap: got %q", got)
	}
	if got := artifactBase("out", 2, 5); got != "out_2" {
		t.Errorf("multiple heaps: got %q", got)
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := displayLabel("PRE 0", 3); got != "PRE 0" {
		t.Errorf("displayLabel = %q", got)
	}
	if got := displayLabel("", 3); got != "heap 3" {
		t.Errorf("displayLabel fallback = %q", got)
	}
}

func TestRunRenderWritesFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "heaps.json")
	data := `{"props": [
		{"label": "PRE 0", "cells": [
			{"kind": "pointsto", "addr": "x", "type": "node", "value": {"kind": "scalar", "target": "nil"}}
		]},
		{"label": "POST 0", "cells": [
			{"kind": "pointsto", "addr": "y", "type": "node", "value": {"kind": "scalar", "target": "nil"}}
		]}
	]}`
	if err := os.WriteFile(input, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Disabled = true

	opts := renderOpts{
		output:  filepath.Join(dir, "out"),
		formats: []string{"dot", "xml"},
		index:   -1,
		noCache: true,
	}
	ctx := withLogger(context.Background(), c.Logger)
	if err := c.runRender(ctx, input, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	for _, name := range []string{"out_0.dot", "out_0.xml", "out_1.dot", "out_1.xml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
		if strings.HasSuffix(name, ".dot") && !strings.HasPrefix(string(data), "digraph") {
			t.Errorf("%s should hold DOT text", name)
		}
	}
}

func TestRunRenderSingleIndex(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "heaps.json")
	data := `{"props": [
		{"label": "a", "cells": [{"kind": "pointsto", "addr": "x", "value": {"kind": "scalar", "target": "nil"}}]},
		{"label": "b", "cells": [{"kind": "pointsto", "addr": "y", "value": {"kind": "scalar", "target": "nil"}}]}
	]}`
	if err := os.WriteFile(input, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.Config = config.Default()

	opts := renderOpts{
		output:  filepath.Join(dir, "one"),
		formats: []string{"dot"},
		index:   1,
		noCache: true,
	}
	ctx := withLogger(context.Background(), c.Logger)
	if err := c.runRender(ctx, input, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "one.dot")); err != nil {
		t.Errorf("expected one.dot: %v", err)
	}

	// Out-of-range index fails
	opts.index = 9
	if err := c.runRender(ctx, input, &opts); err == nil {
		t.Error("out-of-range index should fail")
	}
}
