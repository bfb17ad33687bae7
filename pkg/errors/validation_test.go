package errors

import (
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"dot", "dot", false},
		{"xml", "xml", false},
		{"svg", "svg", false},
		{"png", "png", false},

		{"empty", "", true},
		{"unknown", "pdf", true},
		{"uppercase", "DOT", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "PRE 0", false},
		{"valid with dash", "post-loop", false},
		{"valid with underscore", "pre_1", false},
		{"valid with dot", "main.entry", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path separator /", "pre/0", true},
		{"path separator \\", "pre\\0", true},
		{"null byte", "pre\x00post", true},
		{"control char", "pre\x01post", true},
		{"newline", "pre\npost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/heap.dot", false},
		{"absolute", "/tmp/heap.svg", false},
		{"plain file", "heap.xml", false},

		{"empty", "", true},
		{"traversal", "out/../../etc/passwd", true},
		{"null byte", "out\x00.dot", true},
		{"control char", "out\x01.dot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
