package xtree

import (
	"bytes"
	"strings"
)

// Attr is one element attribute. Attributes keep their insertion order; the
// writer never sorts them.
type Attr struct {
	Key   string
	Value string
}

// Elem is one node of a tagged tree document.
type Elem struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Elem
}

// New returns a root element with the given tag.
func New(tag string) *Elem {
	return &Elem{Tag: tag}
}

// Attr appends an attribute and returns the element for chaining.
func (e *Elem) Attr(key, value string) *Elem {
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// Child appends a new child element and returns the child.
func (e *Elem) Child(tag string) *Elem {
	c := &Elem{Tag: tag}
	e.Children = append(e.Children, c)
	return c
}

// Marshal serializes the tree as indented XML text.
func (e *Elem) Marshal() []byte {
	var buf bytes.Buffer
	e.write(&buf, 0)
	return buf.Bytes()
}

func (e *Elem) String() string {
	return string(e.Marshal())
}

func (e *Elem) write(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		writeEscaped(buf, a.Value)
		buf.WriteByte('"')
	}

	if len(e.Children) == 0 && e.Text == "" {
		buf.WriteString("/>\n")
		return
	}

	buf.WriteByte('>')
	if len(e.Children) == 0 {
		writeEscaped(buf, e.Text)
		buf.WriteString("</" + e.Tag + ">\n")
		return
	}

	buf.WriteByte('\n')
	if e.Text != "" {
		buf.WriteString(indent + "  ")
		writeEscaped(buf, e.Text)
		buf.WriteByte('\n')
	}
	for _, c := range e.Children {
		c.write(buf, depth+1)
	}
	buf.WriteString(indent + "</" + e.Tag + ">\n")
}

func writeEscaped(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
}
