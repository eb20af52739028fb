// Package emitter is an indentation-aware text builder for generated
// C++ source.
package emitter

import (
	"bytes"
	"fmt"
	"strings"
)

type Builder struct {
	buf    bytes.Buffer
	indent string
	depth  int
}

// New returns a builder that indents each scope level by indent.
func New(indent string) *Builder {
	return &Builder{indent: indent}
}

// Line writes s on its own line at the current depth. An empty s writes a
// blank line without indentation.
func (b *Builder) Line(s string) {
	if s != "" {
		b.buf.WriteString(strings.Repeat(b.indent, b.depth))
		b.buf.WriteString(s)
	}
	b.buf.WriteByte('\n')
}

func (b *Builder) Linef(format string, args ...any) {
	b.Line(fmt.Sprintf(format, args...))
}

func (b *Builder) Blank() {
	b.buf.WriteByte('\n')
}

// Scope writes "header {", runs body one level deeper and closes with
// "}" or "};".
func (b *Builder) Scope(header string, semicolon bool, body func()) {
	b.Line(header + " {")
	b.depth++
	body()
	b.depth--
	if semicolon {
		b.Line("};")
	} else {
		b.Line("}")
	}
}

func (b *Builder) String() string {
	return b.buf.String()
}
