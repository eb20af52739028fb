// Package parser extracts struct and enum declarations from C header text
// using the tree-sitter C grammar.
package parser

import (
	"bytes"
	"context"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"gitlab.com/tozd/go/errors"

	"github.com/ardanlabs/vkwrap/diag"
)

// ErrUnparseable is returned when the input yields no usable syntax tree.
var ErrUnparseable = errors.Base("unparseable header")

func Parse(ctx context.Context, src []byte) (*Unit, error) {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrUnparseable, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Type() == "ERROR" {
		return nil, errors.WithStack(ErrUnparseable)
	}
	if len(bytes.TrimSpace(src)) > 0 && allErrors(root) {
		return nil, errors.WithDetails(
			errors.Errorf("%w: no top-level declaration recognized", ErrUnparseable),
			"line", int(root.StartPoint().Row)+1,
		)
	}

	w := walker{src: src}
	d := w.visit(root)
	if root.HasError() && d.report.Count(diag.SyntaxError) == 0 {
		d.report.Add(diag.SyntaxError, "translation unit", "recovered from missing tokens", 0)
	}

	unit := &Unit{}
	unit.Report.Merge(d.report)
	unit.Structs = dedupe(d.structs, func(s Struct) (string, int) { return s.Name, s.Line }, &unit.Report)
	unit.Enums = dedupe(d.enums, func(e Enum) (string, int) { return e.Name, e.Line }, &unit.Report)
	return unit, nil
}

func ParseFile(ctx context.Context, path string) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading header %s: %w", path, err)
	}
	unit, err := Parse(ctx, src)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	return unit, nil
}

func allErrors(root *sitter.Node) bool {
	n := int(root.NamedChildCount())
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if root.NamedChild(i).Type() != "ERROR" {
			return false
		}
	}
	return true
}

// dedupe keeps the first declaration of every name.
func dedupe[T any](in []T, key func(T) (string, int), report *diag.Report) []T {
	seen := make(map[string]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		name, line := key(v)
		if _, ok := seen[name]; ok {
			report.Add(diag.DuplicateDeclaration, name, "later declaration ignored", line)
			continue
		}
		seen[name] = struct{}{}
		out = append(out, v)
	}
	return out
}

// decls is what one subtree contributes.
type decls struct {
	structs []Struct
	enums   []Enum
	report  diag.Report
}

func (d *decls) merge(o decls) {
	d.structs = append(d.structs, o.structs...)
	d.enums = append(d.enums, o.enums...)
	d.report.Merge(o.report)
}

type walker struct {
	src []byte
}

func (w walker) visit(n *sitter.Node) decls {
	var d decls

	switch n.Type() {
	case "struct_specifier":
		return w.structSpecifier(n, "")
	case "enum_specifier":
		return w.enumSpecifier(n, "")
	case "type_definition":
		return w.typeDefinition(n)
	case "ERROR":
		d.report.Add(diag.SyntaxError, "ERROR", w.snippet(n), line(n))
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		d.merge(w.visit(n.NamedChild(i)))
	}
	return d
}

// typeDefinition hands the typedef name to an anonymous struct or enum.
func (w walker) typeDefinition(n *sitter.Node) decls {
	spec := n.ChildByFieldName("type")
	if spec == nil {
		return decls{}
	}

	var alias string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() == "type_identifier" {
			alias = ch.Content(w.src)
			break
		}
	}

	switch spec.Type() {
	case "struct_specifier":
		return w.structSpecifier(spec, alias)
	case "enum_specifier":
		return w.enumSpecifier(spec, alias)
	}
	return decls{}
}

func (w walker) structSpecifier(n *sitter.Node, alias string) decls {
	var d decls

	body := n.ChildByFieldName("body")
	if body == nil {
		return d
	}
	name := w.name(n, alias)
	if name == "" {
		d.report.Add(diag.SkippedStruct, "", "struct body without a name", line(n))
		return d
	}

	s := Struct{Name: name, Line: line(n)}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		switch ch.Type() {
		case "field_declaration":
			fields, rep := w.fieldDeclaration(name, ch)
			s.Fields = append(s.Fields, fields...)
			d.report.Merge(rep)
		case "ERROR":
			d.report.Add(diag.SyntaxError, name, w.snippet(ch), line(ch))
		}
	}
	d.structs = append(d.structs, s)
	return d
}

func (w walker) enumSpecifier(n *sitter.Node, alias string) decls {
	var d decls

	body := n.ChildByFieldName("body")
	if body == nil {
		return d
	}
	name := w.name(n, alias)
	if name == "" {
		d.report.Add(diag.SkippedEnum, "", "enum body without a name", line(n))
		return d
	}

	e := Enum{Name: name, Line: line(n)}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		ch := body.NamedChild(i)
		switch ch.Type() {
		case "enumerator":
			nameNode := ch.ChildByFieldName("name")
			if nameNode == nil {
				d.report.Add(diag.SkippedEnumerator, name, "enumerator without a name", line(ch))
				continue
			}
			v := EnumValue{Name: nameNode.Content(w.src)}
			if value := ch.ChildByFieldName("value"); value != nil {
				v.Literal = collapse(value.Content(w.src))
			}
			e.Values = append(e.Values, v)
		case "ERROR":
			d.report.Add(diag.SyntaxError, name, w.snippet(ch), line(ch))
		}
	}
	d.enums = append(d.enums, e)
	return d
}

func (w walker) name(n *sitter.Node, alias string) string {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		return nameNode.Content(w.src)
	}
	return alias
}

func (w walker) snippet(n *sitter.Node) string {
	s := collapse(n.Content(w.src))
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// collapse squeezes runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
