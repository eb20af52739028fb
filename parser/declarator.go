package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ardanlabs/vkwrap/diag"
)

// shape is what a declarator chain wraps around the base type.
type shape struct {
	name        string
	pointers    int
	dims        []string
	unsupported string
}

var declaratorKinds = map[string]bool{
	"field_identifier":         true,
	"identifier":               true,
	"pointer_declarator":       true,
	"array_declarator":         true,
	"function_declarator":      true,
	"parenthesized_declarator": true,
}

// fieldDeclaration turns one field_declaration into zero or more fields.
// A declaration such as "int a, *b;" yields two.
func (w walker) fieldDeclaration(owner string, n *sitter.Node) ([]Field, diag.Report) {
	var (
		report   diag.Report
		base     string
		isConst  bool
		declared []*sitter.Node
		bitfield bool
		problem  string
	)

	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "type_qualifier":
			if ch.Content(w.src) == "const" {
				isConst = true
			}
		case "primitive_type", "type_identifier", "sized_type_specifier", "macro_type_specifier":
			base = collapse(ch.Content(w.src))
		case "struct_specifier", "union_specifier", "enum_specifier":
			if ch.ChildByFieldName("body") != nil {
				problem = "nested " + strings.TrimSuffix(ch.Type(), "_specifier") + " body"
				continue
			}
			if ch.Type() == "union_specifier" {
				problem = "union member"
				continue
			}
			if nameNode := ch.ChildByFieldName("name"); nameNode != nil {
				base = nameNode.Content(w.src)
			}
		case "bitfield_clause":
			bitfield = true
		case "comment":
		default:
			if declaratorKinds[ch.Type()] {
				declared = append(declared, ch)
			}
		}
	}

	subject := owner
	if len(declared) > 0 {
		subject = owner + "." + w.declaredName(declared[0])
	}
	switch {
	case problem != "":
		report.Add(diag.SkippedField, subject, problem, line(n))
		return nil, report
	case bitfield:
		report.Add(diag.SkippedField, subject, "bit-field", line(n))
		return nil, report
	case base == "":
		report.Add(diag.SkippedField, subject, "missing type", line(n))
		return nil, report
	case len(declared) == 0:
		report.Add(diag.SkippedField, subject, "missing name", line(n))
		return nil, report
	}

	var fields []Field
	for _, dn := range declared {
		sh := w.declarator(dn)
		if sh.unsupported != "" {
			report.Add(diag.SkippedField, owner+"."+sh.name, sh.unsupported, line(dn))
			continue
		}
		if sh.name == "" {
			report.Add(diag.SkippedField, owner, "missing name", line(dn))
			continue
		}
		f := Field{
			BaseType: base,
			Name:     sh.name,
			Const:    isConst,
			Pointers: sh.pointers,
			Dims:     sh.dims,
			Line:     line(dn),
		}
		f.TypeName = base + strings.Repeat("*", f.Pointers) + f.DimsSuffix()
		fields = append(fields, f)
	}
	return fields, report
}

// declarator walks a declarator chain inside out. Array bounds come out
// in source order, so "m[4][2]" gives ["4", "2"].
func (w walker) declarator(n *sitter.Node) shape {
	if n == nil {
		return shape{unsupported: "missing declarator"}
	}

	switch n.Type() {
	case "field_identifier", "identifier":
		return shape{name: n.Content(w.src)}
	case "pointer_declarator":
		sh := w.declarator(n.ChildByFieldName("declarator"))
		sh.pointers++
		return sh
	case "array_declarator":
		sh := w.declarator(n.ChildByFieldName("declarator"))
		var bound string
		if size := n.ChildByFieldName("size"); size != nil {
			bound = collapse(size.Content(w.src))
		}
		sh.dims = append(sh.dims, bound)
		return sh
	case "function_declarator":
		return shape{name: w.declaredName(n), unsupported: "function pointer"}
	case "parenthesized_declarator":
		return shape{name: w.declaredName(n), unsupported: "parenthesized declarator"}
	}
	return shape{name: w.declaredName(n), unsupported: n.Type()}
}

// declaredName finds the identifier buried in a declarator, for
// diagnostics only.
func (w walker) declaredName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "field_identifier", "identifier":
		return n.Content(w.src)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if name := w.declaredName(n.NamedChild(i)); name != "" {
			return name
		}
	}
	return ""
}
