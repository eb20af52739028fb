// Package generator turns a parsed header into C++ wrapper declarations.
package generator

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"text/template"

	"gitlab.com/tozd/go/errors"

	"github.com/ardanlabs/vkwrap/classify"
	"github.com/ardanlabs/vkwrap/config"
	"github.com/ardanlabs/vkwrap/diag"
	"github.com/ardanlabs/vkwrap/naming"
	"github.com/ardanlabs/vkwrap/parser"
	"github.com/ardanlabs/vkwrap/registry"
)

type Generator struct {
	tables     *config.Tables
	classifier *classify.Classifier
	rewriter   naming.Rewriter
}

func New(tables *config.Tables) *Generator {
	return &Generator{
		tables:     tables,
		classifier: classify.New(tables),
		rewriter: naming.Rewriter{
			BitMarker:   tables.Emit.BitMarker,
			VendorWords: tables.VendorWords(),
			DigitPrefix: tables.Emit.DigitPrefix,
		},
	}
}

// Result is the output of one translation unit. Report holds every
// non-fatal condition met while parsing and emitting.
type Result struct {
	Output  string
	Report  diag.Report
	Enums   int
	Structs int
}

// GenerateSource parses src and generates its wrappers.
func (g *Generator) GenerateSource(ctx context.Context, src []byte) (*Result, error) {
	unit, err := parser.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, unit)
}

func (g *Generator) Generate(ctx context.Context, unit *parser.Unit) (*Result, error) {
	if unit == nil {
		return nil, errors.New("nil translation unit")
	}

	res := &Result{}
	res.Report.Merge(unit.Report)

	in := registry.Input{}
	if tagEnum, ok := unit.Enum(g.tables.Record.TagType); ok {
		for _, v := range tagEnum.Values {
			in.Tags = append(in.Tags, v.Name)
		}
	}
	for _, s := range unit.Structs {
		if g.tables.HasPrefix(s.Name) && !g.tables.StructBlacklisted(s.Name) {
			in.Structs = append(in.Structs, s)
		}
	}
	for _, e := range unit.Enums {
		if g.tables.HasPrefix(e.Name) && !g.tables.EnumBlacklisted(e.Name) {
			in.Enums = append(in.Enums, e)
		}
	}

	reg, report := registry.New(g.tables, g.classifier, in)
	res.Report.Merge(report)

	var decls []string
	for _, e := range reg.Enums() {
		decls = append(decls, g.emitEnum(e, &res.Report))
		res.Enums++
	}
	for _, s := range reg.Structs() {
		decls = append(decls, g.emitRecord(reg, s, &res.Report))
		res.Structs++
	}
	res.Output = strings.Join(decls, "\n")

	slog.DebugContext(ctx, "generated wrappers",
		"enums", res.Enums,
		"structs", res.Structs,
		"filtered_out", len(unit.Structs)+len(unit.Enums)-len(in.Structs)-len(in.Enums),
		"tags", len(in.Tags),
	)
	return res, nil
}

const preambleTmpl = `// Code generated by vkwrap from {{.Source}}. DO NOT EDIT.

#pragma once

{{range .Includes}}#include <{{.}}>
{{end}}
`

// RenderPreamble renders the file header placed before the declarations.
func RenderPreamble(source string, tables *config.Tables) (string, error) {
	t, err := template.New("preamble").Parse(preambleTmpl)
	if err != nil {
		return "", errors.Errorf("parsing preamble template: %w", err)
	}

	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]any{
		"Source":   source,
		"Includes": tables.Emit.Includes,
	})
	if err != nil {
		return "", errors.Errorf("rendering preamble: %w", err)
	}

	return buf.String(), nil
}
