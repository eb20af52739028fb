package generator

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/vkwrap/classify"
	"github.com/ardanlabs/vkwrap/diag"
	"github.com/ardanlabs/vkwrap/emitter"
	"github.com/ardanlabs/vkwrap/naming"
	"github.com/ardanlabs/vkwrap/parser"
	"github.com/ardanlabs/vkwrap/registry"
)

// member is one wrapper field and the raw field it rebuilds.
type member struct {
	field parser.Field
	name  string
	decl  string
}

func (g *Generator) members(reg *registry.Registry, s *registry.Struct) []member {
	fields := s.Fields
	if s.Variant == classify.ExtensibleRecord {
		fields = fields[2:]
	}

	used := make(map[string]bool, len(fields))
	out := make([]member, 0, len(fields))
	for i, f := range fields {
		name := naming.FieldName(f.Name, g.tables.Emit.PointerMarker)
		if used[name] {
			name = naming.CamelToSnake(f.Name)
		}
		if used[name] {
			base := name
			for n := i; used[name]; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
			}
		}
		used[name] = true

		out = append(out, member{
			field: f,
			name:  name,
			decl:  fmt.Sprintf("%s %s%s;", g.fieldType(reg, f), name, f.DimsSuffix()),
		})
	}
	return out
}

// fieldType spells the wrapper type of f. Pointers keep the raw type;
// everything else goes through the registry.
func (g *Generator) fieldType(reg *registry.Registry, f parser.Field) string {
	if f.IsPointer() {
		t := f.BaseType + strings.Repeat("*", f.Pointers)
		if f.Const {
			t = "const " + t
		}
		return t
	}
	return reg.ResolveType(f.BaseType)
}

// value converts a wrapper member back to its raw field value.
func (g *Generator) value(reg *registry.Registry, m member) string {
	if m.field.IsPointer() || m.field.IsArray() {
		return m.name
	}
	return reg.CastExpression(m.field.BaseType, m.name)
}

func (g *Generator) emitRecord(reg *registry.Registry, s *registry.Struct, report *diag.Report) string {
	emit := g.tables.Emit
	members := g.members(reg, s)

	var inits []string
	if s.Variant == classify.ExtensibleRecord {
		tag, ok := reg.TagConstant(s.NewName)
		if !ok {
			report.Add(diag.UnresolvedTag, s.Name, "no "+g.tables.Record.TagType+" value matches, using "+tag, s.Line)
		}
		inits = append(inits,
			fmt.Sprintf(".%s = %s", s.Fields[0].Name, tag),
			fmt.Sprintf(".%s = %s", s.Fields[1].Name, emit.NullPointer),
		)
	}
	for _, m := range members {
		inits = append(inits, fmt.Sprintf(".%s = %s", m.field.Name, g.value(reg, m)))
	}

	b := emitter.New(emit.Indent)
	b.Scope("struct "+s.NewName, true, func() {
		for _, m := range members {
			b.Line(m.decl)
		}
		if len(members) > 0 {
			b.Blank()
		}
		b.Scope(fmt.Sprintf("%s %s()", s.Name, emit.RawMethod), false, func() {
			b.Scope("return "+s.Name, true, func() {
				for i, init := range inits {
					if i < len(inits)-1 {
						init += ","
					}
					b.Line(init)
				}
			})
		})
	})
	return b.String()
}
