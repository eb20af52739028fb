// Package registry indexes the declarations that will be emitted and
// answers the type questions the emitter asks while writing fields.
package registry

import (
	"fmt"
	"sort"

	"github.com/ardanlabs/vkwrap/classify"
	"github.com/ardanlabs/vkwrap/config"
	"github.com/ardanlabs/vkwrap/diag"
	"github.com/ardanlabs/vkwrap/naming"
	"github.com/ardanlabs/vkwrap/parser"
)

const (
	flagBitsWord = "FlagBits"
	flagsWord    = "Flags"
)

type Struct struct {
	parser.Struct
	Variant classify.Variant
	NewName string
}

type Enum struct {
	parser.Enum
	Variant classify.Variant
	NewName string
}

// Input is the filtered declaration set. Tags are the enumerator names of
// the record tag enum, taken before filtering.
type Input struct {
	Structs []parser.Struct
	Enums   []parser.Enum
	Tags    []string
}

// Registry is built once and then only read.
type Registry struct {
	tables  *config.Tables
	structs map[string]*Struct
	enums   map[string]*Enum
	aliases map[string]string
	tags    map[string]struct{}

	structOrder []string
	enumOrder   []string
}

func New(tables *config.Tables, c *classify.Classifier, in Input) (*Registry, diag.Report) {
	var report diag.Report

	r := &Registry{
		tables:  tables,
		structs: make(map[string]*Struct, len(in.Structs)),
		enums:   make(map[string]*Enum, len(in.Enums)),
		aliases: make(map[string]string),
		tags:    make(map[string]struct{}, len(in.Tags)),
	}

	for _, e := range in.Enums {
		if _, ok := r.enums[e.Name]; ok {
			continue
		}
		v := c.Enum(e)
		newName := naming.StripPrefix(e.Name, tables.Prefix)
		if v == classify.BitFlags {
			newName = naming.FlagsName(newName, flagBitsWord, flagsWord)
			if alias := naming.FlagsName(e.Name, flagBitsWord, flagsWord); alias != e.Name {
				r.aliases[alias] = e.Name
			}
		}
		r.enums[e.Name] = &Enum{Enum: e, Variant: v, NewName: newName}
		r.enumOrder = append(r.enumOrder, e.Name)
	}

	for _, s := range in.Structs {
		if _, ok := r.structs[s.Name]; ok {
			continue
		}
		v, ambiguous := c.Struct(s)
		if ambiguous {
			report.Add(diag.AmbiguousClassification, s.Name,
				fmt.Sprintf("name suggests %s, shape gives %s", c.Classify(s.Name), v), s.Line)
		}
		r.structs[s.Name] = &Struct{
			Struct:  s,
			Variant: v,
			NewName: naming.StripPrefix(s.Name, tables.Prefix),
		}
		r.structOrder = append(r.structOrder, s.Name)
	}

	for _, t := range in.Tags {
		r.tags[t] = struct{}{}
	}

	sort.Strings(r.structOrder)
	sort.Strings(r.enumOrder)
	return r, report
}

// ResolveType maps an original type name to the name used in the
// wrapper. Unknown names pass through unchanged.
func (r *Registry) ResolveType(name string) string {
	if e, ok := r.enums[name]; ok {
		return e.NewName
	}
	if s, ok := r.structs[name]; ok {
		return s.NewName
	}
	if target, ok := r.aliases[name]; ok {
		return r.enums[target].NewName
	}
	if p, ok := r.tables.Primitive(name); ok {
		return p
	}
	return name
}

// CastExpression converts the wrapper expression expr back to the raw
// type name.
func (r *Registry) CastExpression(name, expr string) string {
	_, isEnum := r.enums[name]
	_, isAlias := r.aliases[name]
	switch {
	case isEnum || isAlias:
		return fmt.Sprintf("static_cast<%s>(%s)", name, expr)
	case r.structs[name] != nil:
		return fmt.Sprintf("%s.%s()", expr, r.tables.Emit.RawMethod)
	case r.tables.IsBool(name):
		return fmt.Sprintf("static_cast<%s>(%s)", name, expr)
	}
	return expr
}

// Structs returns the registered structs ordered by original name.
func (r *Registry) Structs() []*Struct {
	out := make([]*Struct, 0, len(r.structOrder))
	for _, n := range r.structOrder {
		out = append(out, r.structs[n])
	}
	return out
}

// Enums returns the registered enums ordered by original name.
func (r *Registry) Enums() []*Enum {
	out := make([]*Enum, 0, len(r.enumOrder))
	for _, n := range r.enumOrder {
		out = append(out, r.enums[n])
	}
	return out
}

func (r *Registry) Struct(name string) (*Struct, bool) {
	s, ok := r.structs[name]
	return s, ok
}

func (r *Registry) Enum(name string) (*Enum, bool) {
	e, ok := r.enums[name]
	return e, ok
}

// TagConstant derives the tag enumerator for a record from its wrapper
// name. ok is false when tags are known but none matches; the first
// candidate is returned anyway.
func (r *Registry) TagConstant(newName string) (tag string, ok bool) {
	candidates := naming.TagCandidates(newName)
	if len(candidates) == 0 {
		return r.tables.Record.TagPrefix, len(r.tags) == 0
	}
	for i := range candidates {
		candidates[i] = r.tables.Record.TagPrefix + candidates[i]
	}
	if len(r.tags) == 0 {
		return candidates[0], true
	}
	for _, c := range candidates {
		if _, found := r.tags[c]; found {
			return c, true
		}
	}
	return candidates[0], false
}
