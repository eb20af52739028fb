// Package classify sorts type names and declarations into the variants
// that decide how they are emitted.
package classify

import (
	"github.com/ardanlabs/vkwrap/config"
	"github.com/ardanlabs/vkwrap/parser"
)

type Variant int

const (
	Foreign Variant = iota
	Primitive
	Bool
	BitFlags
	PlainEnum
	ExtensibleRecord
	PlainRecord
	PlainOther
)

var variantNames = [...]string{
	Foreign:          "Foreign",
	Primitive:        "Primitive",
	Bool:             "Bool",
	BitFlags:         "BitFlags",
	PlainEnum:        "PlainEnum",
	ExtensibleRecord: "ExtensibleRecord",
	PlainRecord:      "PlainRecord",
	PlainOther:       "PlainOther",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "Variant(?)"
	}
	return variantNames[v]
}

type Classifier struct {
	tables *config.Tables
}

func New(tables *config.Tables) *Classifier {
	return &Classifier{tables: tables}
}

// Classify decides the variant of a bare type name from the tables alone.
func (c *Classifier) Classify(name string) Variant {
	t := c.tables
	if t.IsBool(name) {
		return Bool
	}
	if _, ok := t.Primitive(name); ok {
		return Primitive
	}
	if !t.HasPrefix(name) {
		return Foreign
	}
	if _, ok := t.FlagEnding(name); ok {
		return BitFlags
	}
	if _, ok := t.RecordEnding(name); ok {
		return ExtensibleRecord
	}
	return PlainOther
}

// Enum decides between BitFlags and PlainEnum by name.
func (c *Classifier) Enum(e parser.Enum) Variant {
	if _, ok := c.tables.FlagEnding(e.Name); ok {
		return BitFlags
	}
	return PlainEnum
}

// Struct decides between ExtensibleRecord and PlainRecord by the shape of
// the first two fields. ambiguous is set when the name suggests the other
// answer.
func (c *Classifier) Struct(s parser.Struct) (v Variant, ambiguous bool) {
	v = PlainRecord
	if c.hasTagPair(s) {
		v = ExtensibleRecord
	}
	byName := c.Classify(s.Name) == ExtensibleRecord
	return v, byName != (v == ExtensibleRecord)
}

func (c *Classifier) hasTagPair(s parser.Struct) bool {
	if len(s.Fields) < 2 {
		return false
	}
	rec := c.tables.Record
	tag, next := s.Fields[0], s.Fields[1]
	if tag.Name != rec.TagField || tag.IsPointer() || tag.IsArray() {
		return false
	}
	if rec.TagType != "" && tag.BaseType != rec.TagType {
		return false
	}
	return next.Name == rec.NextField && next.IsPointer() && !next.IsArray()
}
