package parser

import (
	"strings"

	"github.com/ardanlabs/vkwrap/diag"
)

// Field is one member of a struct. TypeName carries the pointer and array
// decoration found by the parser; Pointers and Dims record the same
// information so later stages never re-parse the string.
type Field struct {
	TypeName string
	BaseType string
	Name     string
	Const    bool
	Pointers int
	Dims     []string
	Line     int
}

func (f Field) IsPointer() bool {
	return f.Pointers > 0
}

func (f Field) IsArray() bool {
	return len(f.Dims) > 0
}

// DimsSuffix renders the array dimensions as they appear after a
// declarator, e.g. "[4][2]".
func (f Field) DimsSuffix() string {
	var b strings.Builder
	for _, d := range f.Dims {
		b.WriteString("[")
		b.WriteString(d)
		b.WriteString("]")
	}
	return b.String()
}

type Struct struct {
	Name   string
	Fields []Field
	Line   int
}

// EnumValue is one enumerator. An empty Literal means the value follows
// the previous enumerator implicitly.
type EnumValue struct {
	Name    string
	Literal string
}

type Enum struct {
	Name   string
	Values []EnumValue
	Line   int
}

// Unit is everything extracted from one translation unit.
type Unit struct {
	Structs []Struct
	Enums   []Enum
	Report  diag.Report
}

// Enum returns the first enum declared with the given name.
func (u *Unit) Enum(name string) (Enum, bool) {
	for _, e := range u.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return Enum{}, false
}

func (u *Unit) Struct(name string) (Struct, bool) {
	for _, s := range u.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return Struct{}, false
}
