package generator

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/vkwrap/classify"
	"github.com/ardanlabs/vkwrap/diag"
	"github.com/ardanlabs/vkwrap/emitter"
	"github.com/ardanlabs/vkwrap/naming"
	"github.com/ardanlabs/vkwrap/registry"
)

type enumerator struct {
	name     string
	original string
}

// enumerators renames the values of e. The first value to claim a name
// keeps it.
func (g *Generator) enumerators(e *registry.Enum, report *diag.Report) []enumerator {
	names := make([]string, len(e.Values))
	for i, v := range e.Values {
		names[i] = v.Name
	}
	prefixLen := g.fitPrefix(names, naming.CommonPrefixLen(names))

	kept := make([]enumerator, 0, len(e.Values))
	owner := make(map[string]string, len(e.Values))
	for _, v := range e.Values {
		name := g.rewriter.EnumValue(v.Name, prefixLen)
		if name == "" {
			report.Add(diag.SkippedEnumerator, e.Name, v.Name+" has nothing left after renaming", e.Line)
			continue
		}
		if first, ok := owner[name]; ok {
			report.Add(diag.DuplicateEnumerator, e.Name, fmt.Sprintf("%s collapses into %s", v.Name, first), e.Line)
			continue
		}
		owner[name] = v.Name
		kept = append(kept, enumerator{name: name, original: v.Name})
	}
	return kept
}

// fitPrefix shortens prefixLen to an earlier "_" boundary until no name
// is consumed by it entirely.
func (g *Generator) fitPrefix(names []string, prefixLen int) int {
	for prefixLen > 0 {
		short := ""
		for _, n := range names {
			if g.rewriter.EnumValue(n, prefixLen) == "" {
				short = n
				break
			}
		}
		if short == "" {
			return prefixLen
		}
		end := min(prefixLen, len(short))
		if end == 0 {
			return 0
		}
		prefixLen = strings.LastIndexByte(short[:end-1], '_') + 1
	}
	return 0
}

func (g *Generator) emitEnum(e *registry.Enum, report *diag.Report) string {
	emit := g.tables.Emit
	values := g.enumerators(e, report)

	b := emitter.New(emit.Indent)
	b.Scope(fmt.Sprintf("enum class %s : %s", e.NewName, emit.EnumUnderlying), true, func() {
		for i, v := range values {
			sep := ","
			if i == len(values)-1 {
				sep = ""
			}
			b.Linef("%s = %s%s", v.name, v.original, sep)
		}
	})
	if e.Variant == classify.BitFlags && emit.BitmaskMacro != "" {
		b.Linef("%s(%s);", emit.BitmaskMacro, e.NewName)
	}
	return b.String()
}
