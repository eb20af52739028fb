// Package diag collects the non-fatal conditions met while translating a
// header. Nothing here affects the generated output; the report only
// tells the operator what was left out and why.
package diag

import (
	"fmt"
	"log/slog"
	"sort"
)

type Kind string

const (
	SkippedStruct           Kind = "skipped_struct"
	SkippedEnum             Kind = "skipped_enum"
	SkippedField            Kind = "skipped_field"
	SkippedEnumerator       Kind = "skipped_enumerator"
	DuplicateDeclaration    Kind = "duplicate_declaration"
	DuplicateEnumerator     Kind = "duplicate_enumerator"
	AmbiguousClassification Kind = "ambiguous_classification"
	UnresolvedTag           Kind = "unresolved_tag"
	SyntaxError             Kind = "syntax_error"
)

type Entry struct {
	Kind    Kind
	Subject string
	Detail  string
	Line    int
}

func (e Entry) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d: %s %s: %s", e.Line, e.Kind, e.Subject, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Subject, e.Detail)
}

// Report is an ordered list of entries. The zero value is ready to use.
type Report struct {
	Entries []Entry
}

func (r *Report) Add(kind Kind, subject, detail string, line int) {
	r.Entries = append(r.Entries, Entry{Kind: kind, Subject: subject, Detail: detail, Line: line})
}

func (r *Report) Merge(o Report) {
	r.Entries = append(r.Entries, o.Entries...)
}

func (r Report) Len() int {
	return len(r.Entries)
}

func (r Report) Count(kind Kind) int {
	n := 0
	for _, e := range r.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns the number of entries per kind.
func (r Report) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range r.Entries {
		counts[e.Kind]++
	}
	return counts
}

var _ slog.LogValuer = Report{}

// LogValue renders the per-kind counts in a stable order.
func (r Report) LogValue() slog.Value {
	counts := r.Counts()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	attrs := make([]slog.Attr, 0, len(kinds)+1)
	attrs = append(attrs, slog.Int("total", r.Len()))
	for _, k := range kinds {
		attrs = append(attrs, slog.Int(k, counts[Kind(k)]))
	}
	return slog.GroupValue(attrs...)
}
