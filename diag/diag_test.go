package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportCounts(t *testing.T) {
	var r Report
	r.Add(SkippedField, "VkFoo", "bit-field", 12)
	r.Add(SkippedField, "VkBar", "function pointer", 20)
	r.Add(DuplicateEnumerator, "VkBaz", "VK_BAZ_A_KHR", 0)

	var other Report
	other.Add(SyntaxError, "ERROR", "unexpected token", 3)
	r.Merge(other)

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, 2, r.Count(SkippedField))
	assert.Equal(t, 1, r.Count(SyntaxError))
	assert.Equal(t, 0, r.Count(UnresolvedTag))
	assert.Equal(t, map[Kind]int{SkippedField: 2, DuplicateEnumerator: 1, SyntaxError: 1}, r.Counts())
}

func TestReportLogValue(t *testing.T) {
	var r Report
	r.Add(SkippedStruct, "", "anonymous struct", 1)
	r.Add(AmbiguousClassification, "VkBaseInStructure", "shape says extensible record", 2)

	v := r.LogValue()
	attrs := v.Group()
	if assert.Len(t, attrs, 3) {
		assert.Equal(t, "total", attrs[0].Key)
		assert.Equal(t, int64(2), attrs[0].Value.Int64())
		assert.Equal(t, "ambiguous_classification", attrs[1].Key)
		assert.Equal(t, "skipped_struct", attrs[2].Key)
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Kind: SkippedField, Subject: "VkFoo", Detail: "bit-field", Line: 7}
	assert.Equal(t, "7: skipped_field VkFoo: bit-field", e.String())

	e.Line = 0
	assert.Equal(t, "skipped_field VkFoo: bit-field", e.String())
}
