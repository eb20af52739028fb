package generator

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/vkwrap/config"
	"github.com/ardanlabs/vkwrap/diag"
	"github.com/ardanlabs/vkwrap/parser"
)

func generate(t *testing.T, src string) *Result {
	t.Helper()
	res, err := New(config.MustDefault()).GenerateSource(context.Background(), []byte(src))
	require.NoError(t, err)
	return res
}

func TestGenerateSampleHeader(t *testing.T) {
	src, err := os.ReadFile("../testdata/vulkan_sample.h")
	require.NoError(t, err)
	want, err := os.ReadFile("../testdata/vulkan_sample.hpp")
	require.NoError(t, err)

	res := generate(t, string(src))
	assert.Equal(t, string(want), res.Output)
	assert.Equal(t, 4, res.Enums)
	assert.Equal(t, 8, res.Structs)

	assert.Equal(t, 2, res.Report.Count(diag.SkippedField))
	assert.Equal(t, 2, res.Report.Count(diag.DuplicateEnumerator))
	assert.Equal(t, 1, res.Report.Count(diag.AmbiguousClassification))
	assert.Equal(t, 1, res.Report.Count(diag.UnresolvedTag))
}

const storeOpHeader = `
typedef enum VkAttachmentStoreOp {
    VK_ATTACHMENT_STORE_OP_STORE = 0,
    VK_ATTACHMENT_STORE_OP_DONT_CARE = 1,
    VK_ATTACHMENT_STORE_OP_NONE = 1000301000,
    VK_ATTACHMENT_STORE_OP_NONE_KHR = VK_ATTACHMENT_STORE_OP_NONE,
    VK_ATTACHMENT_STORE_OP_NONE_QCOM = VK_ATTACHMENT_STORE_OP_NONE,
    VK_ATTACHMENT_STORE_OP_NONE_EXT = VK_ATTACHMENT_STORE_OP_NONE,
    VK_ATTACHMENT_STORE_OP_MAX_ENUM = 0x7FFFFFFF
} VkAttachmentStoreOp;
`

var enumLineRe = regexp.MustCompile(`^\s+(\w+) = (\w+),?$`)

// enumLines returns wrapper name to raw enumerator for each emitted value.
func enumLines(output string) [][2]string {
	var out [][2]string
	for _, l := range strings.Split(output, "\n") {
		if m := enumLineRe.FindStringSubmatch(l); m != nil {
			out = append(out, [2]string{m[1], m[2]})
		}
	}
	return out
}

func TestStoreOpCollapsesToFiveValues(t *testing.T) {
	res := generate(t, storeOpHeader)

	values := enumLines(res.Output)
	require.Len(t, values, 5)
	assert.Equal(t, [][2]string{
		{"Store", "VK_ATTACHMENT_STORE_OP_STORE"},
		{"DontCare", "VK_ATTACHMENT_STORE_OP_DONT_CARE"},
		{"None", "VK_ATTACHMENT_STORE_OP_NONE"},
		{"NoneQcom", "VK_ATTACHMENT_STORE_OP_NONE_QCOM"},
		{"MaxEnum", "VK_ATTACHMENT_STORE_OP_MAX_ENUM"},
	}, values)
	assert.True(t, strings.HasPrefix(res.Output, "enum class AttachmentStoreOp : u32 {\n"))
	assert.True(t, strings.HasSuffix(res.Output, "    MaxEnum = VK_ATTACHMENT_STORE_OP_MAX_ENUM\n};\n"))
	assert.NotContains(t, res.Output, "ENABLE_BITMASK_OPERATORS")
	assert.Equal(t, 2, res.Report.Count(diag.DuplicateEnumerator))
}

func TestDuplicateCollapseKeepsFirst(t *testing.T) {
	res := generate(t, `
enum VkMode {
    VK_MODE_FAST_EXT = 7,
    VK_MODE_FAST = 1,
    VK_MODE_SLOW = 2,
};
`)
	assert.Equal(t, [][2]string{
		{"Fast", "VK_MODE_FAST_EXT"},
		{"Slow", "VK_MODE_SLOW"},
	}, enumLines(res.Output))
	require.Equal(t, 1, res.Report.Count(diag.DuplicateEnumerator))
	assert.Contains(t, res.Report.Entries[0].Detail, "VK_MODE_FAST collapses into VK_MODE_FAST_EXT")
}

func TestEnumValueFidelity(t *testing.T) {
	src, err := os.ReadFile("../testdata/vulkan_sample.h")
	require.NoError(t, err)

	unit, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	res, err := New(config.MustDefault()).Generate(context.Background(), unit)
	require.NoError(t, err)

	type position struct {
		enum  string
		index int
	}
	source := make(map[string]position)
	for _, e := range unit.Enums {
		for i, v := range e.Values {
			source[v.Name] = position{enum: e.Name, index: i}
		}
	}

	var prev position
	seen := make(map[string]bool)
	for _, v := range enumLines(res.Output) {
		pos, ok := source[v[1]]
		require.True(t, ok, "%s is not a source enumerator", v[1])
		assert.False(t, seen[v[1]], "%s emitted twice", v[1])
		seen[v[1]] = true
		if pos.enum == prev.enum {
			assert.Greater(t, pos.index, prev.index, "%s is out of order", v[1])
		}
		prev = pos
	}
	assert.Len(t, seen, 15)
}

func TestExtensibleRecord(t *testing.T) {
	res := generate(t, `
typedef enum VkStructureType {
    VK_STRUCTURE_TYPE_FOO_INFO = 1,
} VkStructureType;

typedef struct VkFooInfo {
    VkStructureType sType;
    const void* pNext;
    uint32_t width;
    uint32_t height;
} VkFooInfo;
`)
	want := `struct FooInfo {
    u32 width;
    u32 height;

    VkFooInfo raw() {
        return VkFooInfo {
            .sType = VK_STRUCTURE_TYPE_FOO_INFO,
            .pNext = nullptr,
            .width = width,
            .height = height
        };
    }
};
`
	assert.Equal(t, want, res.Output)
	assert.Equal(t, 0, res.Enums)
	assert.Zero(t, res.Report.Len())
}

func TestPlainRecordHasNoTag(t *testing.T) {
	res := generate(t, `
typedef struct VkOffset2D {
    int32_t x;
    int32_t y;
} VkOffset2D;
`)
	want := `struct Offset2D {
    i32 x;
    i32 y;

    VkOffset2D raw() {
        return VkOffset2D {
            .x = x,
            .y = y
        };
    }
};
`
	assert.Equal(t, want, res.Output)
	assert.NotContains(t, res.Output, ".sType")
	assert.NotContains(t, res.Output, ".pNext")
}

var initRe = regexp.MustCompile(`^\s+\.(\w+) = (.+?),?$`)

var declStartRe = regexp.MustCompile(`(?m)^(?:struct|enum class) `)

// declarations splits output at the start of each top-level declaration.
func declarations(output string) []string {
	idx := declStartRe.FindAllStringIndex(output, -1)
	out := make([]string, 0, len(idx))
	for i, loc := range idx {
		end := len(output)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		out = append(out, output[loc[0]:end])
	}
	return out
}

// invert undoes the casts the registry applies to a wrapper member.
func invert(expr string) string {
	if strings.HasPrefix(expr, "static_cast<") {
		open := strings.Index(expr, ">(")
		return expr[open+2 : len(expr)-1]
	}
	return strings.TrimSuffix(expr, ".raw()")
}

func TestExtensibleRecordRoundTrip(t *testing.T) {
	src, err := os.ReadFile("../testdata/vulkan_sample.h")
	require.NoError(t, err)
	unit, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)

	g := New(config.MustDefault())
	res, err := g.Generate(context.Background(), unit)
	require.NoError(t, err)

	for _, block := range declarations(res.Output) {
		if !strings.HasPrefix(block, "struct ") || !strings.Contains(block, ".sType") {
			continue
		}
		name := "Vk" + strings.TrimSuffix(strings.TrimPrefix(strings.SplitN(block, "\n", 2)[0], "struct "), " {")
		s, ok := unit.Struct(name)
		require.True(t, ok, name)

		members := []string{}
		for _, l := range strings.Split(block, "\n") {
			l = strings.TrimSpace(l)
			if strings.HasSuffix(l, ";") && !strings.Contains(l, "(") && !strings.HasPrefix(l, "}") {
				decl := strings.Fields(strings.TrimSuffix(l, ";"))
				member := decl[len(decl)-1]
				if i := strings.Index(member, "["); i >= 0 {
					member = member[:i]
				}
				members = append(members, member)
			}
		}

		var assigned, values []string
		for _, l := range strings.Split(block, "\n") {
			if m := initRe.FindStringSubmatch(l); m != nil {
				assigned = append(assigned, m[1])
				values = append(values, invert(m[2]))
			}
		}

		t.Run(name, func(t *testing.T) {
			var original []string
			for _, f := range s.Fields {
				original = append(original, f.Name)
			}
			assert.Equal(t, original, assigned)
			assert.Equal(t, members, append([]string{}, values[2:]...))
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	src, err := os.ReadFile("../testdata/vulkan_sample.h")
	require.NoError(t, err)

	first := generate(t, string(src))
	for i := 0; i < 5; i++ {
		again := generate(t, string(src))
		require.Equal(t, first.Output, again.Output)
		require.Equal(t, first.Report, again.Report)
	}
}

func TestGenerateFiltersPrefixAndBlacklist(t *testing.T) {
	res := generate(t, `
typedef enum VkStructureType { VK_STRUCTURE_TYPE_A = 0 } VkStructureType;
typedef enum OtherEnum { OTHER_A = 0, OTHER_B = 1 } OtherEnum;
typedef struct OtherStruct { int a; } OtherStruct;
`)
	assert.Empty(t, res.Output)
	assert.Zero(t, res.Enums)
	assert.Zero(t, res.Structs)
}

func TestGenerateNilUnit(t *testing.T) {
	_, err := New(config.MustDefault()).Generate(context.Background(), nil)
	require.Error(t, err)
}

func TestGenerateUnparseable(t *testing.T) {
	_, err := New(config.MustDefault()).GenerateSource(context.Background(), []byte("}}}} )))"))
	require.Error(t, err)
}

func TestFieldNameCollision(t *testing.T) {
	res := generate(t, `
struct VkClash {
    void* pData;
    uint32_t data;
};
`)
	assert.Contains(t, res.Output, "    void* data;\n")
	assert.Contains(t, res.Output, "    u32 data_1;\n")
	assert.Contains(t, res.Output, ".data = data_1\n")
}

func TestFallbackFieldNameSkipsTakenNames(t *testing.T) {
	res := generate(t, `
struct VkClash {
    void* pData;
    uint32_t data_2;
    uint32_t data;
};
`)
	assert.Contains(t, res.Output, "    void* data;\n")
	assert.Contains(t, res.Output, "    u32 data_2;\n")
	assert.Contains(t, res.Output, "    u32 data_3;\n")
	assert.Contains(t, res.Output, ".data_2 = data_2,\n")
	assert.Contains(t, res.Output, ".data = data_3\n")
}

func TestEnumeratorThatIsTheSharedPrefix(t *testing.T) {
	res := generate(t, `
typedef enum VkFilterMode {
    VK_FILTER_MODE_LINEAR = 0,
    VK_FILTER_MODE_LINEAR_MIPMAP = 1,
} VkFilterMode;
`)
	assert.Equal(t, [][2]string{
		{"Linear", "VK_FILTER_MODE_LINEAR"},
		{"LinearMipmap", "VK_FILTER_MODE_LINEAR_MIPMAP"},
	}, enumLines(res.Output))
	assert.Zero(t, res.Report.Count(diag.SkippedEnumerator))
}

func TestExtensibleRecordWithoutMembers(t *testing.T) {
	res := generate(t, `
typedef enum VkStructureType {
    VK_STRUCTURE_TYPE_EMPTY_INFO = 1,
} VkStructureType;

typedef struct VkEmptyInfo {
    VkStructureType sType;
    const void* pNext;
} VkEmptyInfo;
`)
	want := `struct EmptyInfo {
    VkEmptyInfo raw() {
        return VkEmptyInfo {
            .sType = VK_STRUCTURE_TYPE_EMPTY_INFO,
            .pNext = nullptr
        };
    }
};
`
	assert.Equal(t, want, res.Output)
}

func TestRenderPreamble(t *testing.T) {
	got, err := RenderPreamble("vulkan_core.h", config.MustDefault())
	require.NoError(t, err)

	want := "// Code generated by vkwrap from vulkan_core.h. DO NOT EDIT.\n" +
		"\n" +
		"#pragma once\n" +
		"\n" +
		"#include <vulkan/vulkan.h>\n" +
		"#include <baleine_vulkan/macros/bitmask.h>\n" +
		"\n"
	assert.Equal(t, want, got)
}
