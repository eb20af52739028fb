// Package naming rewrites C identifiers into wrapper identifiers. Every
// function is pure.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func StripPrefix(name, prefix string) string {
	return strings.TrimPrefix(name, prefix)
}

// FlagsName replaces the last occurrence of bits with flags, so
// "BufferUsageFlagBits" becomes "BufferUsageFlags".
func FlagsName(name, bits, flags string) string {
	i := strings.LastIndex(name, bits)
	if i < 0 {
		return name
	}
	return name[:i] + flags + name[i+len(bits):]
}

// CamelToSnake lowercases name and puts an underscore before every upper
// case rune except the first. An underscore is never doubled.
func CamelToSnake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	var prev rune
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 && prev != '_' {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// FieldName converts a C field name to a wrapper field name: snake case
// without the leading pointer marker, "pNext" becomes "next".
func FieldName(name, marker string) string {
	s := CamelToSnake(name)
	if marker == "" {
		return s
	}
	p := marker + "_"
	for strings.HasPrefix(s, p) && len(s) > len(p) {
		s = s[len(p):]
	}
	return s
}

func UpperSnakeToUpperCamel(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, word := range strings.Split(name, "_") {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(word[size:]))
	}
	return b.String()
}

// CommonPrefixLen returns the length in bytes of the prefix shared by all
// names. Fewer than two names share nothing.
func CommonPrefixLen(names []string) int {
	if len(names) < 2 {
		return 0
	}
	n := len(names[0])
	for _, s := range names[1:] {
		if len(s) < n {
			n = len(s)
		}
	}
	for i := 0; i < n; i++ {
		c := names[0][i]
		for _, s := range names[1:] {
			if s[i] != c {
				return i
			}
		}
	}
	return n
}
