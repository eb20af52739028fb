package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rewriter renames enumerators. The zero value strips nothing but the
// shared prefix.
type Rewriter struct {
	BitMarker   string
	VendorWords []string
	DigitPrefix string
}

// EnumValue rewrites one enumerator, e.g. with prefixLen covering
// "VK_BUFFER_USAGE_", "VK_BUFFER_USAGE_TRANSFER_SRC_BIT" becomes
// "TransferSrc". An empty result means nothing was left to name.
func (rw Rewriter) EnumValue(name string, prefixLen int) string {
	if prefixLen > len(name) {
		prefixLen = len(name)
	}
	s := name[prefixLen:]

	if rw.BitMarker != "" {
		s = strings.ReplaceAll(s, rw.BitMarker, "")
	}

	for _, v := range rw.VendorWords {
		suffix := "_" + v
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = s[:len(s)-len(suffix)]
			break
		}
	}

	s = UpperSnakeToUpperCamel(s)
	if r, _ := utf8.DecodeRuneInString(s); unicode.IsDigit(r) {
		s = rw.DigitPrefix + s
	}
	return s
}
