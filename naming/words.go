package naming

import (
	"strings"
	"unicode"
)

// Words splits an upper camel name into words. Acronyms stay whole and
// digit runs are words of their own:
//
//	PhysicalDeviceIDProperties  -> Physical Device ID Properties
//	PhysicalDevice8BitStorage   -> Physical Device 8 Bit Storage
func Words(name string) []string {
	rs := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(rs); i++ {
		prev, cur := rs[i-1], rs[i]
		split := false
		switch {
		case unicode.IsDigit(cur) != unicode.IsDigit(prev):
			split = true
		case unicode.IsUpper(cur) && unicode.IsLower(prev):
			split = true
		case unicode.IsUpper(cur) && unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
			split = true
		}
		if split {
			words = append(words, string(rs[start:i]))
			start = i
		}
	}
	if start < len(rs) {
		words = append(words, string(rs[start:]))
	}
	return words
}

// digit run placements, tried in this order
const (
	digitsApart = iota
	digitsSplit
	digitsGluePrev
	digitsGlueNext
	digitPlacements
)

const maxDigitRuns = 5

// TagCandidates lists upper snake spellings a C header may have used for
// name, most likely first. Only digit runs are ambiguous: Vulkan writes
// "Features2" as FEATURES_2, "Vulkan11" as VULKAN_1_1, "Float16" as
// FLOAT16 and "8Bit" as 8BIT.
func TagCandidates(name string) []string {
	words := Words(name)

	var runs []int
	for i, w := range words {
		if isDigits(w) {
			runs = append(runs, i)
		}
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	if len(runs) <= maxDigitRuns {
		choice := make([]int, len(runs))
		for {
			add(joinWords(words, runs, choice))
			if !next(choice) {
				break
			}
		}
	} else {
		add(joinWords(words, runs, make([]int, len(runs))))
	}

	add(strings.ToUpper(CamelToSnake(name)))
	return out
}

// next advances choice like an odometer and reports false once every
// combination has been produced.
func next(choice []int) bool {
	for i := len(choice) - 1; i >= 0; i-- {
		choice[i]++
		if choice[i] < digitPlacements {
			return true
		}
		choice[i] = 0
	}
	return false
}

func joinWords(words []string, runs []int, choice []int) string {
	placement := make(map[int]int, len(runs))
	for i, w := range runs {
		placement[w] = choice[i]
	}

	var b strings.Builder
	for i, w := range words {
		if i > 0 && separated(words, placement, i) {
			b.WriteByte('_')
		}
		w = strings.ToUpper(w)
		if p, ok := placement[i]; ok && p == digitsSplit {
			w = strings.Join(strings.Split(w, ""), "_")
		}
		b.WriteString(w)
	}
	return b.String()
}

// separated reports whether an underscore goes between words i-1 and i.
func separated(words []string, placement map[int]int, i int) bool {
	if p, ok := placement[i]; ok && p == digitsGluePrev {
		return false
	}
	if p, ok := placement[i-1]; ok && p == digitsGlueNext {
		return false
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
