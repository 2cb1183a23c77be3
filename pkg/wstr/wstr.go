package wstr

import (
	"unicode"
	"unicode/utf16"
)

// View is a window into externally-owned UTF-16 storage. Sub-views share the
// backing array and must not outlive it.
type View []uint16

// FromString encodes s as a UTF-16 view.
func FromString(s string) View {
	return View(utf16.Encode([]rune(s)))
}

func (v View) String() string {
	return string(utf16.Decode(v))
}

func eq(a, b uint16, caseInsensitive bool) bool {
	if a == b {
		return true
	}
	if !caseInsensitive {
		return false
	}
	// Pairwise code-unit fold, no locale-aware normalization.
	return unicode.ToUpper(rune(a)) == unicode.ToUpper(rune(b))
}

// Equal reports whether two views hold the same characters.
func Equal(a, b View, caseInsensitive bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i], caseInsensitive) {
			return false
		}
	}
	return true
}

// EndsWith reports whether full ends with suffix. A suffix longer than full
// is never a match.
func EndsWith(full, suffix View, caseInsensitive bool) bool {
	if len(suffix) > len(full) {
		return false
	}
	return Equal(full[len(full)-len(suffix):], suffix, caseInsensitive)
}

// Index returns the offset of the first occurrence of needle in haystack, or
// -1 when needle is empty, longer than haystack, or absent. An empty needle
// is "not found", not offset zero.
func Index(haystack, needle View, caseInsensitive bool) int {
	if len(needle) == 0 || len(haystack) == 0 || len(needle) > len(haystack) {
		return -1
	}

	// Scan for the first character of needle; positions past
	// len(haystack)-len(needle) cannot begin a full match.
	last := len(haystack) - len(needle)
	for i := 0; i <= last; i++ {
		if !eq(haystack[i], needle[0], caseInsensitive) {
			continue
		}
		j := 1
		for j < len(needle) && eq(haystack[i+j], needle[j], caseInsensitive) {
			j++
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// PathFileName returns the final element of a backslash-separated path. A
// path with no backslash comes back unchanged.
func PathFileName(path View) View {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// Advance drops the first n characters of the view, clamping at its end.
func Advance(v View, n int) View {
	if n < 0 {
		return v
	}
	if n > len(v) {
		n = len(v)
	}
	return v[n:]
}
