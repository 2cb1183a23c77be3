package wstr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndsWith(t *testing.T) {
	tests := []struct {
		name            string
		full            string
		suffix          string
		caseInsensitive bool
		want            bool
	}{
		{"exact suffix", `C:\Windows\system32\ntdll.dll`, `system32\ntdll.dll`, false, true},
		{"whole string", "ntdll.dll", "ntdll.dll", false, true},
		{"case mismatch sensitive", `C:\Windows\System32\NTDLL.DLL`, `system32\ntdll.dll`, false, false},
		{"case mismatch insensitive", `C:\Windows\System32\NTDLL.DLL`, `system32\ntdll.dll`, true, true},
		{"suffix longer than string", "dll", "ntdll.dll", false, false},
		{"suffix longer insensitive", "dll", "ntdll.dll", true, false},
		{"empty suffix", "anything", "", false, true},
		{"both empty", "", "", false, true},
		{"absent", `C:\Windows\system32\kernel32.dll`, `ntdll.dll`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndsWith(FromString(tt.full), FromString(tt.suffix), tt.caseInsensitive)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name            string
		haystack        string
		needle          string
		caseInsensitive bool
		want            int
	}{
		{"at start", "ntdll.dll", "ntdll", false, 0},
		{"in middle", `\Device\HarddiskVolume2\Windows`, "Harddisk", false, 8},
		{"at very end", "abcdef", "ef", false, 4},
		{"single char", "abc", "c", false, 2},
		{"repeated first char", "aaaab", "aab", false, 2},
		{"absent", "abcdef", "xyz", false, -1},
		{"needle longer", "ab", "abc", false, -1},
		{"empty needle", "abc", "", false, -1},
		{"empty haystack", "", "a", false, -1},
		{"case sensitive miss", "NtProtectVirtualMemory", "ntprotect", false, -1},
		{"case insensitive hit", "NtProtectVirtualMemory", "ntprotect", true, 0},
		{"partial match then full", "ababc", "abc", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Index(FromString(tt.haystack), FromString(tt.needle), tt.caseInsensitive)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexSharesBuffer(t *testing.T) {
	haystack := FromString(`C:\Windows\system32\ntdll.dll`)
	pos := Index(haystack, FromString("ntdll"), false)
	require.GreaterOrEqual(t, pos, 0)
	assert.Equal(t, "ntdll.dll", haystack[pos:].String())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(FromString("NTDLL.DLL"), FromString("ntdll.dll"), true))
	assert.False(t, Equal(FromString("NTDLL.DLL"), FromString("ntdll.dll"), false))
	assert.False(t, Equal(FromString("ntdll"), FromString("ntdll.dll"), true))
	assert.True(t, Equal(nil, nil, false))
}

func TestPathFileName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`C:\Windows\system32\notepad.exe`, "notepad.exe"},
		{"notepad.exe", "notepad.exe"},
		{`dir1\dir2\notepad.exe`, "notepad.exe"},
		{`trailing\`, ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PathFileName(FromString(tt.path)).String(), "path %q", tt.path)
	}
}

func TestAdvance(t *testing.T) {
	v := FromString("abcdef")
	assert.Equal(t, "cdef", Advance(v, 2).String())
	assert.Equal(t, "", Advance(v, 10).String())
	assert.Equal(t, "abcdef", Advance(v, 0).String())
	assert.Equal(t, "abcdef", Advance(v, -1).String())
}

func TestRoundTrip(t *testing.T) {
	const s = `\Device\HarddiskVolume2\Windows\System32\ntdll.dll`
	assert.Equal(t, s, FromString(s).String())
}
