package bitness

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRemoteWidth(t *testing.T) {
	tests := []struct {
		name     string
		os       Width
		emulated bool
		err      error
		want     Width
	}{
		{"32-bit OS means 32-bit process", Width32, false, nil, Width32},
		{"32-bit OS ignores query", Width32, true, errors.New("should not matter"), Width32},
		{"emulated on 64-bit OS", Width64, true, nil, Width32},
		{"not emulated on 64-bit OS", Width64, false, nil, Width64},
		{"failed query defaults to 64", Width64, false, errors.New("access denied"), Width64},
		{"failed query reporting emulated still defaults", Width64, true, errors.New("boom"), Width64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got := remoteWidth(tt.os, func() (bool, error) {
				calls++
				return tt.emulated, tt.err
			})
			assert.Equal(t, tt.want, got)
			if tt.os == Width32 {
				assert.Zero(t, calls, "32-bit OS must not query emulation state")
			}
		})
	}
}

func TestRemoteWidthIdempotent(t *testing.T) {
	query := func() (bool, error) { return true, nil }
	first := remoteWidth(Width64, query)
	second := remoteWidth(Width64, query)
	assert.Equal(t, first, second)
}

func TestCurrentProcess(t *testing.T) {
	w := CurrentProcess()
	assert.Contains(t, []Width{Width32, Width64}, w)
}

func TestWidthString(t *testing.T) {
	assert.Equal(t, "32-bit", Width32.String())
	assert.Equal(t, "64-bit", Width64.String())
}
