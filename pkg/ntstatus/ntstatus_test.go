package ntstatus

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := New(InvalidParameter)
	assert.True(t, IsCode(err, InvalidParameter))
	assert.False(t, IsCode(err, DllNotFound))
	assert.False(t, IsCode(nil, InvalidParameter))
	assert.False(t, IsCode(errors.New("plain"), InvalidParameter))
}

func TestIsCodeUnwrapsWrappedErrors(t *testing.T) {
	err := errors.Wrap(New(EntrypointNotFound), "NtQueryVirtualMemory")
	assert.True(t, IsCode(err, EntrypointNotFound))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "NTSTATUS 0xC000000D", New(InvalidParameter).Error())
}
