package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

type protectCall struct {
	addr uintptr
	size uintptr
	prot uint32
}

type writeCall struct {
	addr uintptr
	data []byte
}

// scriptedMemory fails its first protect call with protectErr, later ones
// with restoreErr, and writes with writeErr.
type scriptedMemory struct {
	protectErr error
	restoreErr error
	writeErr   error
	oldProt    uint32

	protects []protectCall
	writes   []writeCall
}

func (m *scriptedMemory) Protect(addr, size uintptr, prot uint32) (uint32, error) {
	m.protects = append(m.protects, protectCall{addr: addr, size: size, prot: prot})
	if len(m.protects) == 1 {
		return m.oldProt, m.protectErr
	}
	return 0, m.restoreErr
}

func (m *scriptedMemory) Write(addr uintptr, data []byte) error {
	m.writes = append(m.writes, writeCall{addr: addr, data: append([]byte(nil), data...)})
	return m.writeErr
}

func TestWriteRemoteMemory(t *testing.T) {
	mem := &scriptedMemory{oldProt: 0x20}
	payload := []byte{0xC3, 0x90, 0x90}

	err := WriteRemoteMemory(mem, 0x7FF60000, payload)
	require.NoError(t, err)

	require.Len(t, mem.writes, 1)
	assert.Equal(t, uintptr(0x7FF60000), mem.writes[0].addr)
	assert.Equal(t, payload, mem.writes[0].data)

	// Make writable, then restore what was captured: exactly two
	// protection changes.
	require.Len(t, mem.protects, 2)
	assert.Equal(t, protectCall{addr: 0x7FF60000, size: 3, prot: pageReadWrite}, mem.protects[0])
	assert.Equal(t, protectCall{addr: 0x7FF60000, size: 3, prot: 0x20}, mem.protects[1])
}

func TestProtectFailureAbortsBeforeWrite(t *testing.T) {
	protectErr := ntstatus.New(ntstatus.Unsuccessful)
	mem := &scriptedMemory{protectErr: protectErr}

	err := WriteRemoteMemory(mem, 0x1000, []byte{0xCC})
	assert.Equal(t, protectErr, err)
	assert.Empty(t, mem.writes, "no copy may happen after a failed protect")
	assert.Len(t, mem.protects, 1, "nothing to restore either")
}

func TestWriteFailureStillRestoresOnce(t *testing.T) {
	writeErr := ntstatus.New(ntstatus.Unsuccessful)
	mem := &scriptedMemory{oldProt: 0x40, writeErr: writeErr}

	err := WriteRemoteMemory(mem, 0x2000, []byte{0x01, 0x02})
	assert.Equal(t, writeErr, err, "the copy's failure is authoritative")

	require.Len(t, mem.protects, 2)
	assert.Equal(t, uint32(0x40), mem.protects[1].prot, "captured protection restored")
}

func TestRestoreFailureIsSwallowed(t *testing.T) {
	mem := &scriptedMemory{oldProt: 0x02, restoreErr: ntstatus.New(ntstatus.Unsuccessful)}

	err := WriteRemoteMemory(mem, 0x3000, []byte{0xFF})
	assert.NoError(t, err)
	assert.Len(t, mem.protects, 2)
}

func TestInvalidInput(t *testing.T) {
	mem := &scriptedMemory{}

	err := WriteRemoteMemory(nil, 0x1000, []byte{0x01})
	assert.True(t, ntstatus.IsCode(err, ntstatus.InvalidParameter))

	err = WriteRemoteMemory(mem, 0, []byte{0x01})
	assert.True(t, ntstatus.IsCode(err, ntstatus.InvalidParameter))

	err = WriteRemoteMemory(mem, 0x1000, nil)
	assert.True(t, ntstatus.IsCode(err, ntstatus.InvalidParameter))

	assert.Empty(t, mem.protects)
	assert.Empty(t, mem.writes)
}
