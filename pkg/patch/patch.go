// Package patch writes into another process's address space, taking care of
// memory protection around the copy.
package patch

import (
	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

// PAGE_READWRITE, the only protection the writer needs while copying.
const pageReadWrite = 0x04

// ProcessMemory is the slice of a target process this package needs:
// protection changes and raw copies.
type ProcessMemory interface {
	// Protect sets the protection of [addr, addr+size) and returns the
	// protection it replaced.
	Protect(addr, size uintptr, prot uint32) (old uint32, err error)

	// Write copies data into the process at addr.
	Write(addr uintptr, data []byte) error
}

// WriteRemoteMemory copies data to dest in the target, making the region
// writable for the duration of the copy.
//
// The prior protection is captured first and restored on every exit path; a
// failed restore is never surfaced, the write's own status is authoritative.
// If the protection change itself fails, nothing is written and that failure
// is returned. The destination is a full-width address; a 32-bit caller is
// still confined to the 32-bit-addressable part of the target.
//
// This mutates live memory in another process. Synchronizing with the
// target's execution is the caller's problem, and concurrent writers to
// overlapping ranges race exactly as two plain memory writes would.
func WriteRemoteMemory(mem ProcessMemory, dest uintptr, data []byte) error {
	if mem == nil || dest == 0 || len(data) == 0 {
		return ntstatus.New(ntstatus.InvalidParameter)
	}

	old, err := mem.Protect(dest, uintptr(len(data)), pageReadWrite)
	if err != nil {
		return err
	}
	defer mem.Protect(dest, uintptr(len(data)), old)

	return mem.Write(dest, data)
}
