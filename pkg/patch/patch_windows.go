//go:build windows

package patch

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/carved4/go-ntpatch/pkg/nt"
)

// Process exposes the process behind handle as ProcessMemory. The handle
// needs PROCESS_VM_WRITE and PROCESS_VM_OPERATION rights;
// windows.CurrentProcess() works for self-patching.
func Process(handle windows.Handle) ProcessMemory {
	return processMemory{handle: handle}
}

type processMemory struct {
	handle windows.Handle
}

func (p processMemory) Protect(addr, size uintptr, prot uint32) (uint32, error) {
	// The kernel rounds base and size to page boundaries in place.
	// Passing the caller's values again on restore rounds identically,
	// so the restored region is the changed region.
	base, length := addr, size
	return nt.ProtectVirtualMemory(p.handle, &base, &length, prot)
}

func (p processMemory) Write(addr uintptr, data []byte) error {
	if err := nt.WriteVirtualMemory(p.handle, addr, data); err != nil {
		return err
	}
	logrus.Debugf("wrote %d bytes at 0x%x", len(data), addr)
	return nil
}

// WriteProcessMemory patches data into the process behind handle at dest,
// handling the protection change and restore.
func WriteProcessMemory(handle windows.Handle, dest uintptr, data []byte) error {
	return WriteRemoteMemory(Process(handle), dest, data)
}
