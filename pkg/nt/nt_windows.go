//go:build windows

package nt

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

// Information classes for NtQueryVirtualMemory.
const (
	MemoryBasicInformation          = 0
	MemoryMappedFilenameInformation = 2
)

// Information classes for NtQueryInformationProcess.
const (
	ProcessBasicInformation = 0
)

var (
	modntdll = windows.NewLazySystemDLL("ntdll.dll")

	procNtQueryVirtualMemory      = modntdll.NewProc("NtQueryVirtualMemory")
	procNtProtectVirtualMemory    = modntdll.NewProc("NtProtectVirtualMemory")
	procNtWriteVirtualMemory      = modntdll.NewProc("NtWriteVirtualMemory")
	procNtQueryInformationProcess = modntdll.NewProc("NtQueryInformationProcess")
)

func statusErr(status uintptr) error {
	if status == 0 {
		return nil
	}
	return ntstatus.New(uint32(status))
}

// QueryVirtualMemory fills buf with the requested information class for the
// region containing addr in process.
func QueryVirtualMemory(process windows.Handle, addr uintptr, class uint32, buf unsafe.Pointer, bufLen uintptr) error {
	status, _, _ := procNtQueryVirtualMemory.Call(
		uintptr(process),
		addr,
		uintptr(class),
		uintptr(buf),
		bufLen,
		0,
	)
	return statusErr(status)
}

// ProtectVirtualMemory changes the protection of a region in process and
// returns the protection it replaced. The kernel rounds base and size to
// page boundaries; both are passed by reference and come back adjusted.
func ProtectVirtualMemory(process windows.Handle, base *uintptr, size *uintptr, newProt uint32) (uint32, error) {
	var old uint32
	status, _, _ := procNtProtectVirtualMemory.Call(
		uintptr(process),
		uintptr(unsafe.Pointer(base)),
		uintptr(unsafe.Pointer(size)),
		uintptr(newProt),
		uintptr(unsafe.Pointer(&old)),
	)
	return old, statusErr(status)
}

// WriteVirtualMemory copies buf into process at base.
func WriteVirtualMemory(process windows.Handle, base uintptr, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	status, _, _ := procNtWriteVirtualMemory.Call(
		uintptr(process),
		base,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		0,
	)
	return statusErr(status)
}

// QueryInformationProcess fills buf with the requested information class for
// the process behind handle.
func QueryInformationProcess(process windows.Handle, class uint32, buf unsafe.Pointer, bufLen uintptr) error {
	status, _, _ := procNtQueryInformationProcess.Call(
		uintptr(process),
		uintptr(class),
		uintptr(buf),
		bufLen,
		0,
	)
	return statusErr(status)
}
