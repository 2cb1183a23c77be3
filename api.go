//go:build windows

package ntpatch

import (
	"golang.org/x/sys/windows"

	"github.com/carved4/go-ntpatch/pkg/bitness"
	"github.com/carved4/go-ntpatch/pkg/export"
	"github.com/carved4/go-ntpatch/pkg/locate"
	"github.com/carved4/go-ntpatch/pkg/patch"
)

// GetNativeSystemModuleBase returns the base address of the OS-native ntdll,
// even from a WOW64 process where the loader only reports the 32-bit copy.
func GetNativeSystemModuleBase() (uintptr, error) {
	return locate.NativeSystemModuleBase()
}

// GetProcedureAddress resolves a named export of the module mapped at
// moduleBase without asking the loader. It works for modules mapped but not
// registered, and for modules of the other bitness.
var GetProcedureAddress = export.ResolveExport

// EnumerateExports lists every export of the module mapped at moduleBase.
var EnumerateExports = export.EnumerateModule

// WriteProcessMemory writes data at dest in the process behind handle. The
// destination's protection is changed around the copy and restored
// afterwards, whether or not the copy succeeds.
func WriteProcessMemory(handle windows.Handle, dest uintptr, data []byte) error {
	return patch.WriteProcessMemory(handle, dest, data)
}

var (
	CurrentProcessBitness  = bitness.CurrentProcess
	OperatingSystemBitness = bitness.OperatingSystem
)

// RemoteProcessBitness reports the address width of the process behind
// handle. A failed WOW64 query counts as "not emulated".
func RemoteProcessBitness(handle windows.Handle) bitness.Width {
	return bitness.RemoteProcess(handle)
}
