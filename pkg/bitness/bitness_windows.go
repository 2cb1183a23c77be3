//go:build windows

package bitness

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// OperatingSystem returns the width of the running OS. A 64-bit process
// implies a 64-bit OS; a 32-bit process is on a 64-bit OS exactly when it
// runs under WOW64.
func OperatingSystem() Width {
	if CurrentProcess() == Width64 {
		return Width64
	}
	var wow64 bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &wow64); err == nil && wow64 {
		return Width64
	}
	return Width32
}

// RemoteProcess returns the width of the process behind handle.
func RemoteProcess(handle windows.Handle) Width {
	return remoteWidth(OperatingSystem(), func() (bool, error) {
		var wow64 bool
		if err := windows.IsWow64Process(handle, &wow64); err != nil {
			return false, errors.Wrap(err, "IsWow64Process")
		}
		return wow64, nil
	})
}
