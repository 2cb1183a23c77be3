package bitness

import (
	"strconv"
	"unsafe"
)

// Width is an address width: how wide pointers are for a process or an
// operating system. A process is never wider than the OS it runs on.
type Width int

const (
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) String() string {
	return strconv.Itoa(int(w)) + "-bit"
}

// CurrentProcess returns the width this process was compiled for.
func CurrentProcess() Width {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return Width64
	}
	return Width32
}

// remoteWidth decides another process's width. On a 32-bit OS every process
// is 32-bit. Otherwise the emulation query settles it; a failed query is
// treated as "not emulated" and defaults to the full OS width.
func remoteWidth(os Width, emulated func() (bool, error)) Width {
	if os == Width32 {
		return Width32
	}
	if emu, err := emulated(); err == nil && emu {
		return Width32
	}
	return Width64
}
