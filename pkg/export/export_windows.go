//go:build windows

package export

import (
	"unsafe"

	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

// sizeOfImage reads OptionalHeader.SizeOfImage straight out of the mapped
// headers.
func sizeOfImage(moduleBase uintptr) (uint32, error) {
	dos := (*[2]byte)(unsafe.Pointer(moduleBase))
	if dos[0] != 'M' || dos[1] != 'Z' {
		return 0, ntstatus.New(ntstatus.InvalidImageFormat)
	}

	peOff := *(*uint32)(unsafe.Pointer(moduleBase + 0x3C))
	sig := (*[2]byte)(unsafe.Pointer(moduleBase + uintptr(peOff)))
	if sig[0] != 'P' || sig[1] != 'E' {
		return 0, ntstatus.New(ntstatus.InvalidImageFormat)
	}

	// SizeOfImage sits at offset 56 of the optional header for both PE32
	// and PE32+.
	return *(*uint32)(unsafe.Pointer(moduleBase + uintptr(peOff) + 24 + 56)), nil
}

// ImageSlice views the module mapped at moduleBase as a byte slice covering
// SizeOfImage. The pages stay owned by the OS mapping machinery; the slice
// is a read-only window, not a resource to release.
func ImageSlice(moduleBase uintptr) ([]byte, error) {
	if moduleBase == 0 {
		return nil, ntstatus.New(ntstatus.InvalidParameter)
	}
	size, err := sizeOfImage(moduleBase)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(moduleBase)), size), nil
}

// ResolveExport resolves a named routine in the module mapped at moduleBase.
// It works for modules the loader never registered, and for modules of the
// other bitness.
func ResolveExport(moduleBase uintptr, name string) (uintptr, error) {
	if moduleBase == 0 || name == "" {
		return 0, ntstatus.New(ntstatus.InvalidParameter)
	}
	img, err := ImageSlice(moduleBase)
	if err != nil {
		return 0, err
	}
	return Resolve(img, moduleBase, name)
}

// EnumerateModule lists every export of the module mapped at moduleBase.
func EnumerateModule(moduleBase uintptr) ([]Export, error) {
	img, err := ImageSlice(moduleBase)
	if err != nil {
		return nil, err
	}
	return Enumerate(img)
}
