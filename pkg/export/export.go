// Package export resolves routines out of mapped PE images by walking the
// export directory by hand, without any help from the loader. The image is
// treated as a flat byte arena addressed by relative offsets; every read is
// bounds-checked against the slice before dereference, and the header's
// declared counts are trusted as authoritative.
package export

import (
	"encoding/binary"

	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

const (
	dosMagic uint16 = 0x5A4D     // "MZ"
	peMagic  uint32 = 0x00004550 // "PE\0\0"

	magicPE32     uint16 = 0x10b
	magicPE32Plus uint16 = 0x20b

	// Offset of the data directory within the optional header.
	ddOffsetPE32     uint32 = 96
	ddOffsetPE32Plus uint32 = 112
)

func u16(img []byte, off uint32) (uint16, bool) {
	if int64(off)+2 > int64(len(img)) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(img[off:]), true
}

func u32(img []byte, off uint32) (uint32, bool) {
	if int64(off)+4 > int64(len(img)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(img[off:]), true
}

func cstringAt(img []byte, off uint32) string {
	if int64(off) >= int64(len(img)) {
		return ""
	}
	end := off
	for int64(end) < int64(len(img)) && img[end] != 0 {
		end++
	}
	return string(img[off:end])
}

// directoryRange walks DOS header -> PE signature -> optional header and
// returns the export data directory (RVA, size).
func directoryRange(img []byte) (uint32, uint32, bool) {
	m, ok := u16(img, 0)
	if !ok || m != dosMagic {
		return 0, 0, false
	}

	peOff, ok := u32(img, 0x3C)
	if !ok {
		return 0, 0, false
	}
	sig, ok := u32(img, peOff)
	if !ok || sig != peMagic {
		return 0, 0, false
	}

	// The optional header follows the 4-byte signature and 20-byte COFF
	// header.
	optStart := peOff + 24
	magic, ok := u16(img, optStart)
	if !ok {
		return 0, 0, false
	}

	var ddOff uint32
	switch magic {
	case magicPE32:
		ddOff = ddOffsetPE32
	case magicPE32Plus:
		ddOff = ddOffsetPE32Plus
	default:
		return 0, 0, false
	}

	// IMAGE_DIRECTORY_ENTRY_EXPORT is entry zero.
	rva, ok := u32(img, optStart+ddOff)
	if !ok {
		return 0, 0, false
	}
	size, ok := u32(img, optStart+ddOff+4)
	if !ok {
		return 0, 0, false
	}
	return rva, size, true
}

// Resolve finds the export called name in a PE image mapped at base and
// returns its absolute address.
//
// The name table is scanned linearly in declared order, comparing
// byte-for-byte with no case folding; a match indexes the name-ordinal table
// and, through it, the function-address table. Linear scan keeps the walk
// correct even for images whose name table is not sorted.
func Resolve(image []byte, base uintptr, name string) (uintptr, error) {
	if len(image) == 0 || name == "" {
		return 0, ntstatus.New(ntstatus.InvalidParameter)
	}

	dirRVA, _, ok := directoryRange(image)
	if !ok || dirRVA == 0 {
		return 0, ntstatus.New(ntstatus.InvalidImageFormat)
	}

	// IMAGE_EXPORT_DIRECTORY fields:
	//   24: NumberOfNames
	//   28: AddressOfFunctions
	//   32: AddressOfNames
	//   36: AddressOfNameOrdinals
	numNames, ok1 := u32(image, dirRVA+24)
	funcsRVA, ok2 := u32(image, dirRVA+28)
	namesRVA, ok3 := u32(image, dirRVA+32)
	ordsRVA, ok4 := u32(image, dirRVA+36)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, ntstatus.New(ntstatus.InvalidImageFormat)
	}

	for i := uint32(0); i < numNames; i++ {
		nameRVA, ok := u32(image, namesRVA+i*4)
		if !ok {
			return 0, ntstatus.New(ntstatus.InvalidImageFormat)
		}
		if cstringAt(image, nameRVA) != name {
			continue
		}

		ord, ok := u16(image, ordsRVA+i*2)
		if !ok {
			return 0, ntstatus.New(ntstatus.InvalidImageFormat)
		}
		funcRVA, ok := u32(image, funcsRVA+uint32(ord)*4)
		if !ok {
			return 0, ntstatus.New(ntstatus.InvalidImageFormat)
		}
		return base + uintptr(funcRVA), nil
	}

	return 0, ntstatus.New(ntstatus.EntrypointNotFound)
}
