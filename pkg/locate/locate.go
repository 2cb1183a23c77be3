// Package locate finds the base address of the native ntdll: the copy
// matching the operating system's own bitness, which from a WOW64 process is
// not the one the loader's module list reports.
package locate

import (
	"github.com/carved4/go-ntpatch/pkg/bitness"
	"github.com/carved4/go-ntpatch/pkg/ntstatus"
	"github.com/carved4/go-ntpatch/pkg/wstr"
)

// NativeModuleName is the module the locator hunts for.
const NativeModuleName = "ntdll.dll"

// nativeModuleSuffix confirms a mapped file really is the system32 ntdll.
var nativeModuleSuffix = wstr.FromString(`Windows\system32\ntdll.dll`)

// RegionType classifies a virtual-memory region.
type RegionType int

const (
	RegionOther RegionType = iota
	RegionImage
)

// Region is a point-in-time snapshot of a virtual-memory region. Nothing it
// reports is guaranteed to still hold once the query returns.
type Region struct {
	AllocationBase uintptr
	Type           RegionType
}

// MemoryQuerier answers point-in-time questions about the current process's
// address space.
type MemoryQuerier interface {
	// MappedFilename returns the path of the file mapped at addr, failing
	// when no mapping exists there.
	MappedFilename(addr uintptr) (wstr.View, error)

	// Region returns region metadata for addr.
	Region(addr uintptr) (Region, error)
}

// ModuleRegistry looks loaded modules up by name through the loader's own
// bookkeeping.
type ModuleRegistry interface {
	ModuleBase(name string) (uintptr, error)
}

// ScanRange bounds the fallback scan. Candidate addresses run from High down
// to, but excluding, Low, stepping by the platform's allocation granularity.
type ScanRange struct {
	High uintptr
	Low  uintptr
	Step uintptr
}

// DefaultScanRange covers the addresses where the loader maps the native
// ntdll under ASLR.
func DefaultScanRange() ScanRange {
	return ScanRange{High: 0x7FFD0000, Low: 0x70000000, Step: 0x10000}
}

// Candidates returns how many probe addresses the range holds.
func (r ScanRange) Candidates() int {
	if r.Step == 0 || r.High <= r.Low {
		return 0
	}
	return int((r.High - r.Low) / r.Step)
}

// Locator discovers the native ntdll base without trusting the loader to
// report it. The zero Range means DefaultScanRange. Every call is
// independent; a Locator holds no mutable state.
type Locator struct {
	Memory       MemoryQuerier
	Registry     ModuleRegistry
	ProcessWidth bitness.Width
	SystemWidth  bitness.Width
	Range        ScanRange
}

// NativeSystemModule returns the base address of the native ntdll.
//
// When the process width matches the OS width the loader can simply be asked
// for the module by name. Otherwise the native ntdll sits at one of a small,
// fixed, aligned set of candidate addresses, and the locator probes each one
// descending: a candidate must have a file mapped there, be an image-backed
// region, and carry the system32 ntdll path suffix. The probe address is
// re-seated on the region's allocation base, since a probe can land in the
// middle of the mapped image.
//
// Per-candidate query failures just advance the scan; only exhausting the
// whole range yields DllNotFound. The scan is bounded and deterministic,
// never a retry loop.
func (l Locator) NativeSystemModule() (uintptr, error) {
	if l.ProcessWidth == l.SystemWidth && l.Registry != nil {
		if base, err := l.Registry.ModuleBase(NativeModuleName); err == nil && base != 0 {
			return base, nil
		}
	}

	r := l.Range
	if r == (ScanRange{}) {
		r = DefaultScanRange()
	}

	for addr := r.High; addr > r.Low; addr -= r.Step {
		name, err := l.Memory.MappedFilename(addr)
		if err != nil {
			continue
		}

		region, err := l.Memory.Region(addr)
		if err != nil {
			continue
		}

		addr = region.AllocationBase

		if region.Type != RegionImage {
			continue
		}

		if wstr.EndsWith(name, nativeModuleSuffix, true) {
			return addr, nil
		}
	}

	return 0, ntstatus.New(ntstatus.DllNotFound)
}
