//go:build windows

package locate

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/carved4/go-ntpatch/pkg/bitness"
	"github.com/carved4/go-ntpatch/pkg/nt"
	"github.com/carved4/go-ntpatch/pkg/ntstatus"
	"github.com/carved4/go-ntpatch/pkg/wstr"
)

// NativeSystemModuleBase wires the locator to the live process.
func NativeSystemModuleBase() (uintptr, error) {
	l := Locator{
		Memory:       ntQuerier{},
		Registry:     pebRegistry{},
		ProcessWidth: bitness.CurrentProcess(),
		SystemWidth:  bitness.OperatingSystem(),
	}

	base, err := l.NativeSystemModule()
	if err != nil {
		return 0, err
	}
	logrus.Debugf("native ntdll mapped at 0x%x", base)
	return base, nil
}

type unicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        *uint16
}

// view exposes the UNICODE_STRING contents without copying. Length is in
// bytes.
func (u *unicodeString) view() wstr.View {
	if u.Buffer == nil || u.Length == 0 {
		return nil
	}
	return wstr.View(unsafe.Slice(u.Buffer, u.Length/2))
}

// ntQuerier answers memory queries with NtQueryVirtualMemory, the same calls
// the process would make if the Win32 layer were unavailable.
type ntQuerier struct{}

type memoryBasicInformation struct {
	BaseAddress       uintptr
	AllocationBase    uintptr
	AllocationProtect uint32
	PartitionId       uint16
	RegionSize        uintptr
	State             uint32
	Protect           uint32
	Type              uint32
}

const memImage = 0x1000000

func (ntQuerier) MappedFilename(addr uintptr) (wstr.View, error) {
	// A UNICODE_STRING header followed by the path characters.
	var buf [512]byte
	err := nt.QueryVirtualMemory(
		windows.CurrentProcess(),
		addr,
		nt.MemoryMappedFilenameInformation,
		unsafe.Pointer(&buf[0]),
		unsafe.Sizeof(buf),
	)
	if err != nil {
		return nil, err
	}

	// Copy out of the local buffer before it goes away.
	name := append(wstr.View(nil), (*unicodeString)(unsafe.Pointer(&buf[0])).view()...)
	runtime.KeepAlive(&buf)
	return name, nil
}

func (ntQuerier) Region(addr uintptr) (Region, error) {
	var mbi memoryBasicInformation
	err := nt.QueryVirtualMemory(
		windows.CurrentProcess(),
		addr,
		nt.MemoryBasicInformation,
		unsafe.Pointer(&mbi),
		unsafe.Sizeof(mbi),
	)
	if err != nil {
		return Region{}, err
	}

	region := Region{AllocationBase: mbi.AllocationBase}
	if mbi.Type == memImage {
		region.Type = RegionImage
	}
	return region, nil
}

// pebRegistry walks the loader's in-load-order module list straight out of
// the PEB. Unlike GetModuleHandle it needs no Win32 plumbing and sees every
// registered module.
type pebRegistry struct{}

type listEntry struct {
	Flink *listEntry
	Blink *listEntry
}

type ldrDataTableEntry struct {
	InLoadOrderLinks           listEntry
	InMemoryOrderLinks         listEntry
	InInitializationOrderLinks listEntry
	DllBase                    uintptr
	EntryPoint                 uintptr
	SizeOfImage                uintptr
	FullDllName                unicodeString
	BaseDllName                unicodeString
}

type pebLdrData struct {
	Length                          uint32
	Initialized                     uint32
	SsHandle                        uintptr
	InLoadOrderModuleList           listEntry
	InMemoryOrderModuleList         listEntry
	InInitializationOrderModuleList listEntry
}

type peb struct {
	Reserved1     [2]byte
	BeingDebugged byte
	Reserved2     byte
	Reserved3     [2]uintptr
	Ldr           *pebLdrData
}

type processBasicInformation struct {
	ExitStatus                   uintptr
	PebBaseAddress               uintptr
	AffinityMask                 uintptr
	BasePriority                 uintptr
	UniqueProcessId              uintptr
	InheritedFromUniqueProcessId uintptr
}

func currentPEB() (*peb, error) {
	var pbi processBasicInformation
	err := nt.QueryInformationProcess(
		windows.CurrentProcess(),
		nt.ProcessBasicInformation,
		unsafe.Pointer(&pbi),
		unsafe.Sizeof(pbi),
	)
	if err != nil {
		return nil, errors.Wrap(err, "NtQueryInformationProcess")
	}
	if pbi.PebBaseAddress == 0 {
		return nil, ntstatus.New(ntstatus.Unsuccessful)
	}
	return (*peb)(unsafe.Pointer(pbi.PebBaseAddress)), nil
}

func (pebRegistry) ModuleBase(name string) (uintptr, error) {
	p, err := currentPEB()
	if err != nil {
		return 0, err
	}
	if p.Ldr == nil {
		return 0, ntstatus.New(ntstatus.DllNotFound)
	}

	want := wstr.FromString(name)
	head := &p.Ldr.InLoadOrderModuleList
	for cur := head.Flink; cur != nil && cur != head; cur = cur.Flink {
		entry := (*ldrDataTableEntry)(unsafe.Pointer(cur))
		if wstr.Equal(entry.BaseDllName.view(), want, true) {
			return entry.DllBase, nil
		}
	}
	return 0, ntstatus.New(ntstatus.DllNotFound)
}
