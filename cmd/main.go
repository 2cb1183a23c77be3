//go:build windows

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"unsafe"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/carved4/go-ntpatch"
	"github.com/carved4/go-ntpatch/pkg/export"
	"github.com/carved4/go-ntpatch/pkg/winreg"
	"github.com/carved4/go-ntpatch/pkg/wstr"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-v" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	fmt.Println("go-ntpatch demo")
	showMenu()
}

func showMenu() {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nchoose an option:")
		fmt.Println("1. locate native ntdll")
		fmt.Println("2. resolve an ntdll export")
		fmt.Println("3. list ntdll exports")
		fmt.Println("4. self-patch round trip")
		fmt.Println("5. show windows version (registry)")
		fmt.Println("6. exit")
		fmt.Print("\nenter choice (1-6): ")

		if !scanner.Scan() {
			break
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			locateDemo()
		case "2":
			resolveDemo(scanner)
		case "3":
			enumerateDemo()
		case "4":
			selfPatchDemo()
		case "5":
			versionDemo()
		case "6":
			fmt.Println("goodbye!")
			return
		default:
			fmt.Println("invalid choice. please enter 1-6.")
		}
	}
}

func locateDemo() {
	fmt.Printf("process: %s, os: %s\n",
		ntpatch.CurrentProcessBitness(), ntpatch.OperatingSystemBitness())

	base, err := ntpatch.GetNativeSystemModuleBase()
	if err != nil {
		fmt.Printf("error: could not locate native ntdll: %v\n", err)
		return
	}
	fmt.Printf("native ntdll at: 0x%x\n", base)
}

func resolveDemo(scanner *bufio.Scanner) {
	fmt.Print("enter export name (e.g. NtQueryInformationProcess): ")
	if !scanner.Scan() {
		return
	}
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		fmt.Println("please enter an export name.")
		return
	}

	base, err := ntpatch.GetNativeSystemModuleBase()
	if err != nil {
		fmt.Printf("error: could not locate native ntdll: %v\n", err)
		return
	}

	addr, err := ntpatch.GetProcedureAddress(base, name)
	if err != nil {
		fmt.Printf("error: could not resolve %s: %v\n", name, err)
		return
	}
	fmt.Printf("%s resolved to: 0x%x (base 0x%x + rva 0x%x)\n", name, addr, base, addr-base)
}

func enumerateDemo() {
	base, err := ntpatch.GetNativeSystemModuleBase()
	if err != nil {
		fmt.Printf("error: could not locate native ntdll: %v\n", err)
		return
	}

	exports, err := ntpatch.EnumerateExports(base)
	if err != nil {
		fmt.Printf("error: could not enumerate exports: %v\n", err)
		return
	}

	shown := exports
	if len(shown) > 16 {
		shown = shown[:16]
	}
	lines := lo.Map(shown, func(e export.Export, _ int) string {
		return fmt.Sprintf("  #%-5d 0x%-10x %s", e.Ordinal, e.VirtualAddress, e.Name)
	})

	fmt.Printf("%d exports, first %d:\n%s\n", len(exports), len(shown), strings.Join(lines, "\n"))
}

func selfPatchDemo() {
	target := make([]byte, 8)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0xCA, 0xFE, 0xBA, 0xBE}

	err := ntpatch.WriteProcessMemory(
		windows.CurrentProcess(),
		uintptr(unsafe.Pointer(&target[0])),
		payload,
	)
	if err != nil {
		fmt.Printf("error: write failed: %v\n", err)
		return
	}
	runtime.KeepAlive(&target[0])

	if bytes.Equal(target, payload) {
		fmt.Printf("patched own memory: % x\n", target)
	} else {
		fmt.Printf("unexpected contents after patch: % x\n", target)
	}
}

func versionDemo() {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		fmt.Printf("error: could not open version key: %v\n", err)
		return
	}
	defer key.Close()

	table := []winreg.ValueQuery{
		{Name: "ProductName", Restrict: winreg.RestrictSZ},
		{Name: "DisplayVersion", Restrict: winreg.RestrictSZ},
		{Name: "CurrentBuildNumber", Restrict: winreg.RestrictSZ},
	}
	ok, err := winreg.QueryMultipleValueData(key, table, false)
	if err != nil || ok == 0 {
		fmt.Printf("error: could not read version values: %v\n", err)
		return
	}

	for _, q := range table {
		if q.Err != nil {
			continue
		}
		fmt.Printf("%-20s %s\n", q.Name, regString(q.Data))
	}
}

// regString decodes a REG_SZ payload, dropping the terminating NUL if the
// value carries one.
func regString(data []byte) string {
	v := make(wstr.View, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		v = append(v, uint16(data[i])|uint16(data[i+1])<<8)
	}
	if n := len(v); n > 0 && v[n-1] == 0 {
		v = v[:n-1]
	}
	return v.String()
}
