//go:build windows

// Package winreg wraps registry value queries behind type-restricted
// helpers, in the shape of RegGetValue rather than the raw NT calls.
package winreg

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows/registry"

	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

// RestrictMask filters which registry value types a query accepts. Bit n
// admits value type n.
type RestrictMask uint32

const (
	RestrictSZ       RestrictMask = 1 << registry.SZ
	RestrictExpandSZ RestrictMask = 1 << registry.EXPAND_SZ
	RestrictBinary   RestrictMask = 1 << registry.BINARY
	RestrictDWORD    RestrictMask = 1 << registry.DWORD
	RestrictMultiSZ  RestrictMask = 1 << registry.MULTI_SZ
	RestrictQWORD    RestrictMask = 1 << registry.QWORD
	RestrictAny      RestrictMask = ^RestrictMask(0)
)

// QueryValueData reads one value, returning its raw bytes and type. A value
// whose type the mask rejects fails with ObjectTypeMismatch, with the type
// still reported so the caller can see what it actually was.
func QueryValueData(key registry.Key, name string, restrict RestrictMask) ([]byte, uint32, error) {
	if restrict == 0 {
		return nil, 0, ntstatus.New(ntstatus.InvalidParameter)
	}

	n, typ, err := key.GetValue(name, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "RegQueryValueEx")
	}

	buf := make([]byte, n)
	n, typ, err = key.GetValue(name, buf)
	if err != nil {
		return nil, typ, errors.Wrap(err, "RegQueryValueEx")
	}

	if typ < 32 && restrict&(1<<typ) == 0 {
		return nil, typ, ntstatus.New(ntstatus.ObjectTypeMismatch)
	}
	return buf[:n], typ, nil
}

// ValueQuery is one row of a multi-value query table. Data, Type and Err are
// filled in per row.
type ValueQuery struct {
	Name     string
	Restrict RestrictMask

	Data []byte
	Type uint32
	Err  error
}

// QueryMultipleValueData runs every query in the table, recording each row's
// outcome in place, and returns how many rows succeeded. With failFast set
// it stops at the first failing row and reports failure; otherwise failed
// rows are skipped and the call as a whole succeeds.
func QueryMultipleValueData(key registry.Key, table []ValueQuery, failFast bool) (int, error) {
	if len(table) == 0 {
		return 0, ntstatus.New(ntstatus.InvalidParameter)
	}

	ok := 0
	for i := range table {
		q := &table[i]
		q.Data, q.Type, q.Err = QueryValueData(key, q.Name, q.Restrict)
		if q.Err != nil {
			if failFast {
				return ok, ntstatus.New(ntstatus.Unsuccessful)
			}
			continue
		}
		ok++
	}
	return ok, nil
}
