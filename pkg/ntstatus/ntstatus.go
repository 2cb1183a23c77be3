package ntstatus

import (
	"errors"
	"fmt"
)

// NTSTATUS codes surfaced by this library.
const (
	Unsuccessful       uint32 = 0xC0000001
	InvalidParameter   uint32 = 0xC000000D
	ObjectTypeMismatch uint32 = 0xC0000024
	InvalidImageFormat uint32 = 0xC000007B
	DllNotFound        uint32 = 0xC0000135
	EntrypointNotFound uint32 = 0xC0000139
)

type Error struct {
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("NTSTATUS 0x%08X", e.Code)
}

// New creates an error carrying an NTSTATUS code.
func New(code uint32) error {
	return &Error{Code: code}
}

// IsCode checks whether err, or anything it wraps, carries the given code.
func IsCode(err error, code uint32) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
