package export

import (
	"fmt"

	"github.com/Binject/debug/pe"

	"github.com/carved4/go-ntpatch/pkg/ntstatus"
)

// Export is one entry of a module's export table.
type Export struct {
	Name           string
	VirtualAddress uint32
	Ordinal        uint32
}

// Enumerate lists every export of an in-memory PE image, including
// ordinal-only entries.
func Enumerate(image []byte) ([]Export, error) {
	if len(image) == 0 {
		return nil, ntstatus.New(ntstatus.InvalidParameter)
	}

	file, err := pe.NewFileFromMemory(&memoryReaderAt{data: image})
	if err != nil {
		return nil, ntstatus.New(ntstatus.InvalidImageFormat)
	}
	defer file.Close()

	exports, err := file.Exports()
	if err != nil {
		return nil, ntstatus.New(ntstatus.InvalidImageFormat)
	}

	out := make([]Export, 0, len(exports))
	for _, e := range exports {
		out = append(out, Export{
			Name:           e.Name,
			VirtualAddress: e.VirtualAddress,
			Ordinal:        e.Ordinal,
		})
	}
	return out, nil
}

type memoryReaderAt struct {
	data []byte
}

func (r *memoryReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off >= int64(len(r.data)) {
		return 0, fmt.Errorf("offset out of range")
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = fmt.Errorf("EOF")
	}
	return n, err
}
