package codec

import (
	"encoding/binary"

	"github.com/tidsk/hfdc/fserrors"
)

// FDIEntryCount is the number of FDR-sector-number slots in the File
// Descriptor Index sector.
const FDIEntryCount = 128

// FDISize is the on-disk size of the FDI sector: 128 * 2-byte entries.
const FDISize = FDIEntryCount * 2

// FDI is the decoded File Descriptor Index (spec.md §3, §4.5): 128
// big-endian FDR sector numbers, 0 meaning "slot unused".
type FDI struct {
	entries [FDIEntryCount]uint16
}

// NewFDI returns an all-zero (all-unused) FDI.
func NewFDI() FDI {
	return FDI{}
}

// Get returns the FDR sector number stored in slot i.
func (f FDI) Get(i int) (uint16, error) {
	if i < 0 || i >= FDIEntryCount {
		return 0, fserrors.OutOfBoundsf("FDI slot %d out of range [0,%d)", i, FDIEntryCount)
	}
	return f.entries[i], nil
}

// Set stores sector into slot i. Setting sector 0 marks the slot free.
func (f *FDI) Set(i int, sector uint16) error {
	if i < 0 || i >= FDIEntryCount {
		return fserrors.OutOfBoundsf("FDI slot %d out of range [0,%d)", i, FDIEntryCount)
	}
	f.entries[i] = sector
	return nil
}

// Entries returns a copy of the 128 raw slot values, in slot order.
func (f FDI) Entries() [FDIEntryCount]uint16 {
	return f.entries
}

// EncodeFDI encodes the FDI to exactly FDISize bytes.
func EncodeFDI(f FDI) []byte {
	buf := make([]byte, FDISize)
	for i, e := range f.entries {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], e)
	}
	return buf
}

// DecodeFDI decodes a FDISize-byte sector into an FDI. It fails with
// InvalidArgument if data is not exactly FDISize bytes.
func DecodeFDI(data []byte) (FDI, error) {
	if len(data) != FDISize {
		return FDI{}, fserrors.InvalidArgumentf("FDI sector must be exactly %d bytes; got %d", FDISize, len(data))
	}
	var f FDI
	for i := range f.entries {
		f.entries[i] = binary.BigEndian.Uint16(data[i*2 : i*2+2])
	}
	return f, nil
}
