// Package sector contains the bounds-checked view into a disk image's
// byte buffer that every codec in this library reads and writes
// through.
package sector

import (
	"github.com/tidsk/hfdc/fserrors"
)

// Size is the fixed size in bytes of every sector on an HFDC/TI-DOS
// disk image.
const Size = 256

// View is a bounds-checked, non-owning window into one 256-byte sector
// of a disk image buffer. Multiple Views may alias into the same
// buffer; writing through a View is immediately visible to every other
// View over the same bytes, because View never copies the buffer it
// was constructed from.
type View struct {
	buf   []byte
	start int
}

// New constructs a View over sector index `index` of buf. It fails with
// an OutOfBounds error if the sector would not fit entirely within buf.
func New(buf []byte, index int) (View, error) {
	start := index * Size
	if index < 0 || start+Size > len(buf) {
		return View{}, fserrors.OutOfBoundsf("sector index %d out of range for a %d-byte buffer", index, len(buf))
	}
	return View{buf: buf, start: start}, nil
}

// ByteAt reads a single byte at the given offset within the sector.
func (v View) ByteAt(offset int) (byte, error) {
	if offset < 0 || offset >= Size {
		return 0, fserrors.OutOfBoundsf("byte offset %d out of range [0,%d)", offset, Size)
	}
	return v.buf[v.start+offset], nil
}

// SetByteAt writes a single byte at the given offset within the
// sector. The write is immediately visible through every other View
// aliasing the same bytes.
func (v View) SetByteAt(offset int, b byte) error {
	if offset < 0 || offset >= Size {
		return fserrors.OutOfBoundsf("byte offset %d out of range [0,%d)", offset, Size)
	}
	v.buf[v.start+offset] = b
	return nil
}

// Bytes returns a 256-byte snapshot (a copy) of the sector's contents.
func (v View) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, v.buf[v.start:v.start+Size])
	return out
}

// Raw returns the live, non-copied 256-byte slice backing this View.
// Callers that compose sector data with encoding/binary can write
// through this slice directly; mutations are visible to every other
// View over the same sector.
func (v View) Raw() []byte {
	return v.buf[v.start : v.start+Size]
}

// SetBytes overwrites the entire 256-byte sector with data. It fails
// with InvalidArgument if data is not exactly Size bytes long.
func (v View) SetBytes(data []byte) error {
	if len(data) != Size {
		return fserrors.InvalidArgumentf("sector data must be exactly %d bytes; got %d", Size, len(data))
	}
	copy(v.buf[v.start:v.start+Size], data)
	return nil
}

// Zero overwrites the entire sector with zero bytes.
func (v View) Zero() {
	buf := v.buf[v.start : v.start+Size]
	for i := range buf {
		buf[i] = 0
	}
}

// Fill overwrites the entire sector with the given byte value.
func (v View) Fill(b byte) {
	buf := v.buf[v.start : v.start+Size]
	for i := range buf {
		buf[i] = b
	}
}

// Read reads a single sector from buf by index, as a copy. It is a
// convenience wrapper equivalent to New(buf, index) followed by
// Bytes(), matching the reference library's ReadSector/WriteSector
// helpers, for the fixed Size-byte sectors a View covers.
func Read(buf []byte, index int) ([]byte, error) {
	v, err := New(buf, index)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

// Write writes exactly Size bytes of data into sector index of buf.
func Write(buf []byte, index int, data []byte) error {
	v, err := New(buf, index)
	if err != nil {
		return err
	}
	return v.SetBytes(data)
}
