// Package bitmap implements the HFDC Allocation Bitmap (ABM): a
// 200-byte, LSB-first, per-sector allocation map with a fixed 1600-bit
// capacity and an implicit "blocked" tail beyond the volume's actual
// sector count.
//
// The bit-twiddling here follows the same mark/IsFree shape as the
// reference library's ProDOS VolumeBitMap, generalized from 512-byte
// blocks to 256-byte sectors and from a variable-length block map to a
// fixed 200-byte one.
package bitmap

import (
	"github.com/tidsk/hfdc/fserrors"
)

// MaxBitmapSectors is the largest sector count an AllocationBitmap can
// represent: 200 bytes * 8 bits.
const MaxBitmapSectors = 1600

// SerializedSize is the number of bytes an AllocationBitmap always
// serializes to.
const SerializedSize = 200

// AllocationBitmap is the mutable in-memory representation of the ABM.
// Bit i (0 = free, 1 = used) describes sector i. Sectors at index >=
// totalSectors are permanently blocked (always 1) and are not part of
// `used`.
type AllocationBitmap struct {
	totalSectors int
	used         []bool // length == totalSectors
}

// New creates an AllocationBitmap for a volume with totalSectors
// sectors, with every bit initially free (0).
func New(totalSectors int) (*AllocationBitmap, error) {
	if totalSectors <= 0 || totalSectors > MaxBitmapSectors {
		return nil, fserrors.InvalidArgumentf("totalSectors must be in (0,%d]; got %d", MaxBitmapSectors, totalSectors)
	}
	return &AllocationBitmap{
		totalSectors: totalSectors,
		used:         make([]bool, totalSectors),
	}, nil
}

// TotalSectors returns the number of addressable (non-blocked) sectors.
func (a *AllocationBitmap) TotalSectors() int {
	return a.totalSectors
}

func (a *AllocationBitmap) checkIndex(i int) error {
	if i < 0 || i >= a.totalSectors {
		return fserrors.OutOfBoundsf("sector index %d out of range [0,%d)", i, a.totalSectors)
	}
	return nil
}

// IsUsed reports whether sector i is marked used.
func (a *AllocationBitmap) IsUsed(i int) (bool, error) {
	if err := a.checkIndex(i); err != nil {
		return false, err
	}
	return a.used[i], nil
}

// Set marks sector i used (true) or free (false).
func (a *AllocationBitmap) Set(i int, used bool) error {
	if err := a.checkIndex(i); err != nil {
		return err
	}
	a.used[i] = used
	return nil
}

// Allocate marks sector i used. It is not an error to allocate an
// already-used sector.
func (a *AllocationBitmap) Allocate(i int) error {
	return a.Set(i, true)
}

// Free marks sector i free. It is not an error to free an already-free
// sector.
func (a *AllocationBitmap) Free(i int) error {
	return a.Set(i, false)
}

// AllocateFirstFree scans sectors [0,totalSectors) in ascending order,
// marks the first free one used, and returns its index. ok is false if
// every sector is already used.
func (a *AllocationBitmap) AllocateFirstFree() (index int, ok bool) {
	for i, used := range a.used {
		if !used {
			a.used[i] = true
			return i, true
		}
	}
	return 0, false
}

// FreeCluster clears the sectorsPerCluster consecutive sectors starting
// at firstSector, i.e. one cluster. It takes a sector number rather
// than a cluster index, so no cluster-range check happens here (callers
// get firstSector from DiskFormat.ClusterToSector, which does one); each
// sector is still bounds-checked against the bitmap and an OutOfBounds
// error stops the loop.
func (a *AllocationBitmap) FreeCluster(firstSector, sectorsPerCluster int) error {
	for s := firstSector; s < firstSector+sectorsPerCluster; s++ {
		if err := a.Free(s); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy of the bitmap, for staging
// speculative allocations that may need to be discarded (spec.md §5).
func (a *AllocationBitmap) Clone() *AllocationBitmap {
	used := make([]bool, len(a.used))
	copy(used, a.used)
	return &AllocationBitmap{totalSectors: a.totalSectors, used: used}
}

// CopyFrom overwrites a's allocation state with other's. Both bitmaps
// must describe the same totalSectors.
func (a *AllocationBitmap) CopyFrom(other *AllocationBitmap) error {
	if a.totalSectors != other.totalSectors {
		return fserrors.InvalidArgumentf("cannot copy bitmap of %d sectors into one of %d", other.totalSectors, a.totalSectors)
	}
	copy(a.used, other.used)
	return nil
}

// ToBytes serializes the bitmap to exactly SerializedSize bytes,
// LSB-first: bit (i%8) of byte (i/8) is sector i. Bits at index >=
// totalSectors are always 1 (the blocked tail).
func (a *AllocationBitmap) ToBytes() [SerializedSize]byte {
	var out [SerializedSize]byte
	for i := 0; i < MaxBitmapSectors; i++ {
		used := true
		if i < a.totalSectors {
			used = a.used[i]
		}
		if used {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// FromBytes reconstructs an AllocationBitmap from its serialized form.
// Only bits [0,totalSectors) are examined; the blocked tail is
// reconstructed implicitly rather than stored.
func FromBytes(data []byte, totalSectors int) (*AllocationBitmap, error) {
	if totalSectors <= 0 || totalSectors > MaxBitmapSectors {
		return nil, fserrors.InvalidArgumentf("totalSectors must be in (0,%d]; got %d", MaxBitmapSectors, totalSectors)
	}
	needed := (totalSectors + 7) / 8
	if len(data) < needed {
		return nil, fserrors.InvalidArgumentf("bitmap data too short: need at least %d bytes for %d sectors, got %d", needed, totalSectors, len(data))
	}
	a := &AllocationBitmap{
		totalSectors: totalSectors,
		used:         make([]bool, totalSectors),
	}
	for i := 0; i < totalSectors; i++ {
		a.used[i] = data[i/8]&(1<<uint(i%8)) != 0
	}
	return a, nil
}

// Equal reports whether two bitmaps describe the same allocation state
// for the same number of sectors.
func (a *AllocationBitmap) Equal(b *AllocationBitmap) bool {
	if a.totalSectors != b.totalSectors {
		return false
	}
	for i := range a.used {
		if a.used[i] != b.used[i] {
			return false
		}
	}
	return true
}

// CountUsed returns the number of sectors in [0,totalSectors) currently
// marked used.
func (a *AllocationBitmap) CountUsed() int {
	n := 0
	for _, used := range a.used {
		if used {
			n++
		}
	}
	return n
}
