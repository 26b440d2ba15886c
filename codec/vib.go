package codec

import (
	"encoding/binary"
	"strings"

	"github.com/tidsk/hfdc/bitmap"
	"github.com/tidsk/hfdc/fserrors"
)

// DirectorySlot is one of the VIB's three legacy directory-entry
// slots: a 10-byte name plus a 16-bit FDI pointer.
type DirectorySlot struct {
	Name      string
	FDIPointer uint16
}

// VIB is the decoded Volume Information Block (spec.md §3, §6 "VIB
// layout"). It does not embed an AllocationBitmap at rest: the ABM is
// owned by the FilesystemImage, and is only borrowed by Encode/Decode
// for the duration of the call (spec.md §9 "Cyclic references").
type VIB struct {
	VolumeName      string
	TotalSectors    int
	SectorsPerTrack int
	TracksPerSide   int
	Sides           int
	Density         byte
	Directories     [3]DirectorySlot
}

const (
	vibOffVolumeName      = 0x00
	vibOffTotalSectors    = 0x0A
	vibOffSectorsPerTrack = 0x0C
	vibOffSignature       = 0x0D
	vibOffReserved        = 0x10
	vibOffTracksPerSide   = 0x11
	vibOffSides           = 0x12
	vibOffDensity         = 0x13
	vibOffDir1Name        = 0x14
	vibOffDir1Pointer     = 0x1E
	vibOffDir2Name        = 0x20
	vibOffDir2Pointer     = 0x2A
	vibOffDir3Name        = 0x2C
	vibOffDir3Pointer     = 0x36
	vibOffABM             = 0x38
)

var vibSignature = [3]byte{'D', 'S', 'K'}

// dirSlotOffsets returns the (nameOffset, pointerOffset) for slot index
// i (0,1,2).
func dirSlotOffsets(i int) (int, int) {
	switch i {
	case 0:
		return vibOffDir1Name, vibOffDir1Pointer
	case 1:
		return vibOffDir2Name, vibOffDir2Pointer
	default:
		return vibOffDir3Name, vibOffDir3Pointer
	}
}

// EncodeVIB encodes v and its AllocationBitmap abm into exactly 256
// bytes, per spec.md §4.4 and §6.
func EncodeVIB(v VIB, abm *bitmap.AllocationBitmap) ([]byte, error) {
	buf := make([]byte, 256)

	copy(buf[vibOffVolumeName:vibOffVolumeName+FilenameFieldLength], NormalizeFilename(v.VolumeName))
	binary.BigEndian.PutUint16(buf[vibOffTotalSectors:vibOffTotalSectors+2], uint16(v.TotalSectors))
	buf[vibOffSectorsPerTrack] = byte(v.SectorsPerTrack)
	copy(buf[vibOffSignature:vibOffSignature+3], vibSignature[:])
	buf[vibOffReserved] = 0
	buf[vibOffTracksPerSide] = byte(v.TracksPerSide)
	buf[vibOffSides] = byte(v.Sides)
	buf[vibOffDensity] = v.Density

	for i, slot := range v.Directories {
		nameOff, ptrOff := dirSlotOffsets(i)
		copy(buf[nameOff:nameOff+FilenameFieldLength], NormalizeFilename(slot.Name))
		binary.BigEndian.PutUint16(buf[ptrOff:ptrOff+2], slot.FDIPointer)
	}

	bitmapBytes := (v.TotalSectors + 7) / 8
	if bitmapBytes > bitmap.SerializedSize {
		return nil, fserrors.Corruptf("VIB declares %d sectors, whose bitmap span (%d bytes) exceeds the 200-byte ABM", v.TotalSectors, bitmapBytes)
	}

	abmBytes := abm.ToBytes()
	// The ABM already encodes indices >= TotalSectors as 1 (blocked),
	// so writing the full 200 bytes at offset 0x38 naturally produces
	// the 0xFF tail beyond the volume's declared bitmapBytes span too.
	copy(buf[vibOffABM:vibOffABM+bitmap.SerializedSize], abmBytes[:])

	return buf, nil
}

// DecodeVIB decodes a 256-byte VIB sector, returning the VIB value and
// its embedded AllocationBitmap. It fails with Corrupt if the
// signature doesn't match "DSK" or the declared sector count implies a
// bitmap span larger than 200 bytes.
func DecodeVIB(data []byte) (VIB, *bitmap.AllocationBitmap, error) {
	if len(data) != 256 {
		return VIB{}, nil, fserrors.InvalidArgumentf("VIB sector must be exactly 256 bytes; got %d", len(data))
	}

	totalSectors := int(binary.BigEndian.Uint16(data[vibOffTotalSectors : vibOffTotalSectors+2]))
	bitmapBytes := (totalSectors + 7) / 8
	if bitmapBytes > bitmap.SerializedSize {
		return VIB{}, nil, fserrors.Corruptf("VIB declares %d total sectors, whose bitmap span (%d bytes) exceeds the 200-byte ABM", totalSectors, bitmapBytes)
	}
	if string(data[vibOffSignature:vibOffSignature+3]) != string(vibSignature[:]) {
		return VIB{}, nil, fserrors.Corruptf("VIB signature mismatch: got %q, want %q", data[vibOffSignature:vibOffSignature+3], vibSignature)
	}
	if totalSectors <= 0 {
		return VIB{}, nil, fserrors.Corruptf("VIB declares non-positive total sectors: %d", totalSectors)
	}

	v := VIB{
		VolumeName:      strings.TrimRight(string(data[vibOffVolumeName:vibOffVolumeName+FilenameFieldLength]), " "),
		TotalSectors:    totalSectors,
		SectorsPerTrack: int(data[vibOffSectorsPerTrack]),
		TracksPerSide:   int(data[vibOffTracksPerSide]),
		Sides:           int(data[vibOffSides]),
		Density:         data[vibOffDensity],
	}
	for i := range v.Directories {
		nameOff, ptrOff := dirSlotOffsets(i)
		v.Directories[i] = DirectorySlot{
			Name:       strings.TrimRight(string(data[nameOff:nameOff+FilenameFieldLength]), " "),
			FDIPointer: binary.BigEndian.Uint16(data[ptrOff : ptrOff+2]),
		}
	}

	abm, err := bitmap.FromBytes(data[vibOffABM:vibOffABM+bitmap.SerializedSize], totalSectors)
	if err != nil {
		return VIB{}, nil, fserrors.Corruptf("decoding embedded allocation bitmap: %v", err)
	}

	return v, abm, nil
}
