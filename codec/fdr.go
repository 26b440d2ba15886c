package codec

import (
	"encoding/binary"
	"strings"

	"github.com/tidsk/hfdc/fserrors"
)

// File-status byte bit masks (spec.md §3).
const (
	StatusProgram  byte = 1 << 0
	StatusInternal byte = 1 << 1
	StatusProtected byte = 1 << 3
	StatusBackup   byte = 1 << 4
	StatusEmulated byte = 1 << 5
	StatusVariable byte = 1 << 7

	statusReservedMask byte = 1<<2 | 1<<6
)

// FDR is the decoded File Descriptor Record header (spec.md §3, §6).
// Its data chain is decoded/encoded separately via DecodeDCP/EncodeDCP.
type FDR struct {
	Filename              string
	ExtendedRecordLength  uint16
	Status                byte
	RecordsPerSector      byte
	TotalSectorsAllocated uint16
	EOFOffset             byte
	LogicalRecordLength   byte
	Level3RecordsUsed     uint16
	Created               Timestamp
	Updated               Timestamp
}

const (
	fdrOffFilename             = 0x00
	fdrOffExtendedRecordLength = 0x0A
	fdrOffStatus               = 0x0C
	fdrOffRecordsPerSector     = 0x0D
	fdrOffTotalSectors         = 0x0E
	fdrOffEOFOffset            = 0x10
	fdrOffLogicalRecordLength  = 0x11
	fdrOffLevel3RecordsUsed    = 0x12
	fdrOffCreated              = 0x14
	fdrOffUpdated              = 0x18
)

// IsProgram reports whether the file-status byte marks a PROGRAM file.
func IsProgram(status byte) bool { return status&StatusProgram != 0 }

// IsInternal reports whether the file-status byte marks an INTERNAL
// file (as opposed to DISPLAY).
func IsInternal(status byte) bool { return status&StatusInternal != 0 }

// IsVariable reports whether the file-status byte marks a VARIABLE
// record length file (as opposed to FIXED).
func IsVariable(status byte) bool { return status&StatusVariable != 0 }

// EncodeFDRHeader writes fdr's fixed-size header fields (everything
// except the DCP chain) into a 256-byte FDR sector. The DCP region
// (offset DCPOffset onward) is left untouched; callers write it
// separately with EncodeDCP.
func EncodeFDRHeader(fdr FDR, sector []byte) error {
	if len(sector) != 256 {
		return fserrors.InvalidArgumentf("FDR sector must be exactly 256 bytes; got %d", len(sector))
	}

	copy(sector[fdrOffFilename:fdrOffFilename+FilenameFieldLength], NormalizeFilename(fdr.Filename))
	binary.BigEndian.PutUint16(sector[fdrOffExtendedRecordLength:fdrOffExtendedRecordLength+2], fdr.ExtendedRecordLength)
	sector[fdrOffStatus] = fdr.Status &^ statusReservedMask
	sector[fdrOffRecordsPerSector] = fdr.RecordsPerSector
	binary.BigEndian.PutUint16(sector[fdrOffTotalSectors:fdrOffTotalSectors+2], fdr.TotalSectorsAllocated)
	sector[fdrOffEOFOffset] = fdr.EOFOffset
	sector[fdrOffLogicalRecordLength] = fdr.LogicalRecordLength
	binary.LittleEndian.PutUint16(sector[fdrOffLevel3RecordsUsed:fdrOffLevel3RecordsUsed+2], fdr.Level3RecordsUsed)

	created, err := PackTimestamp(fdr.Created)
	if err != nil {
		return fserrors.InvalidArgumentf("packing creation timestamp: %v", err)
	}
	binary.BigEndian.PutUint32(sector[fdrOffCreated:fdrOffCreated+4], created)

	updated, err := PackTimestamp(fdr.Updated)
	if err != nil {
		return fserrors.InvalidArgumentf("packing update timestamp: %v", err)
	}
	binary.BigEndian.PutUint32(sector[fdrOffUpdated:fdrOffUpdated+4], updated)

	return nil
}

// DecodeFDRHeader decodes the fixed-size header fields of a 256-byte
// FDR sector. The DCP chain is decoded separately via DecodeDCP.
func DecodeFDRHeader(sector []byte) (FDR, error) {
	if len(sector) != 256 {
		return FDR{}, fserrors.InvalidArgumentf("FDR sector must be exactly 256 bytes; got %d", len(sector))
	}

	fdr := FDR{
		Filename:              strings.TrimRight(string(sector[fdrOffFilename:fdrOffFilename+FilenameFieldLength]), " "),
		ExtendedRecordLength:  binary.BigEndian.Uint16(sector[fdrOffExtendedRecordLength : fdrOffExtendedRecordLength+2]),
		Status:                sector[fdrOffStatus] &^ statusReservedMask,
		RecordsPerSector:      sector[fdrOffRecordsPerSector],
		TotalSectorsAllocated: binary.BigEndian.Uint16(sector[fdrOffTotalSectors : fdrOffTotalSectors+2]),
		EOFOffset:             sector[fdrOffEOFOffset],
		LogicalRecordLength:   sector[fdrOffLogicalRecordLength],
		Level3RecordsUsed:     binary.LittleEndian.Uint16(sector[fdrOffLevel3RecordsUsed : fdrOffLevel3RecordsUsed+2]),
		Created:               UnpackTimestamp(binary.BigEndian.Uint32(sector[fdrOffCreated : fdrOffCreated+4])),
		Updated:               UnpackTimestamp(binary.BigEndian.Uint32(sector[fdrOffUpdated : fdrOffUpdated+4])),
	}
	return fdr, nil
}
