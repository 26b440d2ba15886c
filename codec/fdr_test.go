package codec

import (
	"testing"
)

func TestFDRHeaderRoundtrip(t *testing.T) {
	fdr := FDR{
		Filename:              "HELLO",
		ExtendedRecordLength:  0,
		Status:                StatusVariable | StatusBackup,
		RecordsPerSector:      1,
		TotalSectorsAllocated: 3,
		EOFOffset:             42,
		LogicalRecordLength:   80,
		Level3RecordsUsed:     7,
		Created:               Timestamp{Year: 1983, Month: 6, Day: 15, Hour: 10, Minute: 30, Second: 20},
		Updated:               Timestamp{Year: 2026, Month: 7, Day: 31, Hour: 23, Minute: 59, Second: 58},
	}

	var sector [256]byte
	if err := EncodeFDRHeader(fdr, sector[:]); err != nil {
		t.Fatalf("EncodeFDRHeader: %v", err)
	}

	got, err := DecodeFDRHeader(sector[:])
	if err != nil {
		t.Fatalf("DecodeFDRHeader: %v", err)
	}

	if got.Filename != "HELLO" {
		t.Errorf("Filename = %q, want %q", got.Filename, "HELLO")
	}
	if got.Status != fdr.Status {
		t.Errorf("Status = %#x, want %#x", got.Status, fdr.Status)
	}
	if got.RecordsPerSector != fdr.RecordsPerSector {
		t.Errorf("RecordsPerSector = %d, want %d", got.RecordsPerSector, fdr.RecordsPerSector)
	}
	if got.TotalSectorsAllocated != fdr.TotalSectorsAllocated {
		t.Errorf("TotalSectorsAllocated = %d, want %d", got.TotalSectorsAllocated, fdr.TotalSectorsAllocated)
	}
	if got.EOFOffset != fdr.EOFOffset {
		t.Errorf("EOFOffset = %d, want %d", got.EOFOffset, fdr.EOFOffset)
	}
	if got.LogicalRecordLength != fdr.LogicalRecordLength {
		t.Errorf("LogicalRecordLength = %d, want %d", got.LogicalRecordLength, fdr.LogicalRecordLength)
	}
	if got.Level3RecordsUsed != fdr.Level3RecordsUsed {
		t.Errorf("Level3RecordsUsed = %d, want %d", got.Level3RecordsUsed, fdr.Level3RecordsUsed)
	}
	if got.Created != fdr.Created {
		t.Errorf("Created = %+v, want %+v", got.Created, fdr.Created)
	}
	if got.Updated != fdr.Updated {
		t.Errorf("Updated = %+v, want %+v", got.Updated, fdr.Updated)
	}
}

func TestFDRLevel3RecordsLittleEndian(t *testing.T) {
	fdr := FDR{
		Filename:          "X",
		Level3RecordsUsed: 0x0102,
		Created:           Timestamp{Year: 2000, Month: 1, Day: 1},
		Updated:           Timestamp{Year: 2000, Month: 1, Day: 1},
	}
	var sector [256]byte
	if err := EncodeFDRHeader(fdr, sector[:]); err != nil {
		t.Fatalf("EncodeFDRHeader: %v", err)
	}
	// Level-3 record count is little-endian: low byte first.
	if sector[fdrOffLevel3RecordsUsed] != 0x02 || sector[fdrOffLevel3RecordsUsed+1] != 0x01 {
		t.Errorf("expected LE16 0x0102 at offset 0x12, got %#x %#x", sector[fdrOffLevel3RecordsUsed], sector[fdrOffLevel3RecordsUsed+1])
	}
}

func TestFDRStatusReservedBitsCleared(t *testing.T) {
	fdr := FDR{
		Filename: "X",
		Status:   0xFF, // includes reserved bits 2 and 6
		Created:  Timestamp{Year: 2000, Month: 1, Day: 1},
		Updated:  Timestamp{Year: 2000, Month: 1, Day: 1},
	}
	var sector [256]byte
	if err := EncodeFDRHeader(fdr, sector[:]); err != nil {
		t.Fatalf("EncodeFDRHeader: %v", err)
	}
	if sector[fdrOffStatus]&statusReservedMask != 0 {
		t.Errorf("reserved status bits not cleared: %#x", sector[fdrOffStatus])
	}

	got, err := DecodeFDRHeader(sector[:])
	if err != nil {
		t.Fatalf("DecodeFDRHeader: %v", err)
	}
	if got.Status&statusReservedMask != 0 {
		t.Errorf("decoded status has reserved bits set: %#x", got.Status)
	}
}

func TestFDRHeaderWrongSize(t *testing.T) {
	if err := EncodeFDRHeader(FDR{}, make([]byte, 100)); err == nil {
		t.Error("expected error for short sector")
	}
	if _, err := DecodeFDRHeader(make([]byte, 100)); err == nil {
		t.Error("expected error for short sector")
	}
}
