package codec

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/tidsk/hfdc/bitmap"
)

func TestVIBRoundtrip(t *testing.T) {
	abm, err := bitmap.New(360)
	if err != nil {
		t.Fatalf("bitmap.New: %v", err)
	}
	abm.Allocate(0)
	abm.Allocate(1)
	abm.Allocate(40)

	v := VIB{
		VolumeName:      "MYDISK",
		TotalSectors:    360,
		SectorsPerTrack: 9,
		TracksPerSide:   40,
		Sides:           1,
		Density:         1,
		Directories: [3]DirectorySlot{
			{Name: "DIR1", FDIPointer: 5},
			{},
			{},
		},
	}

	encoded, err := EncodeVIB(v, abm)
	if err != nil {
		t.Fatalf("EncodeVIB: %v", err)
	}

	got, gotABM, err := DecodeVIB(encoded)
	if err != nil {
		t.Fatalf("DecodeVIB: %v", err)
	}

	// Normalize the volume name and directory slot names the same way
	// the codec does, and ignore the reserved byte at 0x10 (property 2).
	want := v
	want.VolumeName = NormalizeFilename(v.VolumeName)
	for i := range want.Directories {
		want.Directories[i].Name = NormalizeFilename(v.Directories[i].Name)
	}
	got.VolumeName = NormalizeFilename(got.VolumeName)
	for i := range got.Directories {
		got.Directories[i].Name = NormalizeFilename(got.Directories[i].Name)
	}

	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("VIB roundtrip mismatch: %s", strings.Join(diff, "; "))
	}
	if !gotABM.Equal(abm) {
		t.Error("embedded AllocationBitmap roundtrip mismatch")
	}
}

func TestVIBRejectsBadSignature(t *testing.T) {
	abm, _ := bitmap.New(360)
	encoded, err := EncodeVIB(VIB{TotalSectors: 360}, abm)
	if err != nil {
		t.Fatalf("EncodeVIB: %v", err)
	}
	encoded[vibOffSignature] = 'X'
	if _, _, err := DecodeVIB(encoded); err == nil {
		t.Error("expected Corrupt error for bad signature")
	}
}

func TestVIBRejectsOversizedBitmapSpan(t *testing.T) {
	abm, _ := bitmap.New(360)
	encoded, err := EncodeVIB(VIB{TotalSectors: 360}, abm)
	if err != nil {
		t.Fatalf("EncodeVIB: %v", err)
	}
	// Scenario S6: declare totalSectors = 2000, whose bitmap span
	// (250 bytes) exceeds the 200-byte ABM.
	encoded[vibOffTotalSectors] = 0x07
	encoded[vibOffTotalSectors+1] = 0xD0 // 2000
	if _, _, err := DecodeVIB(encoded); err == nil {
		t.Error("expected Corrupt error for oversized bitmap span")
	}
}
