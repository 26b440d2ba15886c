package bitmap

import (
	"crypto/rand"
	"testing"
)

// TestRoundtripRandom checks that FromBytes(ToBytes()) reproduces the
// same allocation state, for various totalSectors values, and that the
// blocked tail always serializes as 1 bits.
func TestRoundtripRandom(t *testing.T) {
	for _, totalSectors := range []int{1, 2, 8, 9, 360, 1599, 1600} {
		a, err := New(totalSectors)
		if err != nil {
			t.Fatalf("New(%d): %v", totalSectors, err)
		}
		raw := make([]byte, (totalSectors+7)/8)
		rand.Read(raw)
		for i := 0; i < totalSectors; i++ {
			used := raw[i/8]&(1<<uint(i%8)) != 0
			if err := a.Set(i, used); err != nil {
				t.Fatal(err)
			}
		}

		encoded := a.ToBytes()
		if len(encoded) != SerializedSize {
			t.Fatalf("expected %d bytes, got %d", SerializedSize, len(encoded))
		}
		for i := totalSectors; i < MaxBitmapSectors; i++ {
			if encoded[i/8]&(1<<uint(i%8)) == 0 {
				t.Errorf("totalSectors=%d: expected blocked bit %d to be 1", totalSectors, i)
			}
		}

		b, err := FromBytes(encoded[:], totalSectors)
		if err != nil {
			t.Fatalf("FromBytes: %v", err)
		}
		if !a.Equal(b) {
			t.Errorf("totalSectors=%d: roundtrip mismatch", totalSectors)
		}
	}
}

func TestAllocateFirstFree(t *testing.T) {
	a, _ := New(4)
	a.Allocate(0)
	a.Allocate(1)
	idx, ok := a.AllocateFirstFree()
	if !ok || idx != 2 {
		t.Fatalf("expected index 2, got %d ok=%v", idx, ok)
	}
	idx, ok = a.AllocateFirstFree()
	if !ok || idx != 3 {
		t.Fatalf("expected index 3, got %d ok=%v", idx, ok)
	}
	if _, ok = a.AllocateFirstFree(); ok {
		t.Fatal("expected no free sectors")
	}
}

func TestInvalidTotalSectors(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for totalSectors=0")
	}
	if _, err := New(MaxBitmapSectors + 1); err == nil {
		t.Error("expected error for totalSectors>1600")
	}
}

func TestFromBytesShort(t *testing.T) {
	if _, err := FromBytes([]byte{0x00}, 100); err == nil {
		t.Error("expected error for too-short bitmap data")
	}
}

func TestCloneAndCopyFrom(t *testing.T) {
	a, _ := New(8)
	a.Allocate(0)
	a.Allocate(3)

	clone := a.Clone()
	clone.Allocate(5)
	if used, _ := a.IsUsed(5); used {
		t.Error("mutating clone affected original")
	}

	fresh, _ := New(8)
	if err := fresh.CopyFrom(clone); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if !fresh.Equal(clone) {
		t.Error("CopyFrom did not reproduce source state")
	}

	other, _ := New(9)
	if err := fresh.CopyFrom(other); err == nil {
		t.Error("expected error copying between mismatched totalSectors")
	}
}
