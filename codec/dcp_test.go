package codec

import (
	"crypto/rand"
	"reflect"
	"testing"

	"github.com/tidsk/hfdc/fserrors"
)

func TestDCPEntryRoundtrip(t *testing.T) {
	cases := []struct {
		start, length int
	}{
		{0, 0},
		{1, 0},
		{0, 4095},
		{4095, 0},
		{123, 45},
		{4095, 4095},
	}
	for _, c := range cases {
		b0, b1, b2 := encodeDCPEntry(c.start, c.length)
		start, length := decodeDCPEntry(b0, b1, b2)
		if start != c.start || length != c.length {
			t.Errorf("entry(%d,%d) roundtrip got (%d,%d)", c.start, c.length, start, length)
		}
	}
}

func TestDCPSingleRunRoundtrip(t *testing.T) {
	clusters := []int{5, 6, 7, 8}
	packed, err := EncodeDCP(clusters)
	if err != nil {
		t.Fatalf("EncodeDCP: %v", err)
	}

	var sector [256]byte
	copy(sector[DCPOffset:], packed[:])

	got, err := DecodeDCP(sector[:])
	if err != nil {
		t.Fatalf("DecodeDCP: %v", err)
	}
	if !reflect.DeepEqual(got, clusters) {
		t.Errorf("got %v, want %v", got, clusters)
	}
}

func TestDCPFragmentedRoundtrip(t *testing.T) {
	// Two disjoint runs: [2,3] and [10].
	clusters := []int{2, 3, 10}
	packed, err := EncodeDCP(clusters)
	if err != nil {
		t.Fatalf("EncodeDCP: %v", err)
	}

	var sector [256]byte
	copy(sector[DCPOffset:], packed[:])

	got, err := DecodeDCP(sector[:])
	if err != nil {
		t.Fatalf("DecodeDCP: %v", err)
	}
	if !reflect.DeepEqual(got, clusters) {
		t.Errorf("got %v, want %v", got, clusters)
	}
}

func TestDCPEmptyRoundtrip(t *testing.T) {
	packed, err := EncodeDCP(nil)
	if err != nil {
		t.Fatalf("EncodeDCP(nil): %v", err)
	}
	var sector [256]byte
	copy(sector[DCPOffset:], packed[:])

	got, err := DecodeDCP(sector[:])
	if err != nil {
		t.Fatalf("DecodeDCP: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestDCPRandomRoundtrip(t *testing.T) {
	for trial := 0; trial < 20; trial++ {
		n := 1 + trial%30
		clusters := make([]int, 0, n)
		next := trial
		for i := 0; i < n; i++ {
			b := make([]byte, 1)
			if _, err := rand.Read(b); err != nil {
				t.Fatalf("rand.Read: %v", err)
			}
			next += 1 + int(b[0]%5)
			clusters = append(clusters, next)
		}

		packed, err := EncodeDCP(clusters)
		if err != nil {
			t.Fatalf("EncodeDCP(%v): %v", clusters, err)
		}
		var sector [256]byte
		copy(sector[DCPOffset:], packed[:])

		got, err := DecodeDCP(sector[:])
		if err != nil {
			t.Fatalf("DecodeDCP: %v", err)
		}
		if !reflect.DeepEqual(got, clusters) {
			t.Fatalf("trial %d: got %v, want %v", trial, got, clusters)
		}
	}
}

func TestDCPOutOfSpace(t *testing.T) {
	// One run per cluster (non-contiguous) needs 76 slots (75 runs +
	// terminator) to fit in 228 bytes / 3 = 76 total; 76 disjoint
	// clusters need 76 runs + 1 terminator = 77 slots, which overflows.
	clusters := make([]int, 76)
	for i := range clusters {
		clusters[i] = i * 2 // every other cluster: no two adjacent
	}
	_, err := EncodeDCP(clusters)
	if err == nil {
		t.Fatal("expected OutOfSpace, got nil")
	}
	if !fserrors.IsOutOfSpace(err) {
		t.Errorf("expected OutOfSpace, got %v", err)
	}
}

func TestDCPTerminatorStopsDecoding(t *testing.T) {
	var sector [256]byte
	// First entry: cluster 5 only.
	b0, b1, b2 := encodeDCPEntry(5, 0)
	sector[DCPOffset] = b0
	sector[DCPOffset+1] = b1
	sector[DCPOffset+2] = b2
	// Terminator immediately follows; remaining bytes are garbage that
	// must not be consulted.
	for i := DCPOffset + 6; i < 256; i++ {
		sector[i] = 0xFF
	}

	got, err := DecodeDCP(sector[:])
	if err != nil {
		t.Fatalf("DecodeDCP: %v", err)
	}
	if !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("got %v, want [5]", got)
	}
}
