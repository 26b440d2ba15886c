package codec

import "github.com/tidsk/hfdc/fserrors"

// DCPOffset is the byte offset within an FDR sector where the Data
// Chain Pointer list begins (spec.md §3, §6).
const DCPOffset = 0x1C

// dcpEntrySize is the size in bytes of one packed DCP entry.
const dcpEntrySize = 3

// dcpMaxRunLength is the largest value the 12-bit length-minus-one
// field can hold.
const dcpMaxRunLength = 0xFFF

// decodeDCPEntry unpacks one 3-byte nibble-packed DCP entry into its
// (start cluster, run length - 1) pair, per spec.md §3.
func decodeDCPEntry(b0, b1, b2 byte) (start, length int) {
	n1 := int(b0 & 0x0F)
	n2 := int((b0 >> 4) & 0x0F)
	n3 := int(b1 & 0x0F)
	m1 := int((b1 >> 4) & 0x0F)
	m2 := int(b2 & 0x0F)
	m3 := int((b2 >> 4) & 0x0F)

	start = (n3 << 8) | (n2 << 4) | n1
	length = (m3 << 8) | (m2 << 4) | m1
	return start, length
}

// encodeDCPEntry is the inverse of decodeDCPEntry (spec.md §4.7
// "packing rule").
func encodeDCPEntry(start, length int) (b0, b1, b2 byte) {
	n1 := byte(start & 0x0F)
	n2 := byte((start >> 4) & 0x0F)
	n3 := byte((start >> 8) & 0x0F)
	m1 := byte(length & 0x0F)
	m2 := byte((length >> 4) & 0x0F)
	m3 := byte((length >> 8) & 0x0F)

	b0 = (n2 << 4) | n1
	b1 = (m1 << 4) | n3
	b2 = (m3 << 4) | m2
	return b0, b1, b2
}

// DecodeDCP reads the data chain from a 256-byte FDR sector, starting
// at DCPOffset, expanding each packed run into its cluster indices. It
// stops at the first (0,0,0) terminator block, or when the next 3-byte
// window would start past offset 253, i.e. run past the end of the
// sector (spec.md §4.7).
func DecodeDCP(fdrSector []byte) ([]int, error) {
	if len(fdrSector) != 256 {
		return nil, fserrors.InvalidArgumentf("FDR sector must be exactly 256 bytes; got %d", len(fdrSector))
	}
	var clusters []int
	for off := DCPOffset; off+2 < 256; off += dcpEntrySize {
		b0, b1, b2 := fdrSector[off], fdrSector[off+1], fdrSector[off+2]
		if b0 == 0 && b1 == 0 && b2 == 0 {
			return clusters, nil
		}
		start, length := decodeDCPEntry(b0, b1, b2)
		for c := start; c <= start+length; c++ {
			clusters = append(clusters, c)
		}
	}
	return clusters, nil
}

// dcpRuns groups a cluster list into maximal contiguous runs, in the
// order the clusters are given (spec.md §4.7): run[i] starts a new
// block whenever it is not prev+1.
func dcpRuns(clusters []int) [][2]int {
	var runs [][2]int
	for i, c := range clusters {
		if i > 0 && c == clusters[i-1]+1 {
			runs[len(runs)-1][1] = c
			continue
		}
		runs = append(runs, [2]int{c, c})
	}
	return runs
}

// EncodeDCP writes the data chain for clusters into a DCPOffset..255
// region of a 256-byte FDR sector: one packed 3-byte entry per
// maximal contiguous run, followed by a (0,0,0) terminator, with the
// remainder of the sector up to offset 255 zeroed. It fails with
// OutOfSpace if the entries plus terminator would not fit.
func EncodeDCP(clusters []int) ([256 - DCPOffset]byte, error) {
	var out [256 - DCPOffset]byte

	runs := dcpRuns(clusters)
	needed := (len(runs) + 1) * dcpEntrySize // + 1 for the terminator
	if needed > len(out) {
		return out, fserrors.OutOfSpacef("data chain for %d cluster(s) needs %d run(s) (%d bytes incl. terminator), but only %d bytes are available in the FDR sector", len(clusters), len(runs), needed, len(out))
	}

	off := 0
	for _, run := range runs {
		start, last := run[0], run[1]
		length := last - start
		if length > dcpMaxRunLength {
			return out, fserrors.OutOfBoundsf("contiguous run of %d clusters starting at %d exceeds the maximum encodable run length (%d)", length+1, start, dcpMaxRunLength+1)
		}
		b0, b1, b2 := encodeDCPEntry(start, length)
		out[off], out[off+1], out[off+2] = b0, b1, b2
		off += dcpEntrySize
	}
	// out[off:] is already zero-valued: terminator plus zero padding.
	return out, nil
}
