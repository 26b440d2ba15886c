// Package codec implements bit-exact encode/decode for the VIB, FDI,
// FDR and DCP on-disk records (spec.md §4.4-4.8), plus the filename
// and timestamp packing rules shared by them.
//
// The style follows the reference library's MarshalBinary/
// UnmarshalBinary and ToBytes/FromBytes pairs (dos33.VTOC,
// prodos.FileDescriptor): plain value types with hand-written,
// offset-by-offset (un)marshaling rather than reflection-based
// struct tags, because several fields here mix byte orders and
// nibble-packed layouts that a generic struct-tag codec cannot express
// bit-exactly.
package codec

import "strings"

// FilenameFieldLength is the fixed width of every on-disk filename
// field (volume name, FDR filename, directory slot name).
const FilenameFieldLength = 10

// NormalizeFilename applies the HFDC filename normalization rule
// (spec.md §4.12): uppercase, replace any character outside
// [A-Z0-9._] with a space, then right-pad with spaces to exactly
// FilenameFieldLength characters (truncating if longer).
func NormalizeFilename(name string) string {
	upper := strings.ToUpper(name)
	var b strings.Builder
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	s := b.String()
	if len(s) > FilenameFieldLength {
		s = s[:FilenameFieldLength]
	}
	for len(s) < FilenameFieldLength {
		s += " "
	}
	return s
}

// EncodeFilenameField returns the NormalizeFilename result as a
// FilenameFieldLength-byte ASCII slice, ready to be placed directly
// into a sector.
func EncodeFilenameField(name string) [FilenameFieldLength]byte {
	var out [FilenameFieldLength]byte
	copy(out[:], NormalizeFilename(name))
	return out
}

// DecodeFilenameField turns a raw on-disk filename field back into a
// Go string, preserving the space padding exactly as stored (callers
// that want a trimmed name should call strings.TrimRight(s, " ")).
func DecodeFilenameField(data []byte) string {
	return string(data)
}

// TrimmedUpper trims trailing spaces and upcases a decoded filename,
// for case-insensitive comparisons (spec.md §4.10 find()).
func TrimmedUpper(name string) string {
	return strings.ToUpper(strings.TrimRight(name, " "))
}
