// Package image implements the FilesystemImage aggregate: the byte
// buffer plus the decoded VIB, AllocationBitmap, FDI and FDR list that
// together describe one HFDC/TI-DOS volume, and the Formatter that
// initializes a blank buffer into a valid empty filesystem.
//
// The aggregate-plus-ordered-file-list shape follows the reference
// library's Operator types (dos33.Operator, prodos.Operator), which
// likewise hold a decoded directory structure alongside the raw disk
// bytes and expose find/catalog-style accessors over it.
package image

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tidsk/hfdc/bitmap"
	"github.com/tidsk/hfdc/codec"
	"github.com/tidsk/hfdc/format"
	"github.com/tidsk/hfdc/fserrors"
)

// FileEntry pairs a decoded FDR with the sector it lives in.
type FileEntry struct {
	FDR    codec.FDR
	Sector int
}

// Descriptor is a read-only, non-persisted summary of one live file,
// suitable for listing (spec.md §3.1 supplemental).
type Descriptor struct {
	Name     string
	Sectors  int
	Length   int
	Locked   bool
	Program  bool
	Internal bool
	Variable bool
}

// FilesystemImage is the mutable in-memory aggregate for one HFDC
// volume: its geometry, backing byte buffer, allocation bitmap,
// volume information block, file descriptor index, and ordered list
// of live files.
type FilesystemImage struct {
	Format format.DiskFormat
	Buf    []byte
	ABM    *bitmap.AllocationBitmap
	VIB    codec.VIB
	FDI    codec.FDI
	Files  []FileEntry
}

// Find returns the file entry whose normalized filename matches name
// (case-insensitive, trimmed), or ok=false if none match.
func (img *FilesystemImage) Find(name string) (*FileEntry, bool) {
	target := codec.TrimmedUpper(name)
	for i := range img.Files {
		if codec.TrimmedUpper(img.Files[i].FDR.Filename) == target {
			return &img.Files[i], true
		}
	}
	return nil, false
}

// FreeFDISlot returns the index of the first FDI entry whose value is
// 0, or ok=false if every slot is occupied.
func (img *FilesystemImage) FreeFDISlot() (int, bool) {
	for i := 0; i < codec.FDIEntryCount; i++ {
		v, err := img.FDI.Get(i)
		if err != nil {
			return 0, false
		}
		if v == 0 {
			return i, true
		}
	}
	return 0, false
}

// AddFile appends fdr (located at fdrSector) to the in-memory file
// list. It does not touch the FDI or ABM; callers are responsible for
// those (FileService.Create does both as part of its atomic sequence).
func (img *FilesystemImage) AddFile(fdr codec.FDR, fdrSector int) {
	img.Files = append(img.Files, FileEntry{FDR: fdr, Sector: fdrSector})
}

// Remove deletes the file entry at fdrSector from the in-memory file
// list.
func (img *FilesystemImage) Remove(fdrSector int) {
	for i := range img.Files {
		if img.Files[i].Sector == fdrSector {
			img.Files = append(img.Files[:i], img.Files[i+1:]...)
			return
		}
	}
}

// Rename updates the filename of the in-memory file entry at
// fdrSector. This is the in-memory half of FileService.rename; the
// caller still has to rewrite the FDR sector's bytes.
func (img *FilesystemImage) Rename(fdrSector int, newName string) error {
	for i := range img.Files {
		if img.Files[i].Sector == fdrSector {
			img.Files[i].FDR.Filename = codec.NormalizeFilename(newName)
			return nil
		}
	}
	return fserrors.NotFoundf("no file at FDR sector %d", fdrSector)
}

// SectorOf scans the FDI directly, decoding each referenced FDR sector
// and comparing its trimmed-uppercase filename against name. It
// returns the matching FDR sector, or 0 if none match, per spec.md
// §4.10.
func (img *FilesystemImage) SectorOf(name string) (uint16, error) {
	target := codec.TrimmedUpper(name)
	for i := 0; i < codec.FDIEntryCount; i++ {
		sector, err := img.FDI.Get(i)
		if err != nil {
			return 0, err
		}
		if sector == 0 {
			continue
		}
		view := img.Buf[int(sector)*256 : int(sector)*256+256]
		fdr, err := codec.DecodeFDRHeader(view)
		if err != nil {
			return 0, err
		}
		if codec.TrimmedUpper(fdr.Filename) == target {
			return sector, nil
		}
	}
	return 0, nil
}

// fileLength computes the decoded byte length of a file from its FDR
// header, per spec.md §4.13 read().
func fileLength(fdr codec.FDR) int {
	if fdr.EOFOffset != 0 {
		return (int(fdr.TotalSectorsAllocated)-1)*256 + int(fdr.EOFOffset)
	}
	return int(fdr.TotalSectorsAllocated) * 256
}

// String formats a catalog line as "name  length bytes  N sectors  flags",
// with comma-grouped numbers for anything large enough to need them;
// flags is any of L (locked), P (program), I (internal), V (variable).
func (d Descriptor) String() string {
	flags := ""
	if d.Locked {
		flags += "L"
	}
	if d.Program {
		flags += "P"
	}
	if d.Internal {
		flags += "I"
	}
	if d.Variable {
		flags += "V"
	}
	return fmt.Sprintf("%-10s %10s bytes  %4s sectors  %s",
		d.Name, humanize.Comma(int64(d.Length)), humanize.Comma(int64(d.Sectors)), flags)
}

// Catalog returns one Descriptor per live file, in FDI slot order,
// skipping blank-name slots (spec.md §3.1 supplemental).
func (img *FilesystemImage) Catalog() []Descriptor {
	var out []Descriptor
	for i := 0; i < codec.FDIEntryCount; i++ {
		sector, err := img.FDI.Get(i)
		if err != nil || sector == 0 {
			continue
		}
		entry, ok := img.entryAt(int(sector))
		if !ok {
			continue
		}
		name := strings.TrimRight(entry.FDR.Filename, " ")
		if name == "" {
			continue
		}
		out = append(out, Descriptor{
			Name:     name,
			Sectors:  int(entry.FDR.TotalSectorsAllocated),
			Length:   fileLength(entry.FDR),
			Locked:   entry.FDR.Status&codec.StatusProtected != 0,
			Program:  codec.IsProgram(entry.FDR.Status),
			Internal: codec.IsInternal(entry.FDR.Status),
			Variable: codec.IsVariable(entry.FDR.Status),
		})
	}
	return out
}

func (img *FilesystemImage) entryAt(sector int) (FileEntry, bool) {
	for _, e := range img.Files {
		if e.Sector == sector {
			return e, true
		}
	}
	return FileEntry{}, false
}
