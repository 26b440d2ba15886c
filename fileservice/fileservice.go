// Package fileservice implements the filesystem-level create, read,
// update, delete and rename operations: the only code path that
// mutates a FilesystemImage, keeping its VIB, AllocationBitmap, FDI
// and FDR list mutually consistent.
//
// Each operation follows spec.md §5's staging rule: cluster and FDR
// sector allocation happen against a scratch copy of the
// AllocationBitmap, and the aggregate's real ABM/FDI/Files are only
// updated once every sub-step (pack, allocate, write, encode) has
// succeeded. This generalizes the reference library's SectorMap
// (Super-Mon) WriteFile, which computes space requirements and
// existence up front before touching any disk bytes.
package fileservice

import (
	"github.com/tidsk/hfdc/cluster"
	"github.com/tidsk/hfdc/codec"
	"github.com/tidsk/hfdc/diagnostics"
	"github.com/tidsk/hfdc/fserrors"
	"github.com/tidsk/hfdc/image"
	"github.com/tidsk/hfdc/sector"
)

// FileSpec describes a file's content and semantics for Create and
// Update, independent of its on-disk representation.
type FileSpec struct {
	Name      string
	Content   []byte
	Program   bool
	Internal  bool
	Protected bool
	Backup    bool
	Emulated  bool
	Variable  bool // ignored when Program is set
	// RecordLength is the fixed or variable record length. Ignored
	// when Program is set; a value <= 0 means "no record structure"
	// (the data is written as-is).
	RecordLength int
}

// statusByte derives the FDR file-status byte from a FileSpec, per
// spec.md §3.
func statusByte(spec FileSpec) byte {
	var s byte
	if spec.Program {
		s |= codec.StatusProgram
	}
	if spec.Internal {
		s |= codec.StatusInternal
	}
	if spec.Protected {
		s |= codec.StatusProtected
	}
	if spec.Backup {
		s |= codec.StatusBackup
	}
	if spec.Emulated {
		s |= codec.StatusEmulated
	}
	if !spec.Program && spec.Variable {
		s |= codec.StatusVariable
	}
	return s
}

// recordLayout computes records-per-sector and logical record length
// per spec.md §4.13.
func recordLayout(spec FileSpec) (rps, lrl byte) {
	if spec.Program || spec.RecordLength <= 0 {
		return 0, 0
	}
	if spec.Variable {
		return 1, byte(spec.RecordLength)
	}
	return byte(256 / spec.RecordLength), byte(spec.RecordLength)
}

// pack produces the on-disk payload for spec, per spec.md §4.13: FIX
// files (RecordLength>0, not Variable, not Program) have each record
// padded to RecordLength and the whole payload padded to a sector
// boundary; PROGRAM and VAR files are written exactly as given.
func pack(spec FileSpec) []byte {
	if spec.Program || spec.Variable || spec.RecordLength <= 0 {
		out := make([]byte, len(spec.Content))
		copy(out, spec.Content)
		return out
	}

	rl := spec.RecordLength
	var out []byte
	for i := 0; i < len(spec.Content); i += rl {
		end := i + rl
		if end > len(spec.Content) {
			end = len(spec.Content)
		}
		rec := make([]byte, rl)
		copy(rec, spec.Content[i:end])
		out = append(out, rec...)
	}
	if rem := len(out) % sector.Size; rem != 0 {
		out = append(out, make([]byte, sector.Size-rem)...)
	}
	return out
}

// neededClusters computes max(1, ceil(len(data) / (sectorsPerCluster *
// 256))), per spec.md §4.13.
func neededClusters(dataLen, sectorsPerCluster int) int {
	bytesPerCluster := sectorsPerCluster * sector.Size
	n := (dataLen + bytesPerCluster - 1) / bytesPerCluster
	if n < 1 {
		n = 1
	}
	return n
}

// referencedFDRSectors returns the set of FDR sectors already in use
// by img's live files, for allocate_fdr_sector's exclusion rule.
func referencedFDRSectors(img *image.FilesystemImage) map[int]bool {
	out := make(map[int]bool, len(img.Files))
	for _, f := range img.Files {
		out[f.Sector] = true
	}
	return out
}

// writeClusters writes data into the given clusters in scan order,
// zero-padding the final cluster.
func writeClusters(img *image.FilesystemImage, clusters []int, data []byte) error {
	bytesPerCluster := img.Format.SectorsPerCluster * sector.Size
	for ci, cl := range clusters {
		firstSector, err := img.Format.ClusterToSector(cl)
		if err != nil {
			return err
		}
		start := ci * bytesPerCluster
		chunk := make([]byte, bytesPerCluster)
		if start < len(data) {
			end := start + bytesPerCluster
			if end > len(data) {
				end = len(data)
			}
			copy(chunk, data[start:end])
		}
		for s := 0; s < img.Format.SectorsPerCluster; s++ {
			off := s * sector.Size
			if err := sector.Write(img.Buf, firstSector+s, chunk[off:off+sector.Size]); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildFDR assembles the fixed-size FDR header for a newly packed
// file.
func buildFDR(spec FileSpec, data []byte, clusters []int, sectorsPerCluster int, created, updated codec.Timestamp) codec.FDR {
	rps, lrl := recordLayout(spec)
	return codec.FDR{
		Filename:              codec.NormalizeFilename(spec.Name),
		Status:                statusByte(spec),
		RecordsPerSector:      rps,
		LogicalRecordLength:   lrl,
		TotalSectorsAllocated: uint16(len(clusters) * sectorsPerCluster),
		EOFOffset:             byte(len(data) % sector.Size),
		Created:               created,
		Updated:               updated,
	}
}

// writeFDRSector encodes fdr's header and its DCP chain into the FDR
// sector.
func writeFDRSector(img *image.FilesystemImage, fdrSector int, fdr codec.FDR, clusters []int) error {
	var buf [256]byte
	if err := codec.EncodeFDRHeader(fdr, buf[:]); err != nil {
		return err
	}
	dcp, err := codec.EncodeDCP(clusters)
	if err != nil {
		return err
	}
	copy(buf[codec.DCPOffset:], dcp[:])
	return sector.Write(img.Buf, fdrSector, buf[:])
}

// Create allocates clusters and an FDR sector for spec, writes its
// packed data and FDR header, inserts it into the first free FDI slot,
// and rewrites the VIB. Fails with AlreadyExists if the normalized
// name is already present, or OutOfSpace for cluster/FDR exhaustion.
func Create(img *image.FilesystemImage, spec FileSpec, now codec.Timestamp, opts *diagnostics.Options) error {
	normalized := codec.NormalizeFilename(spec.Name)
	if _, exists := img.Find(normalized); exists {
		return fserrors.AlreadyExistsf("file %q already exists", normalized)
	}

	scratchABM := img.ABM.Clone()
	alloc := cluster.NewWithOptions(img.Format, scratchABM, opts)

	data := pack(spec)
	n := neededClusters(len(data), img.Format.SectorsPerCluster)
	clusters, err := alloc.AllocateClusters(n)
	if err != nil {
		return err
	}

	fdrSector, err := alloc.AllocateFDRSector(referencedFDRSectors(img))
	if err != nil {
		return err
	}

	slot, ok := img.FreeFDISlot()
	if !ok {
		return fserrors.OutOfSpacef("no free FDI slot for %q", normalized)
	}

	fdr := buildFDR(spec, data, clusters, img.Format.SectorsPerCluster, now, now)

	if err := writeClusters(img, clusters, data); err != nil {
		return err
	}
	if err := writeFDRSector(img, fdrSector, fdr, clusters); err != nil {
		return err
	}

	if err := img.ABM.CopyFrom(scratchABM); err != nil {
		return err
	}
	if err := img.FDI.Set(slot, uint16(fdrSector)); err != nil {
		return err
	}
	img.AddFile(fdr, fdrSector)
	if err := img.Sync(); err != nil {
		return err
	}

	diagnostics.Trace(opts, "create %q: %d cluster(s) at %v, fdr sector %d", normalized, n, clusters, fdrSector)
	return nil
}

// Read decodes a file's full cluster chain and truncates it to the
// file's logical length, per spec.md §4.13.
func Read(img *image.FilesystemImage, fdrSector int) ([]byte, error) {
	fdrBytes, err := sector.Read(img.Buf, fdrSector)
	if err != nil {
		return nil, err
	}
	fdr, err := codec.DecodeFDRHeader(fdrBytes)
	if err != nil {
		return nil, err
	}
	clusters, err := codec.DecodeDCP(fdrBytes)
	if err != nil {
		return nil, err
	}

	var out []byte
	for _, cl := range clusters {
		firstSector, err := img.Format.ClusterToSector(cl)
		if err != nil {
			return nil, err
		}
		for s := 0; s < img.Format.SectorsPerCluster; s++ {
			sBytes, err := sector.Read(img.Buf, firstSector+s)
			if err != nil {
				return nil, err
			}
			out = append(out, sBytes...)
		}
	}

	length := int(fdr.TotalSectorsAllocated) * sector.Size
	if fdr.EOFOffset != 0 {
		length = (int(fdr.TotalSectorsAllocated)-1)*sector.Size + int(fdr.EOFOffset)
	}
	if length > len(out) {
		length = len(out)
	}
	return out[:length], nil
}

// Update releases a file's current clusters and rewrites it with
// spec's content, keeping the same FDR sector and FDI slot.
func Update(img *image.FilesystemImage, fdrSector int, spec FileSpec, now codec.Timestamp, opts *diagnostics.Options) error {
	entry, ok := findBySector(img, fdrSector)
	if !ok {
		return fserrors.NotFoundf("no file at FDR sector %d", fdrSector)
	}

	oldFDRBytes, err := sector.Read(img.Buf, fdrSector)
	if err != nil {
		return err
	}
	oldClusters, err := codec.DecodeDCP(oldFDRBytes)
	if err != nil {
		return err
	}

	scratchABM := img.ABM.Clone()
	allocForFree := cluster.NewWithOptions(img.Format, scratchABM, opts)
	if err := allocForFree.FreeClusters(oldClusters); err != nil {
		return err
	}

	data := pack(spec)
	n := neededClusters(len(data), img.Format.SectorsPerCluster)
	newClusters, err := allocForFree.AllocateClusters(n)
	if err != nil {
		return err
	}

	created := entry.FDR.Created
	fdr := buildFDR(spec, data, newClusters, img.Format.SectorsPerCluster, created, now)

	if err := writeClusters(img, newClusters, data); err != nil {
		return err
	}
	if err := writeFDRSector(img, fdrSector, fdr, newClusters); err != nil {
		return err
	}

	if err := img.ABM.CopyFrom(scratchABM); err != nil {
		return err
	}
	img.Remove(fdrSector)
	img.AddFile(fdr, fdrSector)
	if err := img.Sync(); err != nil {
		return err
	}

	diagnostics.Trace(opts, "update %q: %d cluster(s) at %v, fdr sector %d", fdr.Filename, n, newClusters, fdrSector)
	return nil
}

// Delete locates name, releases its clusters and FDR sector, zeroes
// the FDR sector, clears its FDI entry, and removes it from the
// in-memory file list.
func Delete(img *image.FilesystemImage, name string, opts *diagnostics.Options) error {
	entry, ok := img.Find(name)
	if !ok {
		return fserrors.NotFoundf("file %q not found", codec.NormalizeFilename(name))
	}
	fdrSector := entry.Sector

	fdrBytes, err := sector.Read(img.Buf, fdrSector)
	if err != nil {
		return err
	}
	clusters, err := codec.DecodeDCP(fdrBytes)
	if err != nil {
		return err
	}

	scratchABM := img.ABM.Clone()
	alloc := cluster.NewWithOptions(img.Format, scratchABM, opts)
	if err := alloc.FreeClusters(clusters); err != nil {
		return err
	}
	if err := scratchABM.Free(fdrSector); err != nil {
		return err
	}

	zero := make([]byte, sector.Size)
	if err := sector.Write(img.Buf, fdrSector, zero); err != nil {
		return err
	}

	if err := img.ABM.CopyFrom(scratchABM); err != nil {
		return err
	}

	slot, found := findFDISlot(img, fdrSector)
	if found {
		if err := img.FDI.Set(slot, 0); err != nil {
			return err
		}
	}
	img.Remove(fdrSector)
	if err := img.Sync(); err != nil {
		return err
	}

	diagnostics.Trace(opts, "delete %q: freed %v, fdr sector %d", codec.NormalizeFilename(name), clusters, fdrSector)
	return nil
}

// Rename locates old by its normalized name, and rewrites its filename
// field both in memory and on its FDR sector. The FDI is a bare sector
// list and needs no update.
func Rename(img *image.FilesystemImage, oldName, newName string, opts *diagnostics.Options) error {
	entry, ok := img.Find(codec.NormalizeFilename(oldName))
	if !ok {
		return fserrors.NotFoundf("file %q not found", codec.NormalizeFilename(oldName))
	}
	fdrSector := entry.Sector
	normalizedNew := codec.NormalizeFilename(newName)
	if _, exists := img.Find(normalizedNew); exists {
		return fserrors.AlreadyExistsf("file %q already exists", normalizedNew)
	}

	view, err := sector.New(img.Buf, fdrSector)
	if err != nil {
		return err
	}
	nameBytes := codec.EncodeFilenameField(normalizedNew)
	copy(view.Raw()[:codec.FilenameFieldLength], nameBytes[:])
	if err := img.Rename(fdrSector, normalizedNew); err != nil {
		return err
	}

	diagnostics.Trace(opts, "rename %q -> %q at fdr sector %d", codec.NormalizeFilename(oldName), normalizedNew, fdrSector)
	return nil
}

// Exists reports whether a file with the normalized name exists in
// img (spec.md §4.13 supplemental).
func Exists(img *image.FilesystemImage, name string) bool {
	_, ok := img.Find(codec.NormalizeFilename(name))
	return ok
}

// Catalog delegates to FilesystemImage.Catalog (spec.md §4.13
// supplemental).
func Catalog(img *image.FilesystemImage) []image.Descriptor {
	return img.Catalog()
}

func findBySector(img *image.FilesystemImage, fdrSector int) (image.FileEntry, bool) {
	for _, e := range img.Files {
		if e.Sector == fdrSector {
			return e, true
		}
	}
	return image.FileEntry{}, false
}

func findFDISlot(img *image.FilesystemImage, fdrSector int) (int, bool) {
	for i := 0; i < codec.FDIEntryCount; i++ {
		s, err := img.FDI.Get(i)
		if err != nil {
			return 0, false
		}
		if int(s) == fdrSector {
			return i, true
		}
	}
	return 0, false
}
