package image

import (
	"github.com/tidsk/hfdc/codec"
	"github.com/tidsk/hfdc/format"
	"github.com/tidsk/hfdc/fserrors"
	"github.com/tidsk/hfdc/sector"
)

// Load decodes a FilesystemImage from buf under the given format. It
// never mutates the input slice: it copies into its own working
// buffer first, consistent with the single-owner model (spec.md §5).
func Load(buf []byte, f format.DiskFormat) (*FilesystemImage, error) {
	want := f.TotalSectors * sector.Size
	if len(buf) != want {
		return nil, fserrors.InvalidArgumentf("buffer length %d does not match format's %d sectors (%d bytes)", len(buf), f.TotalSectors, want)
	}
	working := make([]byte, want)
	copy(working, buf)

	vibBytes, err := sector.Read(working, f.VIBSector)
	if err != nil {
		return nil, err
	}
	vib, abm, err := codec.DecodeVIB(vibBytes)
	if err != nil {
		return nil, err
	}

	fdiBytes, err := sector.Read(working, f.FDISector)
	if err != nil {
		return nil, err
	}
	fdi, err := codec.DecodeFDI(fdiBytes)
	if err != nil {
		return nil, err
	}

	img := &FilesystemImage{
		Format: f,
		Buf:    working,
		ABM:    abm,
		VIB:    vib,
		FDI:    fdi,
	}

	for i := 0; i < codec.FDIEntryCount; i++ {
		s, err := fdi.Get(i)
		if err != nil {
			return nil, err
		}
		if s == 0 {
			continue
		}
		if !f.IsFDRSector(int(s)) {
			return nil, fserrors.Corruptf("FDI slot %d points to sector %d, outside the FDR zone [%d,%d)", i, s, f.FirstFDRSector, f.FirstFDRSector+f.FDRSectorCount)
		}
		fdrBytes, err := sector.Read(working, int(s))
		if err != nil {
			return nil, err
		}
		fdr, err := codec.DecodeFDRHeader(fdrBytes)
		if err != nil {
			return nil, err
		}
		img.AddFile(fdr, int(s))
	}

	return img, nil
}

// Sync re-encodes the VIB (with the current ABM) and FDI into the
// working buffer in place. FileService calls this after every
// operation that changes the ABM or FDI, so the buffer is always a
// faithful rendering of the aggregate's in-memory state; FDR sectors
// are already written directly by FileService as part of each
// operation.
func (img *FilesystemImage) Sync() error {
	vibBytes, err := codec.EncodeVIB(img.VIB, img.ABM)
	if err != nil {
		return err
	}
	if err := sector.Write(img.Buf, img.Format.VIBSector, vibBytes); err != nil {
		return err
	}
	return sector.Write(img.Buf, img.Format.FDISector, codec.EncodeFDI(img.FDI))
}

// Save syncs the VIB and FDI into the working buffer and returns it.
// Callers own the returned slice.
func (img *FilesystemImage) Save() ([]byte, error) {
	if err := img.Sync(); err != nil {
		return nil, err
	}
	return img.Buf, nil
}
