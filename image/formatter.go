package image

import (
	"github.com/tidsk/hfdc/bitmap"
	"github.com/tidsk/hfdc/codec"
	"github.com/tidsk/hfdc/diagnostics"
	"github.com/tidsk/hfdc/format"
	"github.com/tidsk/hfdc/sector"
)

// DefaultVolumeName is used when Format is called with an empty
// volume name override.
const DefaultVolumeName = "NEWVOLUME"

// erasedByte is the TI "erased" convention used to fill a freshly
// formatted buffer (spec.md §6).
const erasedByte = 0xE5

// Format builds a fresh buffer for f and initializes it into a valid
// empty filesystem (spec.md §4.11): erase the buffer, build an empty
// AllocationBitmap with only the system sectors marked used, write a
// default VIB and an all-zero FDI, and zero the FDR zone.
//
// volumeName is normalized the same way a filename is; an empty string
// uses DefaultVolumeName. opts may be nil to disable tracing.
func Format(f format.DiskFormat, volumeName string, opts *diagnostics.Options) (*FilesystemImage, error) {
	buf := make([]byte, f.TotalSectors*sector.Size)
	for i := range buf {
		buf[i] = erasedByte
	}

	abm, err := bitmap.New(f.TotalSectors)
	if err != nil {
		return nil, err
	}
	if err := abm.Allocate(f.VIBSector); err != nil {
		return nil, err
	}
	if err := abm.Allocate(f.FDISector); err != nil {
		return nil, err
	}

	if volumeName == "" {
		volumeName = DefaultVolumeName
	}
	vib := codec.VIB{
		VolumeName:      volumeName,
		TotalSectors:    f.TotalSectors,
		SectorsPerTrack: f.SectorsPerTrack,
		TracksPerSide:   f.TracksPerSide,
		Sides:           f.Sides,
		Density:         byte(f.Density),
	}
	vibBytes, err := codec.EncodeVIB(vib, abm)
	if err != nil {
		return nil, err
	}
	if err := sector.Write(buf, f.VIBSector, vibBytes); err != nil {
		return nil, err
	}

	fdi := codec.NewFDI()
	if err := sector.Write(buf, f.FDISector, codec.EncodeFDI(fdi)); err != nil {
		return nil, err
	}

	zero := make([]byte, sector.Size)
	for s := f.FirstFDRSector; s < f.FirstFDRSector+f.FDRSectorCount; s++ {
		if err := sector.Write(buf, s, zero); err != nil {
			return nil, err
		}
	}

	diagnostics.Trace(opts, "format: %q, %d sectors, %d clusters", volumeName, f.TotalSectors, f.ClusterCount())

	return &FilesystemImage{
		Format: f,
		Buf:    buf,
		ABM:    abm,
		VIB:    vib,
		FDI:    fdi,
		Files:  nil,
	}, nil
}
