// Package format describes HFDC/TI-DOS disk geometry and the logical
// layout derived from it: where the VIB, FDI, FDR zone and data area
// sit, and how cluster numbers map to sector numbers.
//
// The geometry constants and layout arithmetic here play the role the
// reference library's DOS33/ProDOS track/sector constants and
// block-to-track/sector arithmetic play, generalized to the HFDC
// cluster scheme.
package format

import (
	"github.com/tidsk/hfdc/fserrors"
)

// Density identifies the recording density of a volume.
type Density byte

// Density codes, per the on-disk VIB density byte.
const (
	DensityXX Density = 0
	DensitySD Density = 1
	DensityDD Density = 2
	DensityHD Density = 3
	DensityUD Density = 4
)

// DiskFormat is the immutable geometry and logical layout of an HFDC
// volume.
type DiskFormat struct {
	TotalSectors    int
	SectorsPerTrack int
	TracksPerSide   int
	Sides           int
	Density         Density

	VIBSector       int // always 0
	FDISector       int // always 1
	FirstFDRSector  int
	FDRSectorCount  int
	FirstDataSector int

	SectorsPerCluster int
}

// New validates and returns a DiskFormat. It fails with InvalidArgument
// if any field is non-positive, and with InvalidArgument if the layout
// ordering invariant (firstDataSector > firstFdrSector, firstDataSector
// >= firstFdrSector+fdrSectorCount, firstFdrSector+fdrSectorCount <=
// totalSectors) does not hold. The data area may start immediately
// after the FDR zone.
func New(totalSectors, sectorsPerTrack, tracksPerSide, sides int, density Density, firstFDRSector, fdrSectorCount, firstDataSector, sectorsPerCluster int) (DiskFormat, error) {
	f := DiskFormat{
		TotalSectors:      totalSectors,
		SectorsPerTrack:   sectorsPerTrack,
		TracksPerSide:     tracksPerSide,
		Sides:             sides,
		Density:           density,
		VIBSector:         0,
		FDISector:         1,
		FirstFDRSector:    firstFDRSector,
		FDRSectorCount:    fdrSectorCount,
		FirstDataSector:   firstDataSector,
		SectorsPerCluster: sectorsPerCluster,
	}
	if err := f.Validate(); err != nil {
		return DiskFormat{}, err
	}
	return f, nil
}

// Validate checks the positivity and ordering invariants of a DiskFormat.
func (f DiskFormat) Validate() error {
	for name, v := range map[string]int{
		"TotalSectors":      f.TotalSectors,
		"SectorsPerTrack":   f.SectorsPerTrack,
		"TracksPerSide":     f.TracksPerSide,
		"Sides":             f.Sides,
		"FDRSectorCount":    f.FDRSectorCount,
		"SectorsPerCluster": f.SectorsPerCluster,
	} {
		if v <= 0 {
			return fserrors.InvalidArgumentf("%s must be positive; got %d", name, v)
		}
	}
	if f.FirstFDRSector <= 0 {
		return fserrors.InvalidArgumentf("FirstFDRSector must be positive; got %d", f.FirstFDRSector)
	}
	if f.FirstDataSector <= f.FirstFDRSector {
		return fserrors.InvalidArgumentf("FirstDataSector (%d) must be greater than FirstFDRSector (%d)", f.FirstDataSector, f.FirstFDRSector)
	}
	if f.FirstFDRSector+f.FDRSectorCount > f.TotalSectors {
		return fserrors.InvalidArgumentf("FirstFDRSector+FDRSectorCount (%d) must not exceed TotalSectors (%d)", f.FirstFDRSector+f.FDRSectorCount, f.TotalSectors)
	}
	if f.FirstDataSector < f.FirstFDRSector+f.FDRSectorCount {
		return fserrors.InvalidArgumentf("FirstDataSector (%d) must not be less than FirstFDRSector+FDRSectorCount (%d)", f.FirstDataSector, f.FirstFDRSector+f.FDRSectorCount)
	}
	return nil
}

// ClusterCount returns the number of whole clusters in the data area.
func (f DiskFormat) ClusterCount() int {
	if f.TotalSectors <= f.FirstDataSector {
		return 0
	}
	n := (f.TotalSectors - f.FirstDataSector) / f.SectorsPerCluster
	if n < 0 {
		return 0
	}
	return n
}

// ClusterToSector converts a cluster index to the sector index of its
// first sector. It fails with OutOfBounds if the cluster index is not
// in [0, ClusterCount()).
func (f DiskFormat) ClusterToSector(cluster int) (int, error) {
	if cluster < 0 || cluster >= f.ClusterCount() {
		return 0, fserrors.OutOfBoundsf("cluster index %d out of range [0,%d)", cluster, f.ClusterCount())
	}
	return f.FirstDataSector + cluster*f.SectorsPerCluster, nil
}

// IsFDRSector reports whether sector s lies in the FDR zone.
func (f DiskFormat) IsFDRSector(s int) bool {
	return s >= f.FirstFDRSector && s < f.FirstFDRSector+f.FDRSectorCount
}

// IsDataSector reports whether sector s lies in the data area.
func (f DiskFormat) IsDataSector(s int) bool {
	return s >= f.FirstDataSector && s < f.TotalSectors
}
