// Package cluster implements contiguity-aware cluster allocation and
// release over an AllocationBitmap and DiskFormat, and first-fit
// allocation of free FDR-zone sectors.
//
// The scan-mark-used pattern (walk sectors in order, claim the first
// free one, persist as you go) follows the reference library's
// SectorMap.WriteFile track/sector scan in the Super-Mon package,
// generalized from whole sectors to multi-sector clusters and from a
// single free-sector scan to a free-FDR-sector scan that also excludes
// sectors already referenced by the FDI.
package cluster

import (
	"github.com/tidsk/hfdc/bitmap"
	"github.com/tidsk/hfdc/diagnostics"
	"github.com/tidsk/hfdc/fserrors"
	"github.com/tidsk/hfdc/format"
)

// Allocator allocates and releases clusters and FDR sectors against a
// shared AllocationBitmap, under a fixed DiskFormat geometry.
type Allocator struct {
	Format format.DiskFormat
	ABM    *bitmap.AllocationBitmap
	Opts   *diagnostics.Options
}

// New returns an Allocator over the given format and bitmap, with
// tracing disabled. Use NewWithOptions to enable diagnostics.
func New(f format.DiskFormat, abm *bitmap.AllocationBitmap) Allocator {
	return Allocator{Format: f, ABM: abm}
}

// NewWithOptions returns an Allocator that traces through opts.
func NewWithOptions(f format.DiskFormat, abm *bitmap.AllocationBitmap, opts *diagnostics.Options) Allocator {
	return Allocator{Format: f, ABM: abm, Opts: opts}
}

// clusterFree reports whether every sector of cluster i is free.
func (a Allocator) clusterFree(i int) (bool, error) {
	first, err := a.Format.ClusterToSector(i)
	if err != nil {
		return false, err
	}
	for s := first; s < first+a.Format.SectorsPerCluster; s++ {
		used, err := a.ABM.IsUsed(s)
		if err != nil {
			return false, err
		}
		if used {
			return false, nil
		}
	}
	return true, nil
}

// markCluster marks every sector of cluster i used (used=true) or free
// (used=false).
func (a Allocator) markCluster(i int, used bool) error {
	first, err := a.Format.ClusterToSector(i)
	if err != nil {
		return err
	}
	for s := first; s < first+a.Format.SectorsPerCluster; s++ {
		if err := a.ABM.Set(s, used); err != nil {
			return err
		}
	}
	return nil
}

// AllocateClusters scans cluster indices [0, ClusterCount) in
// ascending order and claims the first n whose every sector is free,
// marking each claimed cluster's sectors used as it goes. It returns
// the claimed indices in scan order. It fails with OutOfSpace if fewer
// than n clusters are free.
func (a Allocator) AllocateClusters(n int) ([]int, error) {
	if n < 0 {
		return nil, fserrors.InvalidArgumentf("cluster count must be non-negative; got %d", n)
	}
	claimed := make([]int, 0, n)
	for i := 0; i < a.Format.ClusterCount() && len(claimed) < n; i++ {
		free, err := a.clusterFree(i)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}
		if err := a.markCluster(i, true); err != nil {
			return nil, err
		}
		claimed = append(claimed, i)
	}
	if len(claimed) < n {
		// Roll back what we claimed so a failed allocation doesn't
		// leak sectors.
		for _, c := range claimed {
			a.markCluster(c, false)
		}
		return nil, fserrors.OutOfSpacef("need %d free cluster(s), only %d available", n, len(claimed))
	}
	diagnostics.Trace(a.Opts, "allocate_clusters(%d): claimed %v", n, claimed)
	return claimed, nil
}

// FreeClusters clears every sector belonging to each of the given
// cluster indices. Idempotent: freeing an already-free cluster is not
// an error.
func (a Allocator) FreeClusters(indices []int) error {
	for _, i := range indices {
		if err := a.markCluster(i, false); err != nil {
			return err
		}
	}
	diagnostics.Trace(a.Opts, "free_clusters(%v)", indices)
	return nil
}

// FreeClusterCount returns the number of clusters with every sector
// currently free.
func (a Allocator) FreeClusterCount() (int, error) {
	n := 0
	for i := 0; i < a.Format.ClusterCount(); i++ {
		free, err := a.clusterFree(i)
		if err != nil {
			return 0, err
		}
		if free {
			n++
		}
	}
	return n, nil
}

// AllocateFDRSector returns the lowest-numbered sector in
// [firstFdrSector, firstFdrSector+fdrSectorCount) that is free in the
// ABM and not referenced by any entry in referenced. It marks the
// chosen sector used. Fails with OutOfSpace if no such sector exists.
func (a Allocator) AllocateFDRSector(referenced map[int]bool) (int, error) {
	for s := a.Format.FirstFDRSector; s < a.Format.FirstFDRSector+a.Format.FDRSectorCount; s++ {
		if referenced[s] {
			continue
		}
		used, err := a.ABM.IsUsed(s)
		if err != nil {
			return 0, err
		}
		if used {
			continue
		}
		if err := a.ABM.Allocate(s); err != nil {
			return 0, err
		}
		diagnostics.Trace(a.Opts, "allocate_fdr_sector(): claimed sector %d", s)
		return s, nil
	}
	return 0, fserrors.OutOfSpacef("no free FDR sector in [%d,%d)", a.Format.FirstFDRSector, a.Format.FirstFDRSector+a.Format.FDRSectorCount)
}
