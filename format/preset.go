package format

import (
	"github.com/tidsk/hfdc/fserrors"
)

// Preset names out the minimum set of built-in geometries a
// implementation must provide (spec.md §6, "Preset disk formats").
const (
	PresetSSSD   = "SSSD"
	PresetDSSD   = "DSSD"
	PresetDSDD   = "DSDD"
	PresetDSSD80 = "DSSD80"
	PresetDSDD80 = "DSDD80"
	PresetHFDCQD = "HFDCQD"
)

// presetEntry pairs a human-readable description with a factory that
// builds the DiskFormat fresh each call (DiskFormat is a plain value,
// so there is nothing to share between callers).
type presetEntry struct {
	name        string
	description string
	factory     func() DiskFormat
}

// Catalog is an insertion-ordered registry of named DiskFormat
// factories, in the spirit of the reference library's
// diskOperatorFactories registry, generalized from "first Operator
// that matches" lookup to a simple ordered name->factory table (HFDC
// has exactly one on-disk family, so there is nothing to disambiguate
// by sniffing disk bytes).
type Catalog struct {
	entries []presetEntry
	byName  map[string]int
}

// NewCatalog returns a Catalog pre-populated with the built-in presets
// from spec.md §6, in the table's order.
func NewCatalog() *Catalog {
	c := &Catalog{byName: map[string]int{}}
	c.mustRegister(PresetSSSD, "Single-sided single-density TI FDC floppy (40 tracks, 9 sec/track)", func() DiskFormat {
		return mustFormat(New(360, 9, 40, 1, DensitySD, 2, 32, 34, 1))
	})
	c.mustRegister(PresetDSSD, "Double-sided single-density floppy (40 tracks, 9 sec/track)", func() DiskFormat {
		return mustFormat(New(720, 9, 40, 2, DensitySD, 2, 32, 34, 1))
	})
	c.mustRegister(PresetDSDD, "Double-sided double-density floppy (40 tracks, 18 sec/track)", func() DiskFormat {
		return mustFormat(New(1440, 18, 40, 2, DensityDD, 2, 32, 34, 1))
	})
	c.mustRegister(PresetDSSD80, "Double-sided single-density 80-track floppy", func() DiskFormat {
		return mustFormat(New(1440, 9, 80, 2, DensitySD, 2, 32, 34, 1))
	})
	c.mustRegister(PresetDSDD80, "Double-sided double-density 80-track floppy", func() DiskFormat {
		return mustFormat(New(2880, 18, 80, 2, DensityDD, 2, 32, 34, 4))
	})
	c.mustRegister(PresetHFDCQD, "HFDC quad-density hard-disk-controller floppy", func() DiskFormat {
		return mustFormat(New(5760, 36, 80, 2, DensityHD, 2, 32, 34, 4))
	})
	return c
}

func mustFormat(f DiskFormat, err error) DiskFormat {
	if err != nil {
		// The built-in presets are fixed, known-good geometries; a
		// failure here means a bug in this file, not caller input.
		panic(err)
	}
	return f
}

func (c *Catalog) mustRegister(name, description string, factory func() DiskFormat) {
	if _, exists := c.byName[name]; exists {
		panic("duplicate preset name: " + name)
	}
	c.byName[name] = len(c.entries)
	c.entries = append(c.entries, presetEntry{name: name, description: description, factory: factory})
}

// Register adds a new named preset to the catalog, or fails with
// AlreadyExists if the name is already registered.
func (c *Catalog) Register(name, description string, factory func() DiskFormat) error {
	if _, exists := c.byName[name]; exists {
		return fserrors.AlreadyExistsf("preset %q already registered", name)
	}
	c.byName[name] = len(c.entries)
	c.entries = append(c.entries, presetEntry{name: name, description: description, factory: factory})
	return nil
}

// Get returns the DiskFormat for a registered preset name, or fails
// with NotFound.
func (c *Catalog) Get(name string) (DiskFormat, error) {
	i, ok := c.byName[name]
	if !ok {
		return DiskFormat{}, fserrors.NotFoundf("no preset disk format named %q", name)
	}
	return c.entries[i].factory(), nil
}

// Names returns the registered preset names, in insertion order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Description returns the human-readable description of a registered
// preset, or fails with NotFound.
func (c *Catalog) Description(name string) (string, error) {
	i, ok := c.byName[name]
	if !ok {
		return "", fserrors.NotFoundf("no preset disk format named %q", name)
	}
	return c.entries[i].description, nil
}
