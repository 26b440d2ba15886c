package codec

import "github.com/tidsk/hfdc/fserrors"

// Timestamp is the decoded form of an FDR creation/update timestamp
// (spec.md §4.14): two-second resolution, packed into a 32-bit value.
type Timestamp struct {
	Year   int // full year, e.g. 2026
	Month  int // 1-12
	Day    int // 1-31
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59, rounded down to an even second on Pack
}

// Validate checks the field ranges named in spec.md §4.14.
func (t Timestamp) Validate() error {
	if t.Year < 1900 {
		return fserrors.InvalidArgumentf("year must be >= 1900; got %d", t.Year)
	}
	if t.Month < 1 || t.Month > 12 {
		return fserrors.InvalidArgumentf("month must be in [1,12]; got %d", t.Month)
	}
	if t.Day < 1 || t.Day > 31 {
		return fserrors.InvalidArgumentf("day must be in [1,31]; got %d", t.Day)
	}
	if t.Hour < 0 || t.Hour > 23 {
		return fserrors.InvalidArgumentf("hour must be in [0,23]; got %d", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fserrors.InvalidArgumentf("minute must be in [0,59]; got %d", t.Minute)
	}
	if t.Second < 0 || t.Second > 59 {
		return fserrors.InvalidArgumentf("second must be in [0,59]; got %d", t.Second)
	}
	return nil
}

// PackTimestamp packs a Timestamp into its 32-bit on-disk form
// (spec.md §4.14): low16 = ((year-1900)<<9)|(month<<5)|day; high16 =
// (hour<<11)|(minute<<5)|(second/2); packed = (high16<<16)|low16.
func PackTimestamp(t Timestamp) (uint32, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	low16 := uint32((t.Year-1900)<<9) | uint32(t.Month<<5) | uint32(t.Day)
	high16 := uint32(t.Hour<<11) | uint32(t.Minute<<5) | uint32(t.Second/2)
	return (high16 << 16) | low16, nil
}

// UnpackTimestamp reverses PackTimestamp. Second resolution is two
// seconds, so the recovered Second is always even.
func UnpackTimestamp(packed uint32) Timestamp {
	low16 := packed & 0xFFFF
	high16 := (packed >> 16) & 0xFFFF

	return Timestamp{
		Year:   1900 + int((low16>>9)&0x7F),
		Month:  int((low16 >> 5) & 0x0F),
		Day:    int(low16 & 0x1F),
		Hour:   int((high16 >> 11) & 0x1F),
		Minute: int((high16 >> 5) & 0x3F),
		Second: int(high16&0x1F) * 2,
	}
}
