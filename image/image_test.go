package image

import (
	"testing"

	"github.com/tidsk/hfdc/format"
)

func sssdFormat(t *testing.T) format.DiskFormat {
	t.Helper()
	f, err := format.New(360, 9, 40, 1, format.DensitySD, 2, 32, 34, 1)
	if err != nil {
		t.Fatalf("format.New: %v", err)
	}
	return f
}

// TestFormatS1 reproduces spec scenario S1: an empty SSSD image's
// literal byte values.
func TestFormatS1(t *testing.T) {
	f := sssdFormat(t)
	img, err := Format(f, "", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	if len(img.Buf) != 360*256 {
		t.Fatalf("buffer length = %d, want %d", len(img.Buf), 360*256)
	}

	if got := string(img.Buf[0x00:0x0A]); got != "NEWVOLUME " {
		t.Errorf("volume name = %q, want %q", got, "NEWVOLUME ")
	}
	if img.Buf[0x0A] != 0x01 || img.Buf[0x0B] != 0x68 {
		t.Errorf("total sectors bytes = %#x %#x, want 0x01 0x68", img.Buf[0x0A], img.Buf[0x0B])
	}
	if string(img.Buf[0x0D:0x10]) != "DSK" {
		t.Errorf("signature = %q, want DSK", img.Buf[0x0D:0x10])
	}
	if img.Buf[0x11] != 40 || img.Buf[0x12] != 1 || img.Buf[0x13] != 1 {
		t.Errorf("geometry bytes = %d %d %d, want 40 1 1", img.Buf[0x11], img.Buf[0x12], img.Buf[0x13])
	}

	if img.Buf[0x38] != 0x03 {
		t.Errorf("ABM byte 0 = %#x, want 0x03", img.Buf[0x38])
	}
	for i := 0x39; i < 0x38+45; i++ {
		if img.Buf[i] != 0 {
			t.Fatalf("ABM byte at %#x = %#x, want 0", i, img.Buf[i])
		}
	}
	for i := 0x38 + 45; i < 0x38+200; i++ {
		if img.Buf[i] != 0xFF {
			t.Fatalf("ABM tail byte at %#x = %#x, want 0xFF", i, img.Buf[i])
		}
	}

	for s := 1; s <= 1; s++ {
		for i := s * 256; i < (s+1)*256; i++ {
			if img.Buf[i] != 0 {
				t.Fatalf("FDI sector byte at %d = %#x, want 0", i, img.Buf[i])
			}
		}
	}
	for s := 2; s <= 33; s++ {
		for i := s * 256; i < (s+1)*256; i++ {
			if img.Buf[i] != 0 {
				t.Fatalf("FDR-zone sector %d byte at %d = %#x, want 0", s, i, img.Buf[i])
			}
		}
	}
	for s := 34; s <= 359; s++ {
		for i := s * 256; i < (s+1)*256; i++ {
			if img.Buf[i] != 0xE5 {
				t.Fatalf("data sector %d byte at %d = %#x, want 0xE5", s, i, img.Buf[i])
			}
		}
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	f := sssdFormat(t)
	img, err := Format(f, "MYDISK", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	buf, err := img.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(buf, f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.VIB.VolumeName != "MYDISK    " && loaded.VIB.VolumeName != "MYDISK" {
		t.Errorf("VolumeName = %q", loaded.VIB.VolumeName)
	}
	if !loaded.ABM.Equal(img.ABM) {
		t.Error("ABM mismatch after Load(Save())")
	}
}

func TestFindAndCatalogEmpty(t *testing.T) {
	f := sssdFormat(t)
	img, err := Format(f, "", nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if _, ok := img.Find("ANYTHING"); ok {
		t.Error("Find on empty image should fail")
	}
	if cat := img.Catalog(); len(cat) != 0 {
		t.Errorf("Catalog on empty image = %v, want empty", cat)
	}
}
