package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jchantrell/wmset/internal/wmset"
)

func sampleContainer(t *testing.T) *wmset.Container {
	t.Helper()
	data := make([]byte, wmset.MinContainerSize)
	for i := 0; i < wmset.SectionCount; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], wmset.HeaderSize)
	}
	// section 0 holds 16 bytes, every later section is empty except 47
	binary.LittleEndian.PutUint32(data[4:], wmset.HeaderSize+16)
	for i := 2; i < wmset.SectionCount; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], wmset.HeaderSize+16)
	}
	copy(data[wmset.HeaderSize:], bytes.Repeat([]byte{0xAB}, 16))

	c, err := wmset.ParseContainer(data)
	if err != nil {
		t.Fatalf("ParseContainer() error = %v", err)
	}
	return c
}

func TestDumpSections(t *testing.T) {
	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		c := sampleContainer(t)

		n, err := DumpSections(c, dir, compress, nil)
		if err != nil {
			t.Fatalf("DumpSections(compress=%v) error = %v", compress, err)
		}
		if n != wmset.SectionCount {
			t.Errorf("written = %d, want %d", n, wmset.SectionCount)
		}

		for _, i := range []int{0, 1, 47} {
			got, err := ReadSection(filepath.Join(dir, SectionFileName(i, compress)))
			if err != nil {
				t.Fatalf("ReadSection(%d) error = %v", i, err)
			}
			if !bytes.Equal(got, c.Section(i)) {
				t.Errorf("section %d (compress=%v) = %d bytes, want %d", i, compress, len(got), len(c.Section(i)))
			}
		}
	}
}

func TestSectionFileName(t *testing.T) {
	if got := SectionFileName(7, false); got != "section_07.bin" {
		t.Errorf("got = %s", got)
	}
	if got := SectionFileName(41, true); got != "section_41.bin.zst" {
		t.Errorf("got = %s", got)
	}
}

func TestVerifySections(t *testing.T) {
	dir := t.TempDir()
	c := sampleContainer(t)

	if _, err := DumpSections(c, dir, true, nil); err != nil {
		t.Fatalf("DumpSections() error = %v", err)
	}
	if err := VerifySections(c, dir, true); err != nil {
		t.Fatalf("VerifySections() error = %v", err)
	}

	if err := VerifySections(c, dir, false); err == nil {
		t.Error("VerifySections() without uncompressed dumps should fail")
	}

	path := filepath.Join(dir, SectionFileName(0, false))
	if _, err := DumpSections(c, dir, false, nil); err != nil {
		t.Fatalf("DumpSections() error = %v", err)
	}
	if err := os.WriteFile(path, []byte{0xAB}, 0644); err != nil {
		t.Fatalf("overwriting dump: %v", err)
	}
	if err := VerifySections(c, dir, false); !errors.Is(err, ErrSectionMismatch) {
		t.Errorf("VerifySections() error = %v, want ErrSectionMismatch", err)
	}
}
