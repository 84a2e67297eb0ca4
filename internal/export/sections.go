package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/jchantrell/wmset/internal/wmset"
)

// CompressedExt is appended to compressed section dumps
const CompressedExt = ".zst"

// ErrSectionMismatch reports a dump that differs from its section
var ErrSectionMismatch = errors.New("section dump does not match")

// SectionFileName names the raw dump of section i
func SectionFileName(i int, compressed bool) string {
	name := fmt.Sprintf("section_%02d.bin", i)
	if compressed {
		name += CompressedExt
	}
	return name
}

// DumpSections writes every section of c to dir as raw bytes, zstd-compressed
// when compress is set. Empty sections are written as empty files.
func DumpSections(c *wmset.Container, dir string, compress bool, progressCallback ProgressCallback) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	var enc *zstd.Encoder
	if compress {
		var err error
		enc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return 0, fmt.Errorf("creating zstd encoder: %w", err)
		}
		defer enc.Close()
	}

	written := 0
	for i := range c.Sections {
		data := c.Section(i)
		if enc != nil {
			data = enc.EncodeAll(data, nil)
		}

		name := SectionFileName(i, compress)
		if err := writeFile(filepath.Join(dir, name), func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}); err != nil {
			return written, err
		}
		written++

		if progressCallback != nil {
			progressCallback(i+1, len(c.Sections), name)
		}
	}

	return written, nil
}

// ReadSection reads a dump written by DumpSections, decompressing .zst files
func ReadSection(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if filepath.Ext(path) != CompressedExt {
		return data, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return out, nil
}

// VerifySections reads back every dump written by DumpSections and compares
// it with the container
func VerifySections(c *wmset.Container, dir string, compressed bool) error {
	for i := range c.Sections {
		path := filepath.Join(dir, SectionFileName(i, compressed))
		data, err := ReadSection(path)
		if err != nil {
			return err
		}
		if !bytes.Equal(data, c.Section(i)) {
			return fmt.Errorf("%w: section %d holds %d bytes on disk, %d in the container", ErrSectionMismatch, i, len(data), len(c.Section(i)))
		}
	}
	return nil
}
