package wmset

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	// SectionCount is the number of entries in the container offset table
	SectionCount = 48

	// HeaderSize is the size of the container offset table in bytes
	HeaderSize = SectionCount * 4

	// MinContainerSize is the smallest file accepted as a worldmap container
	MinContainerSize = 0x800
)

// ErrTooShort reports an input smaller than MinContainerSize
var ErrTooShort = errors.New("worldmap container too short")

// TooShortError carries the size of a rejected input
type TooShortError struct {
	Size int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("%s: %d bytes (minimum %d)", ErrTooShort.Error(), e.Size, MinContainerSize)
}

func (e *TooShortError) Is(target error) bool {
	return target == ErrTooShort
}

// Container is the top-level offset table and the sections it delimits
type Container struct {
	Size     int
	Offsets  []uint32
	Ranges   []Range
	Sections [][]byte

	Diagnostics []Diagnostic
}

// ParseContainer reads the 48-entry offset table and slices the input into
// sections. The returned container owns copies of the section bytes.
func ParseContainer(data []byte) (*Container, error) {
	if len(data) < MinContainerSize {
		return nil, &TooShortError{Size: len(data)}
	}

	offsets, err := ReadFixedOffsets(data, SectionCount)
	if err != nil {
		return nil, fmt.Errorf("reading section offsets: %w", err)
	}

	c := &Container{
		Size:    len(data),
		Offsets: offsets,
	}

	if offsets[0] != HeaderSize {
		c.diag(-1, fmt.Sprintf("first section offset %d does not follow offset table (%d)", offsets[0], HeaderSize))
	}

	c.Ranges = Ranges(offsets, len(data))
	c.Sections = make([][]byte, SectionCount)
	for i, r := range c.Ranges {
		if r.Clamped {
			c.diag(i, fmt.Sprintf("section range clamped to [%d, %d)", r.Start, r.End))
		}
		c.Sections[i] = slice(data, r)
	}

	slog.Debug("Parsed container", "size", len(data), "sections", len(c.Sections))

	return c, nil
}

// Section returns the bytes of section i, or nil when i is out of range
func (c *Container) Section(i int) []byte {
	if i < 0 || i >= len(c.Sections) {
		return nil
	}
	return c.Sections[i]
}

func (c *Container) diag(section int, msg string) {
	slog.Warn("Container diagnostic", "section", section, "message", msg)
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Section: section, Entity: -1, Message: msg})
}
