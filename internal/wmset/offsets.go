package wmset

import (
	"encoding/binary"
	"fmt"
)

// Range is a half-open byte range [Start, End) inside an enclosing buffer
type Range struct {
	Start int
	End   int

	// Clamped is set when the declared bounds fell outside the buffer or were
	// out of order and had to be pulled back in
	Clamped bool
}

// Len returns the number of bytes covered by the range
func (r Range) Len() int {
	return r.End - r.Start
}

// SkippedEntry describes a padded offset table entry that was dropped
type SkippedEntry struct {
	Position int    // Byte position of the entry inside the table
	Offset   uint32 // Offset value that was read
	Padding  uint16 // Non-zero padding that caused the skip
}

// ReadFixedOffsets reads exactly count little-endian uint32 values.
// Zero values are kept.
func ReadFixedOffsets(data []byte, count int) ([]uint32, error) {
	if len(data) < count*4 {
		return nil, fmt.Errorf("offset table needs %d bytes, have %d", count*4, len(data))
	}

	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	return offsets, nil
}

// ReadSentinelOffsets reads little-endian uint32 values until a zero is read.
// The terminator is consumed but not returned. Running out of data also ends
// the table.
func ReadSentinelOffsets(data []byte) []uint32 {
	offsets := make([]uint32, 0)
	for p := 0; p+4 <= len(data); p += 4 {
		offset := binary.LittleEndian.Uint32(data[p:])
		if offset == 0 {
			break
		}
		offsets = append(offsets, offset)
	}
	return offsets
}

// ReadPaddedOffsets reads (offset uint16, padding uint16) pairs as used by the
// geometry section. The scan ends on a zero offset. An entry with a non-zero
// offset but non-zero padding is skipped and the scan carries on with the next
// pair.
func ReadPaddedOffsets(data []byte) ([]uint32, []SkippedEntry) {
	offsets := make([]uint32, 0)
	var skipped []SkippedEntry

	for p := 0; p+4 <= len(data); p += 4 {
		offset := binary.LittleEndian.Uint16(data[p:])
		padding := binary.LittleEndian.Uint16(data[p+2:])
		if offset == 0 {
			break
		}
		if padding != 0 {
			skipped = append(skipped, SkippedEntry{
				Position: p,
				Offset:   uint32(offset),
				Padding:  padding,
			})
			continue
		}
		offsets = append(offsets, uint32(offset))
	}

	return offsets, skipped
}

// Ranges derives one byte range per offset: [offsets[i], offsets[i+1]), with
// the last range running to size. Bounds are clamped to [0, size] and a range
// never ends before it starts.
func Ranges(offsets []uint32, size int) []Range {
	ranges := make([]Range, len(offsets))
	for i, offset := range offsets {
		end := int64(size)
		if i+1 < len(offsets) {
			end = int64(offsets[i+1])
		}
		ranges[i] = clampRange(int64(offset), end, size)
	}
	return ranges
}

func clampRange(start, end int64, size int) Range {
	r := Range{}
	if start > int64(size) {
		start = int64(size)
		r.Clamped = true
	}
	if end > int64(size) {
		end = int64(size)
		r.Clamped = true
	}
	if end < start {
		end = start
		r.Clamped = true
	}
	r.Start = int(start)
	r.End = int(end)
	return r
}

// slice copies the bytes covered by r out of data
func slice(data []byte, r Range) []byte {
	out := make([]byte, r.Len())
	copy(out, data[r.Start:r.End])
	return out
}
