package wmset

import "encoding/binary"

const (
	drawPointHeaderSize = 44
	drawPointSize       = 4
)

// DecodeDrawPoints reads the fixed 4-byte draw point records that follow the
// 44-byte section header. A trailing partial record is ignored.
func DecodeDrawPoints(data []byte) []DrawPoint {
	points := make([]DrawPoint, 0)
	for p := drawPointHeaderSize; p+drawPointSize <= len(data); p += drawPointSize {
		points = append(points, DrawPoint{
			X:       data[p],
			Y:       data[p+1],
			MagicID: binary.LittleEndian.Uint16(data[p+2:]),
		})
	}
	return points
}
