package tim

import (
	"image"
	"image/color"
)

// MaxRasterPixels bounds the raster of an image whose payload is short. Larger
// rasters are cut to the rows the payload reaches.
const MaxRasterPixels = 1 << 24

// Rasterize unpacks the pixel payload into an NRGBA image. It stops at the end
// of the payload, leaving the remaining pixels transparent.
func (img *Image) Rasterize() *image.NRGBA {
	w, h := img.Rect.Width, img.Rect.Height
	if w*h > MaxRasterPixels && img.Short() {
		h = min(h, img.rowsCovered())
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	data := img.Pixels
	idx := 0

	switch img.Depth {
	case Depth4:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x += 2 {
				if idx >= len(data) {
					return out
				}
				b := data[idx]
				out.SetNRGBA(x, y, img.indexed(b>>4, 17))
				// odd widths drop the low nibble of the last byte in a row
				if x+1 < w {
					out.SetNRGBA(x+1, y, img.indexed(b&0x0F, 17))
				}
				idx++
			}
		}
	case Depth8:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if idx >= len(data) {
					return out
				}
				out.SetNRGBA(x, y, img.indexed(data[idx], 1))
				idx++
			}
		}
	case Depth16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if idx+1 >= len(data) {
					return out
				}
				out.SetNRGBA(x, y, Color(uint16(data[idx])|uint16(data[idx+1])<<8))
				idx += 2
			}
		}
	}

	return out
}

// indexed resolves a palette index against the first palette. Without a
// palette the index is shown as grey.
func (img *Image) indexed(index uint8, grey uint8) color.NRGBA {
	if !img.HasPalette {
		v := index * grey
		return color.NRGBA{R: v, G: v, B: v, A: 0xFF}
	}
	if int(index) >= len(img.Palette) {
		return color.NRGBA{}
	}
	return img.Palette[index]
}

// rowsCovered returns the number of rows the payload reaches, counting a
// partial last row
func (img *Image) rowsCovered() int {
	var rowBytes int
	switch img.Depth {
	case Depth4:
		rowBytes = (img.Rect.Width + 1) / 2
	case Depth8:
		rowBytes = img.Rect.Width
	default:
		rowBytes = img.Rect.Width * 2
	}
	if rowBytes == 0 {
		return 0
	}
	return (len(img.Pixels) + rowBytes - 1) / rowBytes
}
