// Package tim decodes the indexed and direct color raster images stored in the
// worldmap texture section.
package tim

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
)

// Magic is the fixed four byte signature at the start of every image
var Magic = []byte{0x10, 0x00, 0x00, 0x00}

var (
	ErrInvalidMagic       = errors.New("invalid image magic")
	ErrInvalidFlags       = errors.New("invalid image flags")
	ErrInvalidPaletteSize = errors.New("invalid palette size")
	ErrMissingPalette     = errors.New("palette data is missing")
	ErrTruncated          = errors.New("truncated image header")
)

const (
	flagDepthMask = 0x03
	flagPalette   = 0x08

	// blockHeaderSize is the size of a palette or image block header: u32
	// block size plus four u16 rect fields
	blockHeaderSize = 12
)

// Depth is the number of bits per pixel
type Depth int

const (
	Depth4  Depth = 4
	Depth8  Depth = 8
	Depth16 Depth = 16
)

// PaletteEntries returns the number of colors in one palette for the depth
func (d Depth) PaletteEntries() int {
	switch d {
	case Depth4:
		return 16
	case Depth8:
		return 256
	default:
		return 0
	}
}

// widthScale converts the stored width unit to pixels
func (d Depth) widthScale() int {
	switch d {
	case Depth4:
		return 4
	case Depth8:
		return 2
	default:
		return 1
	}
}

// Rect is a framebuffer rectangle as stored in a block header
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image is a decoded image header with its palette and raw pixel payload.
// Rect.Width is already converted to pixels.
type Image struct {
	Depth        Depth
	HasPalette   bool
	PaletteRect  Rect
	PaletteCount int
	Palette      []color.NRGBA
	Rect         Rect
	Pixels       []byte
}

// Width returns the image width in pixels
func (img *Image) Width() int {
	return img.Rect.Width
}

// Height returns the image height in pixels
func (img *Image) Height() int {
	return img.Rect.Height
}

// PayloadSize returns the number of pixel bytes a full raster needs
func (img *Image) PayloadSize() int {
	w, h := img.Rect.Width, img.Rect.Height
	switch img.Depth {
	case Depth4:
		return (w + 1) / 2 * h
	case Depth8:
		return w * h
	default:
		return w * h * 2
	}
}

// Short reports whether the payload holds fewer bytes than the raster needs
func (img *Image) Short() bool {
	return len(img.Pixels) < img.PayloadSize()
}

// Decode parses one image. The returned image owns copies of its palette and
// pixel bytes.
func Decode(data []byte) (*Image, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: need 8 bytes, have %d", ErrTruncated, len(data))
	}
	if !bytes.Equal(data[:4], Magic) {
		return nil, fmt.Errorf("%w: % x", ErrInvalidMagic, data[:4])
	}

	flags := data[4]
	img := &Image{HasPalette: flags&flagPalette != 0}
	switch flags & flagDepthMask {
	case 0:
		img.Depth = Depth4
	case 1:
		img.Depth = Depth8
	case 2:
		img.Depth = Depth16
	default:
		return nil, fmt.Errorf("%w: depth class 3", ErrInvalidFlags)
	}
	if img.HasPalette && img.Depth == Depth16 {
		return nil, fmt.Errorf("%w: palette with %dbpp", ErrInvalidFlags, img.Depth)
	}

	p := 8
	if img.HasPalette {
		n, err := img.readPalette(data[p:])
		if err != nil {
			return nil, err
		}
		p += n
	}

	if len(data)-p < blockHeaderSize {
		return nil, fmt.Errorf("%w: image block header needs %d bytes, have %d", ErrTruncated, blockHeaderSize, len(data)-p)
	}
	size := int(binary.LittleEndian.Uint32(data[p:]))
	img.Rect = readRect(data[p+4:])
	img.Rect.Width *= img.Depth.widthScale()
	p += blockHeaderSize

	payload := max(size-blockHeaderSize, 0)
	payload = min(payload, len(data)-p)
	img.Pixels = make([]byte, payload)
	copy(img.Pixels, data[p:p+payload])

	return img, nil
}

// readPalette parses the palette block and returns the bytes it consumed
func (img *Image) readPalette(data []byte) (int, error) {
	if len(data) < blockHeaderSize {
		return 0, fmt.Errorf("%w: palette block header needs %d bytes, have %d", ErrTruncated, blockHeaderSize, len(data))
	}

	size := int(binary.LittleEndian.Uint32(data))
	img.PaletteRect = readRect(data[4:])

	entryBytes := img.Depth.PaletteEntries() * 2
	body := size - blockHeaderSize
	count := body / entryBytes
	if body%entryBytes != 0 {
		count *= 2
	}
	if count <= 0 {
		return 0, fmt.Errorf("%w: block size %d gives %d palettes", ErrInvalidPaletteSize, size, count)
	}
	img.PaletteCount = count

	colors := data[blockHeaderSize:]
	if len(colors) < body {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrMissingPalette, body, len(colors))
	}

	img.Palette = make([]color.NRGBA, body/2)
	for i := range img.Palette {
		img.Palette[i] = Color(binary.LittleEndian.Uint16(colors[i*2:]))
	}

	return size, nil
}

func readRect(b []byte) Rect {
	return Rect{
		X:      int(binary.LittleEndian.Uint16(b[0:])),
		Y:      int(binary.LittleEndian.Uint16(b[2:])),
		Width:  int(binary.LittleEndian.Uint16(b[4:])),
		Height: int(binary.LittleEndian.Uint16(b[6:])),
	}
}

// Color converts a BGR555 word to NRGBA. Bit 15 marks the color transparent.
func Color(word uint16) color.NRGBA {
	c := color.NRGBA{
		R: scale5(word),
		G: scale5(word >> 5),
		B: scale5(word >> 10),
		A: 0xFF,
	}
	if word&0x8000 != 0 {
		c.A = 0
	}
	return c
}

func scale5(v uint16) uint8 {
	return uint8(uint32(v&0x1F) * 255 / 31)
}
