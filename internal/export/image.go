package export

import (
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/jchantrell/wmset/internal/tim"
)

// TextureImage rasterizes a texture and upscales it by an integer factor.
// Nearest neighbour keeps the palette colors intact.
func TextureImage(img *tim.Image, scale int) *image.NRGBA {
	src := img.Rasterize()
	if scale <= 1 || src.Bounds().Empty() {
		return src
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// WritePNG encodes a texture as PNG
func WritePNG(w io.Writer, img *tim.Image, scale int) error {
	return png.Encode(w, TextureImage(img, scale))
}
