package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jchantrell/wmset/internal/wmset"
)

const materialName = "Textured"

// WriteOBJ writes a Wavefront OBJ for the model. texture may be nil, in which
// case no material is referenced.
func WriteOBJ(w io.Writer, model wmset.Model, texture *wmset.Texture, mtlName string, scale float64) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# wmset model %d\n", model.Index)
	if texture != nil && mtlName != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlName)
		fmt.Fprintf(bw, "usemtl %s\n", materialName)
	}
	bw.WriteString("\n")

	for _, v := range model.Vertices {
		p := position(v, scale)
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", p[0], p[1], p[2])
	}
	bw.WriteString("\n")

	width, height := 0, 0
	if texture != nil {
		width, height = texture.Width(), texture.Height()
	}

	fs := faces(model.Index, model.Model)
	for _, f := range fs {
		for _, c := range f.corners {
			u, v := normalizeUV(c.uv, width, height)
			fmt.Fprintf(bw, "vt %.6f %.6f\n", u, v)
		}
	}
	bw.WriteString("\n")

	uv := 1
	for _, f := range fs {
		bw.WriteString("f")
		for _, c := range f.corners {
			fmt.Fprintf(bw, " %d/%d", c.vertex+1, uv)
			uv++
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// WriteMTL writes the single-material library that points at the texture PNG
func WriteMTL(w io.Writer, name, pngName string) error {
	_, err := fmt.Fprintf(w, "# Material for %s\n"+
		"newmtl %s\n"+
		"Ka 1.000 1.000 1.000\n"+
		"Kd 1.000 1.000 1.000\n"+
		"Ks 0.000 0.000 0.000\n"+
		"d 1.0\n"+
		"illum 2\n"+
		"map_Kd %s\n", name, materialName, pngName)
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
