package export

import (
	"log/slog"

	"github.com/jchantrell/wmset/internal/mesh"
)

// quadWinding reorders quad corners into polygon order
var quadWinding = [4]int{0, 1, 3, 2}

// corner is one face corner: a vertex index and its texel coordinate
type corner struct {
	vertex int
	uv     mesh.UV
}

// face is a triangle or quad in polygon order
type face struct {
	corners         []corner
	semitransparent bool
}

// faces flattens a model's triangles then quads. Faces that reference a
// vertex beyond the model's vertex list are dropped.
func faces(index int, m mesh.Model) []face {
	out := make([]face, 0, len(m.Triangles)+len(m.Quads))
	skipped := 0
	n := len(m.Vertices)

	for _, tri := range m.Triangles {
		f := face{semitransparent: tri.Semitransparent()}
		for i := 0; i < 3; i++ {
			f.corners = append(f.corners, corner{vertex: int(tri.Indices[i]), uv: tri.UVs[i]})
		}
		if !inBounds(f, n) {
			skipped++
			continue
		}
		out = append(out, f)
	}

	for _, quad := range m.Quads {
		f := face{semitransparent: quad.Semitransparent()}
		for _, i := range quadWinding {
			f.corners = append(f.corners, corner{vertex: int(quad.Indices[i]), uv: quad.UVs[i]})
		}
		if !inBounds(f, n) {
			skipped++
			continue
		}
		out = append(out, f)
	}

	if skipped > 0 {
		slog.Warn("Dropped faces with out of range vertex indices", "model", index, "count", skipped)
	}

	return out
}

func inBounds(f face, vertices int) bool {
	for _, c := range f.corners {
		if c.vertex >= vertices {
			return false
		}
	}
	return true
}

// normalizeUV maps texel coordinates into [0, 1] with v flipped. Without a
// texture the 256x256 texture page is assumed.
func normalizeUV(uv mesh.UV, width, height int) (float32, float32) {
	if width <= 0 {
		width = 256
	}
	if height <= 0 {
		height = 256
	}
	return float32(uv.U) / float32(width), 1 - float32(uv.V)/float32(height)
}

// position scales a raw vertex and flips Y
func position(v mesh.Vertex, scale float64) [3]float32 {
	if scale == 0 {
		scale = 1
	}
	return [3]float32{
		float32(float64(v.X) / scale),
		float32(float64(-int32(v.Y)) / scale),
		float32(float64(v.Z) / scale),
	}
}
