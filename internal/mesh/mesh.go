// Package mesh decodes the fixed-layout model records of the worldmap
// geometry section.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	HeaderSize   = 8
	TriangleSize = 12
	QuadSize     = 16
	VertexSize   = 8
)

// ErrTruncated reports a model whose declared counts need more bytes than the
// range holds
var ErrTruncated = errors.New("truncated model record")

// TruncatedError describes which record group ran out of data
type TruncatedError struct {
	Group string // "header", "triangles", "quads" or "vertices"
	Need  int
	Have  int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s: %s need %d bytes, have %d", ErrTruncated.Error(), e.Group, e.Need, e.Have)
}

func (e *TruncatedError) Unwrap() error {
	return ErrTruncated
}

// UV is one texture coordinate pair in texel units
type UV struct {
	U uint8 `json:"u"`
	V uint8 `json:"v"`
}

// Vertex is a model-space position in raw signed 16-bit units
type Vertex struct {
	X        int16  `json:"x"`
	Y        int16  `json:"y"`
	Z        int16  `json:"z"`
	Reserved uint16 `json:"-"`
}

// Triangle is a textured three-sided face
type Triangle struct {
	Indices    [3]uint8 `json:"indices"`
	Semitransp uint8    `json:"semitransp"`
	UVs        [3]UV    `json:"uvs"`
	ClutID     uint16   `json:"clutId"`
}

// Semitransparent reports bit 0 of the semitransparency byte
func (t Triangle) Semitransparent() bool {
	return t.Semitransp&0x01 != 0
}

// Quad is a textured four-sided face
type Quad struct {
	Indices    [4]uint8 `json:"indices"`
	UVs        [4]UV    `json:"uvs"`
	ClutID     uint16   `json:"clutId"`
	Semitransp uint8    `json:"semitransp"`
	Reserved   uint8    `json:"-"`
}

// Semitransparent reports bit 0 of the semitransparency byte
func (q Quad) Semitransparent() bool {
	return q.Semitransp&0x01 != 0
}

// Model is one decoded geometry entity
type Model struct {
	TexturePage uint16     `json:"texturePage"`
	Triangles   []Triangle `json:"triangles"`
	Quads       []Quad     `json:"quads"`
	Vertices    []Vertex   `json:"vertices"`
}

// Decode reads a model: four u16 counts followed by the triangle, quad and
// vertex records, in that order and without padding. Vertex indices are not
// checked against the vertex count.
func Decode(data []byte) (Model, error) {
	if len(data) < HeaderSize {
		return Model{}, &TruncatedError{Group: "header", Need: HeaderSize, Have: len(data)}
	}

	triangleCount := int(binary.LittleEndian.Uint16(data[0:]))
	quadCount := int(binary.LittleEndian.Uint16(data[2:]))
	texturePage := binary.LittleEndian.Uint16(data[4:])
	vertexCount := int(binary.LittleEndian.Uint16(data[6:]))

	p := HeaderSize
	m := Model{
		TexturePage: texturePage,
		Triangles:   make([]Triangle, triangleCount),
		Quads:       make([]Quad, quadCount),
		Vertices:    make([]Vertex, vertexCount),
	}

	if need := triangleCount * TriangleSize; len(data)-p < need {
		return Model{}, &TruncatedError{Group: "triangles", Need: need, Have: len(data) - p}
	}
	for i := range m.Triangles {
		m.Triangles[i] = readTriangle(data[p : p+TriangleSize])
		p += TriangleSize
	}

	if need := quadCount * QuadSize; len(data)-p < need {
		return Model{}, &TruncatedError{Group: "quads", Need: need, Have: len(data) - p}
	}
	for i := range m.Quads {
		m.Quads[i] = readQuad(data[p : p+QuadSize])
		p += QuadSize
	}

	if need := vertexCount * VertexSize; len(data)-p < need {
		return Model{}, &TruncatedError{Group: "vertices", Need: need, Have: len(data) - p}
	}
	for i := range m.Vertices {
		m.Vertices[i] = readVertex(data[p : p+VertexSize])
		p += VertexSize
	}

	return m, nil
}

func readTriangle(b []byte) Triangle {
	return Triangle{
		Indices:    [3]uint8{b[0], b[1], b[2]},
		Semitransp: b[3],
		UVs: [3]UV{
			{U: b[4], V: b[5]},
			{U: b[6], V: b[7]},
			{U: b[8], V: b[9]},
		},
		ClutID: binary.LittleEndian.Uint16(b[10:]),
	}
}

func readQuad(b []byte) Quad {
	return Quad{
		Indices: [4]uint8{b[0], b[1], b[2], b[3]},
		UVs: [4]UV{
			{U: b[4], V: b[5]},
			{U: b[6], V: b[7]},
			{U: b[8], V: b[9]},
			{U: b[10], V: b[11]},
		},
		ClutID:     binary.LittleEndian.Uint16(b[12:]),
		Semitransp: b[14],
		Reserved:   b[15],
	}
}

func readVertex(b []byte) Vertex {
	return Vertex{
		X:        int16(binary.LittleEndian.Uint16(b[0:])),
		Y:        int16(binary.LittleEndian.Uint16(b[2:])),
		Z:        int16(binary.LittleEndian.Uint16(b[4:])),
		Reserved: binary.LittleEndian.Uint16(b[6:]),
	}
}
