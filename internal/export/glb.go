package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/jchantrell/wmset/internal/wmset"
)

// BuildGLTF builds a glTF document for the model. Every face corner becomes
// its own vertex so that each face keeps its own texture coordinates. When a
// texture is given it is embedded as PNG.
func BuildGLTF(model wmset.Model, texture *wmset.Texture, scale float64, textureScale int) (*gltf.Document, error) {
	width, height := 0, 0
	if texture != nil {
		width, height = texture.Width(), texture.Height()
	}

	var positions [][3]float32
	var uvs [][2]float32
	var indices []uint32
	hasAlpha := false

	for _, f := range faces(model.Index, model.Model) {
		if f.semitransparent {
			hasAlpha = true
		}
		base := uint32(len(positions))
		for _, c := range f.corners {
			positions = append(positions, position(model.Vertices[c.vertex], scale))
			u, v := normalizeUV(c.uv, width, height)
			// glTF puts the texture origin at the top left
			uvs = append(uvs, [2]float32{u, 1 - v})
		}
		for i := 1; i+1 < len(f.corners); i++ {
			indices = append(indices, base, base+uint32(i), base+uint32(i+1))
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "wmset"

	if len(indices) == 0 {
		return doc, nil
	}

	posAccessor := modeler.WritePosition(doc, positions)
	uvAccessor := modeler.WriteTextureCoord(doc, uvs)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(posAccessor),
			gltf.TEXCOORD_0: uint32(uvAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}

	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{1, 1, 1, 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	material := &gltf.Material{
		Name:                 materialName,
		PBRMetallicRoughness: pbr,
		AlphaMode:            gltf.AlphaOpaque,
	}

	if texture != nil && width > 0 && height > 0 {
		var buf bytes.Buffer
		if err := png.Encode(&buf, TextureImage(texture.Image, textureScale)); err != nil {
			return nil, fmt.Errorf("encoding texture %d: %w", texture.Index, err)
		}
		img, err := modeler.WriteImage(doc, fmt.Sprintf("texture_%03d", texture.Index), "image/png", &buf)
		if err != nil {
			return nil, fmt.Errorf("embedding texture %d: %w", texture.Index, err)
		}
		doc.Samplers = []*gltf.Sampler{{MagFilter: gltf.MagNearest, MinFilter: gltf.MinNearest}}
		doc.Textures = []*gltf.Texture{{Sampler: gltf.Index(0), Source: gltf.Index(uint32(img))}}
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: 0}
		// palette transparency is binary
		material.AlphaMode = gltf.AlphaMask
		material.AlphaCutoff = gltf.Float(0.5)
	}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}

	doc.Materials = []*gltf.Material{material}
	doc.Meshes = []*gltf.Mesh{{Name: fmt.Sprintf("model_%03d", model.Index), Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	return doc, nil
}

// SaveGLB writes the model as a binary glTF file
func SaveGLB(path string, model wmset.Model, texture *wmset.Texture, scale float64, textureScale int) error {
	doc, err := BuildGLTF(model, texture, scale, textureScale)
	if err != nil {
		return err
	}
	return gltf.SaveBinary(doc, path)
}
