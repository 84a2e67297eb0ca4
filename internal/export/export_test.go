package export

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jchantrell/wmset/internal/fftext"
	"github.com/jchantrell/wmset/internal/mesh"
	"github.com/jchantrell/wmset/internal/script"
	"github.com/jchantrell/wmset/internal/tim"
	"github.com/jchantrell/wmset/internal/wmset"
)

func sampleModel() wmset.Model {
	return wmset.Model{
		Index: 0,
		Model: mesh.Model{
			Vertices: []mesh.Vertex{
				{X: 0, Y: 0, Z: 0},
				{X: 100, Y: 0, Z: 0},
				{X: 0, Y: 100, Z: 0},
				{X: 100, Y: 100, Z: 0},
			},
			Triangles: []mesh.Triangle{
				{Indices: [3]uint8{0, 1, 2}, UVs: [3]mesh.UV{{U: 0, V: 0}, {U: 2, V: 0}, {U: 0, V: 2}}},
				{Indices: [3]uint8{0, 1, 9}},
			},
			Quads: []mesh.Quad{
				{Indices: [4]uint8{0, 1, 2, 3}, UVs: [4]mesh.UV{{U: 0, V: 0}, {U: 4, V: 0}, {U: 0, V: 4}, {U: 4, V: 4}}},
			},
		},
	}
}

func sampleTexture() wmset.Texture {
	return wmset.Texture{
		Index: 0,
		Image: &tim.Image{
			Depth:  tim.Depth16,
			Rect:   tim.Rect{Width: 4, Height: 4},
			Pixels: bytes.Repeat([]byte{0x1F, 0x00}, 16),
		},
	}
}

func TestWriteOBJ(t *testing.T) {
	tex := sampleTexture()
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, sampleModel(), &tex, "model_000.mtl", 100); err != nil {
		t.Fatalf("WriteOBJ() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"mtllib model_000.mtl\n",
		"usemtl Textured\n",
		"v 1.000000 0.000000 0.000000\n",
		"v 0.000000 -1.000000 0.000000\n",
		"vt 0.500000 1.000000\n",
		"vt 0.000000 0.500000\n",
		"f 1/1 2/2 3/3\n",
		"f 1/4 2/5 4/6 3/7\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("OBJ output missing %q:\n%s", want, out)
		}
	}

	// the triangle referencing vertex 9 is dropped
	if n := strings.Count(out, "\nf "); n != 2 {
		t.Errorf("face count = %d, want 2", n)
	}
	if n := strings.Count(out, "\nvt "); n != 7 {
		t.Errorf("uv count = %d, want 7", n)
	}
}

func TestWriteOBJWithoutTexture(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, sampleModel(), nil, "", 100); err != nil {
		t.Fatalf("WriteOBJ() error = %v", err)
	}
	if strings.Contains(buf.String(), "mtllib") {
		t.Error("untextured OBJ should not reference a material library")
	}
	if !strings.Contains(buf.String(), "vt 0.007812 1.000000\n") {
		t.Errorf("UVs should be normalized against a 256 texture page:\n%s", buf.String())
	}
}

func TestTextureImageScale(t *testing.T) {
	tex := sampleTexture()
	img := TextureImage(tex.Image, 3)
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 12 {
		t.Fatalf("bounds = %v, want 12x12", img.Bounds())
	}
	if got := img.NRGBAAt(11, 11); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel = %v, want opaque red", got)
	}
}

func TestBuildGLTF(t *testing.T) {
	tex := sampleTexture()
	doc, err := BuildGLTF(sampleModel(), &tex, 100, 1)
	if err != nil {
		t.Fatalf("BuildGLTF() error = %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("meshes = %d, want 1", len(doc.Meshes))
	}
	if len(doc.Images) != 1 || len(doc.Textures) != 1 {
		t.Errorf("images = %d, textures = %d, want 1 and 1", len(doc.Images), len(doc.Textures))
	}
	// one triangle plus a quad split into two
	idx := doc.Meshes[0].Primitives[0].Indices
	if idx == nil {
		t.Fatal("primitive has no indices")
	}
	if got := doc.Accessors[*idx].Count; got != 9 {
		t.Errorf("index count = %d, want 9", got)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	w := &wmset.Worldmap{
		Container: &wmset.Container{
			Size:    wmset.MinContainerSize,
			Offsets: make([]uint32, wmset.SectionCount),
			Ranges:  make([]wmset.Range, wmset.SectionCount),
		},
		Models:        []wmset.Model{sampleModel()},
		Textures:      []wmset.Texture{sampleTexture()},
		Dialogs:       []wmset.TextEntry{{Index: 0, Text: fftext.Decode([]byte{0x4C, 0x67})}},
		LocationNames: []wmset.TextEntry{{Index: 0, Text: fftext.Decode([]byte{0x03, 0x30})}},
		DrawPoints:    []wmset.DrawPoint{{X: 1, Y: 2, MagicID: 3}},
		Scripts: []wmset.ScriptSection{{
			Section: 14,
			Entities: []script.Entity{{SubScripts: [][]script.Opcode{{
				{Code: 1, Mnemonic: "WAIT", Param1: 5},
			}}}},
		}},
	}

	calls := 0
	e := NewExporter(dir, Options{Formats: Formats, Source: "wmsetus.obj"})
	stats, err := e.Export(w, func(current, total int, _ string) {
		calls++
		if current > total {
			t.Errorf("progress %d exceeds total %d", current, total)
		}
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if stats.Models != 1 || stats.Textures != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if calls != e.Total(w) {
		t.Errorf("progress calls = %d, want %d", calls, e.Total(w))
	}

	for _, name := range []string{
		"texture_000.png", "model_000.obj", "model_000.mtl", "model_000.glb",
		"dialogs.txt", "locations.txt", "scripts.txt", "worldmap.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "texture_000.png"))
	if err != nil {
		t.Fatalf("opening png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("png width = %d, want 4", img.Bounds().Dx())
	}

	dialogs, _ := os.ReadFile(filepath.Join(dir, "dialogs.txt"))
	if string(dialogs) != "[000] Hi\n" {
		t.Errorf("dialogs.txt = %q", dialogs)
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "worldmap.json"))
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("worldmap.json: %v", err)
	}
	if summary.Source != "wmsetus.obj" || len(summary.Sections) != wmset.SectionCount {
		t.Errorf("summary = %+v", summary)
	}
	if summary.LocationNames[0] != "{Squall}" {
		t.Errorf("location = %q, want {Squall}", summary.LocationNames[0])
	}
}

func TestExportSelectedFormats(t *testing.T) {
	dir := t.TempDir()
	w := &wmset.Worldmap{
		Models:   []wmset.Model{sampleModel()},
		Textures: []wmset.Texture{sampleTexture()},
	}

	if _, err := NewExporter(dir, Options{Formats: []string{FormatPNG}}).Export(w, nil); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "texture_000.png" {
		t.Errorf("files = %v, want only texture_000.png", entries)
	}
}

func TestNewSummary(t *testing.T) {
	w := &wmset.Worldmap{
		Models:   []wmset.Model{sampleModel(), sampleModel()},
		Textures: []wmset.Texture{sampleTexture()},
		Dialogs:  []wmset.TextEntry{{Index: 0, Text: fftext.Decode([]byte{0x4C, 0x67})}},
		Scripts:  []wmset.ScriptSection{{Section: 14, Entities: make([]script.Entity, 3)}},
	}

	s := NewSummary("wmsetus.obj", w, nil)
	if s.Models != 2 {
		t.Errorf("Models = %d, want 2", s.Models)
	}
	if s.Textures != 1 {
		t.Errorf("Textures = %d, want 1", s.Textures)
	}
	if len(s.Dialogs) != 1 {
		t.Errorf("Dialogs = %d, want 1", len(s.Dialogs))
	}
	if got := s.Scripts["section_14"]; got != 3 {
		t.Errorf("section_14 entities = %d, want 3", got)
	}
	if s.Size != 0 || s.Sections != nil {
		t.Errorf("summary without a container = %d bytes, %d sections", s.Size, len(s.Sections))
	}
}
