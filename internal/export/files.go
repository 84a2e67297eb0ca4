package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/jchantrell/wmset/internal/wmset"
)

// Output formats
const (
	FormatOBJ  = "obj"
	FormatGLB  = "glb"
	FormatPNG  = "png"
	FormatText = "txt"
	FormatJSON = "json"
)

// Formats lists every supported output format
var Formats = []string{FormatOBJ, FormatGLB, FormatPNG, FormatText, FormatJSON}

// Options controls what the exporter writes
type Options struct {
	Formats      []string
	VertexScale  float64
	TextureScale int

	// Layout is used for the section kinds in the JSON summary
	Layout *wmset.Layout

	// Source names the input file in the JSON summary
	Source string
}

// Stats counts the files written by an export
type Stats struct {
	Models   int
	Textures int
	Files    int
}

// Exporter writes decoded worldmap entities to disk
type Exporter struct {
	outputDir string
	opts      Options
}

// NewExporter creates a new file exporter
func NewExporter(outputDir string, opts Options) *Exporter {
	if opts.VertexScale == 0 {
		opts.VertexScale = 100
	}
	if opts.TextureScale < 1 {
		opts.TextureScale = 1
	}
	return &Exporter{
		outputDir: outputDir,
		opts:      opts,
	}
}

// ProgressCallback is called to report export progress
type ProgressCallback func(current int, total int, description string)

func (e *Exporter) enabled(format string) bool {
	return slices.Contains(e.opts.Formats, format)
}

// Total returns the number of export steps Export will report
func (e *Exporter) Total(w *wmset.Worldmap) int {
	total := 0
	if e.enabled(FormatPNG) {
		total += len(w.Textures)
	}
	if e.enabled(FormatOBJ) || e.enabled(FormatGLB) {
		total += len(w.Models)
	}
	if e.enabled(FormatText) {
		total++
	}
	if e.enabled(FormatJSON) {
		total++
	}
	return total
}

// Export writes the configured formats for w into the output directory
func (e *Exporter) Export(w *wmset.Worldmap, progressCallback ProgressCallback) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return stats, fmt.Errorf("creating output directory: %w", err)
	}

	total := e.Total(w)
	processed := 0
	step := func(description string) {
		processed++
		if progressCallback != nil {
			progressCallback(processed, total, description)
		}
	}

	written := make(map[int]bool)

	if e.enabled(FormatPNG) {
		for i := range w.Textures {
			tex := &w.Textures[i]
			ok, err := e.writeTexture(tex, written)
			if err != nil {
				return stats, err
			}
			if ok {
				stats.Textures++
				stats.Files++
			}
			step(textureName(tex.Index) + ".png")
		}
	}

	if e.enabled(FormatOBJ) || e.enabled(FormatGLB) {
		for _, model := range w.Models {
			var texture *wmset.Texture
			if tex, ok := w.TextureFor(model); ok {
				texture = &tex
			}

			n, err := e.writeModel(model, texture, written)
			if err != nil {
				return stats, err
			}
			stats.Models++
			stats.Files += n
			step(modelName(model.Index))
		}
	}

	if e.enabled(FormatText) {
		n, err := e.writeTextDumps(w)
		if err != nil {
			return stats, err
		}
		stats.Files += n
		step("text")
	}

	if e.enabled(FormatJSON) {
		summary := NewSummary(e.opts.Source, w, e.opts.Layout)
		if err := writeFile(e.path("worldmap.json"), func(out io.Writer) error {
			return WriteJSON(out, summary)
		}); err != nil {
			return stats, err
		}
		stats.Files++
		step("worldmap.json")
	}

	slog.Debug("Exported worldmap", "dir", e.outputDir, "models", stats.Models, "textures", stats.Textures, "files", stats.Files)

	return stats, nil
}

// writeTexture writes texture_NNN.png once per texture
func (e *Exporter) writeTexture(tex *wmset.Texture, written map[int]bool) (bool, error) {
	if written[tex.Index] {
		return false, nil
	}
	if tex.Width() == 0 || tex.Height() == 0 {
		slog.Warn("Skipping empty texture", "texture", tex.Index)
		return false, nil
	}

	path := e.path(textureName(tex.Index) + ".png")
	if err := writeFile(path, func(out io.Writer) error {
		return WritePNG(out, tex.Image, e.opts.TextureScale)
	}); err != nil {
		return false, err
	}

	written[tex.Index] = true
	slog.Debug("Wrote texture", "texture", tex.Index, "output", path)
	return true, nil
}

// writeModel writes the OBJ + MTL and GLB forms of a model and returns the
// number of files written
func (e *Exporter) writeModel(model wmset.Model, texture *wmset.Texture, written map[int]bool) (int, error) {
	files := 0
	name := modelName(model.Index)

	if e.enabled(FormatOBJ) {
		mtlName := ""
		if texture != nil {
			ok, err := e.writeTexture(texture, written)
			if err != nil {
				return files, err
			}
			if ok {
				files++
			}
			if written[texture.Index] {
				mtlName = name + ".mtl"
				if err := writeFile(e.path(mtlName), func(out io.Writer) error {
					return WriteMTL(out, mtlName, textureName(texture.Index)+".png")
				}); err != nil {
					return files, err
				}
				files++
			}
		}

		if err := writeFile(e.path(name+".obj"), func(out io.Writer) error {
			return WriteOBJ(out, model, texture, mtlName, e.opts.VertexScale)
		}); err != nil {
			return files, err
		}
		files++
	}

	if e.enabled(FormatGLB) {
		path := e.path(name + ".glb")
		if err := SaveGLB(path, model, texture, e.opts.VertexScale, e.opts.TextureScale); err != nil {
			return files, fmt.Errorf("writing %s: %w", path, err)
		}
		files++
	}

	slog.Debug("Wrote model", "model", model.Index, "textured", texture != nil)
	return files, nil
}

func (e *Exporter) writeTextDumps(w *wmset.Worldmap) (int, error) {
	if err := writeFile(e.path("dialogs.txt"), func(out io.Writer) error {
		return WriteText(out, w.Dialogs)
	}); err != nil {
		return 0, err
	}
	if err := writeFile(e.path("locations.txt"), func(out io.Writer) error {
		return WriteText(out, w.LocationNames)
	}); err != nil {
		return 1, err
	}
	if err := writeFile(e.path("scripts.txt"), func(out io.Writer) error {
		return WriteScripts(out, w.Scripts)
	}); err != nil {
		return 2, err
	}
	return 3, nil
}

func (e *Exporter) path(name string) string {
	return filepath.Join(e.outputDir, name)
}

func modelName(index int) string {
	return fmt.Sprintf("model_%03d", index)
}

func textureName(index int) string {
	return fmt.Sprintf("texture_%03d", index)
}
