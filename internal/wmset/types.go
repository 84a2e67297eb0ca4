package wmset

import (
	"fmt"

	"github.com/jchantrell/wmset/internal/fftext"
	"github.com/jchantrell/wmset/internal/mesh"
	"github.com/jchantrell/wmset/internal/script"
	"github.com/jchantrell/wmset/internal/tim"
)

// SectionKind identifies the codec that handles a container section
type SectionKind int

const (
	KindSkip SectionKind = iota
	KindScript
	KindDialogText
	KindGeometry
	KindLocationNames
	KindDrawPoints
	KindTextures
)

func (k SectionKind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindScript:
		return "script"
	case KindDialogText:
		return "dialog"
	case KindGeometry:
		return "geometry"
	case KindLocationNames:
		return "locations"
	case KindDrawPoints:
		return "drawpoints"
	case KindTextures:
		return "textures"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Diagnostic records a non-fatal decoding problem. Entity is -1 when the
// problem concerns the section as a whole, Section is -1 for the container
// offset table itself.
type Diagnostic struct {
	Section int    `json:"section"`
	Entity  int    `json:"entity"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Section < 0 {
		return "container: " + d.Message
	}
	if d.Entity < 0 {
		return fmt.Sprintf("section %d: %s", d.Section, d.Message)
	}
	return fmt.Sprintf("section %d entity %d: %s", d.Section, d.Entity, d.Message)
}

// DrawPoint is a magic draw point placed on the world map
type DrawPoint struct {
	X       uint8  `json:"x"`
	Y       uint8  `json:"y"`
	MagicID uint16 `json:"magicId"`
}

// Model is a decoded geometry entity tagged with its position in the
// geometry offset table
type Model struct {
	Index int
	mesh.Model
}

// Texture is a decoded image tagged with its position in the texture table
type Texture struct {
	Index int
	*tim.Image
}

// TextEntry is one decoded string from a text-bearing section
type TextEntry struct {
	Index int
	Text  fftext.Text
}

// ScriptSection holds the scripted entities decoded from one section
type ScriptSection struct {
	Section  int
	Entities []script.Entity
}

// Worldmap is the result of decoding a whole container
type Worldmap struct {
	Container     *Container
	Dialogs       []TextEntry
	LocationNames []TextEntry
	Models        []Model
	Textures      []Texture
	DrawPoints    []DrawPoint
	Scripts       []ScriptSection
	Diagnostics   []Diagnostic
}

// TextureFor returns the texture paired with the model at the same index
func (w *Worldmap) TextureFor(model Model) (Texture, bool) {
	for _, tex := range w.Textures {
		if tex.Index == model.Index {
			return tex, true
		}
	}
	return Texture{}, false
}
