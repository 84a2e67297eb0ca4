package wmset

import "fmt"

// Fixed section indices (0-based) of the sections decoded by this package
const (
	SectionDialogText    = 13
	SectionGeometry      = 15
	SectionLocationNames = 31
	SectionDrawPoints    = 34
	SectionTextures      = 41
)

// DefaultScriptSections lists the sections holding scripted events
var DefaultScriptSections = []int{14, 16, 17, 18}

// Layout maps every container section index to the codec that handles it
type Layout struct {
	kinds [SectionCount]SectionKind
}

// NewLayout builds the section layout. Script sections may not collide with
// the fixed data sections.
func NewLayout(scriptSections []int) (*Layout, error) {
	l := &Layout{}
	l.kinds[SectionDialogText] = KindDialogText
	l.kinds[SectionGeometry] = KindGeometry
	l.kinds[SectionLocationNames] = KindLocationNames
	l.kinds[SectionDrawPoints] = KindDrawPoints
	l.kinds[SectionTextures] = KindTextures

	for _, idx := range scriptSections {
		if idx < 0 || idx >= SectionCount {
			return nil, fmt.Errorf("script section %d out of range [0, %d)", idx, SectionCount)
		}
		if l.kinds[idx] != KindSkip && l.kinds[idx] != KindScript {
			return nil, fmt.Errorf("script section %d is already used for %s", idx, l.kinds[idx])
		}
		l.kinds[idx] = KindScript
	}

	return l, nil
}

// DefaultLayout returns the layout with DefaultScriptSections
func DefaultLayout() *Layout {
	l, err := NewLayout(DefaultScriptSections)
	if err != nil {
		panic(err)
	}
	return l
}

// Kind returns the codec for section index i
func (l *Layout) Kind(i int) SectionKind {
	if i < 0 || i >= SectionCount {
		return KindSkip
	}
	return l.kinds[i]
}

// Sections returns the indices handled by the given kind in ascending order
func (l *Layout) Sections(kind SectionKind) []int {
	var out []int
	for i, k := range l.kinds {
		if k == kind {
			out = append(out, i)
		}
	}
	return out
}
