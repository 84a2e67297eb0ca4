package wmset

import (
	"encoding/binary"
	"errors"
	"testing"
)

// buildContainer lays the given sections out back to back after the offset
// table and pads the file to MinContainerSize inside the last section
func buildContainer(sections map[int][]byte) []byte {
	data := make([]byte, HeaderSize)
	for i := 0; i < SectionCount; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(len(data)))
		data = append(data, sections[i]...)
	}
	if len(data) < MinContainerSize {
		data = append(data, make([]byte, MinContainerSize-len(data))...)
	}
	return data
}

func TestParseContainerTooShort(t *testing.T) {
	_, err := ParseContainer(make([]byte, MinContainerSize-1))
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("ParseContainer() error = %v, want ErrTooShort", err)
	}
	var tse *TooShortError
	if !errors.As(err, &tse) || tse.Size != MinContainerSize-1 {
		t.Errorf("error = %#v, want *TooShortError with size %d", err, MinContainerSize-1)
	}
}

func TestParseContainerSections(t *testing.T) {
	data := buildContainer(map[int][]byte{
		0:  {1, 2, 3},
		5:  {4, 5},
		47: {6},
	})

	c, err := ParseContainer(data)
	if err != nil {
		t.Fatalf("ParseContainer() error = %v", err)
	}
	if len(c.Offsets) != SectionCount || len(c.Sections) != SectionCount {
		t.Fatalf("got %d offsets, %d sections", len(c.Offsets), len(c.Sections))
	}
	if c.Offsets[0] != HeaderSize {
		t.Errorf("Offsets[0] = %d, want %d", c.Offsets[0], HeaderSize)
	}
	if len(c.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", c.Diagnostics)
	}
	if got := c.Section(0); string(got) != string([]byte{1, 2, 3}) {
		t.Errorf("Section(0) = %v", got)
	}
	if got := c.Section(5); string(got) != string([]byte{4, 5}) {
		t.Errorf("Section(5) = %v", got)
	}
	if got := len(c.Section(1)); got != 0 {
		t.Errorf("len(Section(1)) = %d, want 0", got)
	}
	if got, want := len(c.Section(47)), MinContainerSize-HeaderSize-5; got != want {
		t.Errorf("len(Section(47)) = %d, want %d", got, want)
	}
	if c.Section(48) != nil || c.Section(-1) != nil {
		t.Error("out of range Section() should be nil")
	}
}

func TestParseContainerFirstOffsetMismatch(t *testing.T) {
	data := buildContainer(nil)
	binary.LittleEndian.PutUint32(data[0:], HeaderSize+4)

	c, err := ParseContainer(data)
	if err != nil {
		t.Fatalf("ParseContainer() error = %v", err)
	}
	if len(c.Diagnostics) == 0 || c.Diagnostics[0].Section != -1 {
		t.Errorf("Diagnostics = %v, want a container diagnostic", c.Diagnostics)
	}
}

func TestParseContainerClampsOutOfBounds(t *testing.T) {
	data := buildContainer(nil)
	binary.LittleEndian.PutUint32(data[10*4:], 0xFFFFFF)

	c, err := ParseContainer(data)
	if err != nil {
		t.Fatalf("ParseContainer() error = %v", err)
	}
	if !c.Ranges[10].Clamped {
		t.Error("Ranges[10] should be clamped")
	}
	if len(c.Section(10)) != 0 {
		t.Errorf("len(Section(10)) = %d, want 0", len(c.Section(10)))
	}
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{Section: -1, Entity: -1, Message: "m"}, "container: m"},
		{Diagnostic{Section: 15, Entity: -1, Message: "m"}, "section 15: m"},
		{Diagnostic{Section: 41, Entity: 2, Message: "m"}, "section 41 entity 2: m"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewLayout(t *testing.T) {
	l := DefaultLayout()
	if l.Kind(SectionGeometry) != KindGeometry || l.Kind(14) != KindScript || l.Kind(0) != KindSkip {
		t.Error("default layout kinds are wrong")
	}
	if got := l.Sections(KindScript); len(got) != len(DefaultScriptSections) {
		t.Errorf("Sections(KindScript) = %v, want %v", got, DefaultScriptSections)
	}

	if _, err := NewLayout([]int{SectionTextures}); err == nil {
		t.Error("NewLayout() should reject a collision with the texture section")
	}
	if _, err := NewLayout([]int{48}); err == nil {
		t.Error("NewLayout() should reject an out of range section")
	}
}
