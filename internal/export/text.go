package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jchantrell/wmset/internal/wmset"
)

// WriteText dumps text entries one per block, prefixed with their index
func WriteText(w io.Writer, entries []wmset.TextEntry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		fmt.Fprintf(bw, "[%03d] %s\n", e.Index, e.Text.String())
	}
	return bw.Flush()
}

// WriteScripts dumps every script section as an indented opcode listing
func WriteScripts(w io.Writer, sections []wmset.ScriptSection) error {
	bw := bufio.NewWriter(w)
	for _, sec := range sections {
		fmt.Fprintf(bw, "section %d: %d entities\n", sec.Section, len(sec.Entities))
		for i, e := range sec.Entities {
			fmt.Fprintf(bw, "  entity %d @0x%04x\n", i, e.Offset)
			for j, sub := range e.SubScripts {
				fmt.Fprintf(bw, "    script %d\n", j)
				for _, op := range sub {
					fmt.Fprintf(bw, "      %-20s %4d %3d %3d\n", op.Mnemonic, op.Code, op.Param1, op.Param2)
				}
			}
		}
	}
	return bw.Flush()
}

// SectionSummary describes one container section
type SectionSummary struct {
	Index  int    `json:"index"`
	Offset uint32 `json:"offset"`
	Size   int    `json:"size"`
	Kind   string `json:"kind"`
}

// Summary is the JSON overview of a decoded worldmap
type Summary struct {
	Source        string             `json:"source,omitempty"`
	Size          int                `json:"size"`
	Sections      []SectionSummary   `json:"sections"`
	Models        int                `json:"models"`
	Textures      int                `json:"textures"`
	Dialogs       []string           `json:"dialogs"`
	LocationNames []string           `json:"locationNames"`
	DrawPoints    []wmset.DrawPoint  `json:"drawPoints"`
	Scripts       map[string]int     `json:"scripts"`
	Diagnostics   []wmset.Diagnostic `json:"diagnostics"`
}

// NewSummary collects the overview of w. layout may be nil.
func NewSummary(source string, w *wmset.Worldmap, layout *wmset.Layout) Summary {
	if layout == nil {
		layout = wmset.DefaultLayout()
	}

	s := Summary{
		Source:        source,
		Models:        len(w.Models),
		Textures:      len(w.Textures),
		Dialogs:       make([]string, 0, len(w.Dialogs)),
		LocationNames: make([]string, 0, len(w.LocationNames)),
		DrawPoints:    w.DrawPoints,
		Scripts:       make(map[string]int),
		Diagnostics:   w.Diagnostics,
	}

	if c := w.Container; c != nil {
		s.Size = c.Size
		for i, r := range c.Ranges {
			s.Sections = append(s.Sections, SectionSummary{
				Index:  i,
				Offset: c.Offsets[i],
				Size:   r.Len(),
				Kind:   layout.Kind(i).String(),
			})
		}
	}
	for _, d := range w.Dialogs {
		s.Dialogs = append(s.Dialogs, d.Text.String())
	}
	for _, l := range w.LocationNames {
		s.LocationNames = append(s.LocationNames, l.Text.String())
	}
	for _, sec := range w.Scripts {
		s.Scripts[fmt.Sprintf("section_%02d", sec.Section)] = len(sec.Entities)
	}

	return s
}

// WriteJSON writes the summary as indented JSON
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
