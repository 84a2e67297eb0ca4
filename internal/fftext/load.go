package fftext

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a character table from YAML mapping byte codes to strings:
//
//	0x21: "あ"
//	0x22: "い"
//
// Codes below 0x20 are control bytes and cannot be mapped.
func LoadTable(r io.Reader) (*Table, error) {
	var entries map[int]string
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing character table: %w", err)
	}

	var t Table
	for code, s := range entries {
		if code < 0x20 || code > 0xFF {
			return nil, fmt.Errorf("character code 0x%X outside 0x20-0xFF", code)
		}
		t[code] = s
	}
	return &t, nil
}

// LoadTableFile reads a character table from a YAML file
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening character table: %w", err)
	}
	defer f.Close()

	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
