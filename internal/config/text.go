package config

import (
	"fmt"

	"github.com/jchantrell/wmset/internal/fftext"
)

// validateTextTables ensures either no alternate tables or a full set is
// configured. The alternate leads only apply when every table is present.
func validateTextTables(paths []string) error {
	if len(paths) != 0 && len(paths) != fftext.MaxTables-1 {
		return fmt.Errorf("need 0 or %d alternate text tables, got %d", fftext.MaxTables-1, len(paths))
	}
	for _, path := range paths {
		if path == "" {
			return fmt.Errorf("text table path cannot be empty")
		}
	}
	return nil
}

// TextDecoder builds the text decoder for the configured tables
func (c *Config) TextDecoder() (*fftext.Decoder, error) {
	if len(c.TextTables) == 0 {
		return fftext.DefaultDecoder, nil
	}

	tables := []*fftext.Table{&fftext.DefaultTable}
	for _, path := range c.TextTables {
		t, err := fftext.LoadTableFile(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return fftext.NewDecoder(tables...)
}
