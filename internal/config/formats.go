package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jchantrell/wmset/internal/export"
)

// validateFormats ensures every requested output format is supported.
// An empty list is valid and exports nothing.
func validateFormats(formats []string) error {
	for _, format := range formats {
		if format == "" {
			return fmt.Errorf("format name cannot be empty")
		}

		if !slices.Contains(export.Formats, format) {
			return fmt.Errorf("unsupported format '%s': supported formats are %s", format, strings.Join(export.Formats, ", "))
		}
	}
	return nil
}
