package config

import (
	"fmt"

	"github.com/jchantrell/wmset/internal/wmset"
)

// validateScriptSections ensures script sections are in range, unique and do
// not collide with a fixed section role
func validateScriptSections(sections []int) error {
	seen := make(map[int]bool, len(sections))
	for _, idx := range sections {
		if seen[idx] {
			return fmt.Errorf("script section %d listed twice", idx)
		}
		seen[idx] = true
	}

	if _, err := wmset.NewLayout(sections); err != nil {
		return err
	}
	return nil
}
