package theme

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type themeFile struct {
	Themes []Theme `yaml:"themes"`
}

// LoadFile reads themes from a YAML file. Entries whose id matches a built-in
// theme replace it; new ids are appended after the built-ins.
func LoadFile(path string, base []Theme) ([]Theme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read themes file: %w", err)
	}
	return Parse(raw, base)
}

// Parse decodes a YAML theme document and merges it over base.
func Parse(raw []byte, base []Theme) ([]Theme, error) {
	var doc themeFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}

	merged := append([]Theme(nil), base...)
	for i, item := range doc.Themes {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return nil, fmt.Errorf("theme #%d: id is required", i+1)
		}

		replaced := false
		for j := range merged {
			if merged[j].ID == item.ID {
				merged[j] = item
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, item)
		}
	}
	return merged, nil
}
