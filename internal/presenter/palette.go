package presenter

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type paletteFile struct {
	Colors []ColorPair `yaml:"colors"`
}

// LoadPalette reads a palette override such as:
//
//	colors:
//	  - {bg: purple-200, text: purple-600}
//	  - {bg: blue-200, text: blue-600}
func LoadPalette(path string) ([]ColorPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette file: %w", err)
	}

	var file paletteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse palette file: %w", err)
	}
	if len(file.Colors) == 0 {
		return nil, fmt.Errorf("palette file %s has no colors", path)
	}
	for i, c := range file.Colors {
		if strings.TrimSpace(c.Background) == "" || strings.TrimSpace(c.Text) == "" {
			return nil, fmt.Errorf("palette color %d: bg and text are required", i)
		}
	}
	return file.Colors, nil
}
