package theme

import (
	"embed"
	"image/color"
	"io/fs"
	"sort"
	"strings"
)

// EmbeddedThemes holds the colour schemes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme pairs the colour used for marked cells with the background colour of
// a rendered image.
type Theme struct {
	Name string

	Draw       color.RGBA // Stipples and rings
	Background color.RGBA // Everything else
}

// Default returns the hardcoded white-on-black scheme (fallback).
func Default() *Theme {
	return &Theme{
		Name:       "default",
		Draw:       color.RGBA{255, 255, 255, 255},
		Background: color.RGBA{0, 0, 0, 255},
	}
}

// EmbeddedNames lists the embedded theme names in sorted order.
func EmbeddedNames() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".theme"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
