// Package preset stores a pattern choice, its parameters and the output
// colours as a TOML document.
package preset

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/example/stipple/internal/pattern"
	"github.com/example/stipple/internal/theme"
)

// Preset is the on-disk form. Colours are kept as strings so files stay
// readable and accept colour names.
type Preset struct {
	Pattern    string         `toml:"pattern"`
	Draw       string         `toml:"draw,omitempty"`
	Background string         `toml:"background,omitempty"`
	Params     pattern.Params `toml:"params"`
}

// New builds a preset from resolved values.
func New(kind pattern.Kind, p pattern.Params, draw, background color.RGBA) *Preset {
	return &Preset{
		Pattern:    kind.String(),
		Draw:       theme.FormatColor(draw),
		Background: theme.FormatColor(background),
		Params:     p,
	}
}

// Kind parses the pattern name.
func (p *Preset) Kind() (pattern.Kind, error) {
	return pattern.ParseKind(p.Pattern)
}

// Colors parses Draw and Background. Empty fields fall back to the given
// defaults.
func (p *Preset) Colors(draw, background color.RGBA) (color.RGBA, color.RGBA, error) {
	var err error
	if p.Draw != "" {
		if draw, err = theme.ParseColor(p.Draw); err != nil {
			return draw, background, fmt.Errorf("preset draw colour: %w", err)
		}
	}
	if p.Background != "" {
		if background, err = theme.ParseColor(p.Background); err != nil {
			return draw, background, fmt.Errorf("preset background colour: %w", err)
		}
	}
	return draw, background, nil
}

// Decode reads a preset. Missing parameters keep their defaults and unknown
// keys are rejected.
func Decode(r io.Reader) (*Preset, error) {
	p := &Preset{Pattern: pattern.Rings.String(), Params: pattern.Defaults()}
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("decode preset: %w", err)
	}
	if _, err := p.Kind(); err != nil {
		return nil, err
	}
	if err := p.Params.Validate(); err != nil {
		return nil, fmt.Errorf("preset params: %w", err)
	}
	return p, nil
}

// Encode writes p as TOML.
func Encode(w io.Writer, p *Preset) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(p)
}

// Load reads the preset file at path.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path.
func Save(path string, p *Preset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
