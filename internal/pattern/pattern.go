// Package pattern generates the seed canvases that the re-render stage
// stipples: concentric rings, a phyllotaxis spiral and a closed-form
// wavefront field.
package pattern

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/example/stipple/internal/canvas"
)

// ErrUnknownKind is returned by ParseKind for unrecognised pattern names.
var ErrUnknownKind = errors.New("unknown pattern")

// Kind selects a pattern generator.
type Kind int

const (
	Rings Kind = iota
	Phyllotaxis
	Wavefront
)

// Kinds lists every generator in display order.
func Kinds() []Kind { return []Kind{Rings, Phyllotaxis, Wavefront} }

func (k Kind) String() string {
	switch k {
	case Rings:
		return "rings"
	case Phyllotaxis:
		return "phyllotaxis"
	case Wavefront:
		return "wavefront"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label is the human readable name shown in help and the viewer title.
func (k Kind) Label() string {
	switch k {
	case Rings:
		return "Concentric circles"
	case Phyllotaxis:
		return "Phyllotaxis spiral"
	case Wavefront:
		return "Wavefront"
	}
	return k.String()
}

// ParseKind accepts either the short name or the label of a pattern.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if name == k.String() || name == strings.ToLower(k.Label()) {
			return k, nil
		}
	}
	switch name {
	case "circles", "concentric":
		return Rings, nil
	case "spiral", "sunflower":
		return Phyllotaxis, nil
	case "wave":
		return Wavefront, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// GoldenAngle is pi*(3-sqrt(5)) radians, roughly 137.5 degrees.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// DrawRings accumulates count rings of half-width ringWidth around
// (centerX, centerY) at radii 0, increment, 2*increment and so on.
func DrawRings(c *canvas.Canvas, count, centerX, centerY, increment, ringWidth int) {
	for i := 0; i < count; i++ {
		// Radii past MaxInt are unrepresentable, and so are all later rings.
		if increment > 0 && i > math.MaxInt/increment {
			return
		}
		canvas.DrawPrimitive(c, centerX, centerY, i*increment, ringWidth, false)
	}
}

// maxOffset bounds spiral offsets so the int conversion cannot wrap. Such
// points are far outside any canvas.
const maxOffset = 1 << 53

func offset(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(max(-maxOffset, min(maxOffset, v))))
}

// SpiralPoint returns the centre of the i-th phyllotaxis seed.
func SpiralPoint(i, centerX, centerY int, scale float64) (x, y int) {
	r := math.Sqrt(float64(i)) * scale
	a := float64(i) * GoldenAngle
	return centerX + offset(r*math.Cos(a)), centerY + offset(r*math.Sin(a))
}

// DrawPhyllotaxis places count filled discs of pointRadius along the
// sunflower spiral centred on (centerX, centerY).
func DrawPhyllotaxis(c *canvas.Canvas, count, centerX, centerY int, scale float64, pointRadius int) {
	for i := 0; i < count; i++ {
		x, y := SpiralPoint(i, centerX, centerY, scale)
		canvas.DrawPrimitive(c, x, y, pointRadius, 0, true)
	}
}

// wavefrontField evaluates the closed-form ring field: coordinates are mapped
// to [-1, 1] around the canvas centre on each axis and a cell is on when
// |sin(r * frequency * 2pi)| < thickness.
type wavefrontField struct {
	halfW, halfH         float64
	frequency, thickness float64
}

func newWavefrontField(width, height int, frequency, thickness float64) wavefrontField {
	f := wavefrontField{
		halfW:     float64(width-1) / 2,
		halfH:     float64(height-1) / 2,
		frequency: frequency,
		thickness: thickness,
	}
	if f.halfW <= 0 {
		f.halfW = 1
	}
	if f.halfH <= 0 {
		f.halfH = 1
	}
	return f
}

func (f wavefrontField) on(x, y int) bool {
	nx := (float64(x) - f.halfW) / f.halfW
	ny := (float64(y) - f.halfH) / f.halfH
	r := math.Sqrt(nx*nx + ny*ny)
	return math.Abs(math.Sin(r*f.frequency*2*math.Pi)) < f.thickness
}

// DrawWavefront marks every cell of c that lies on the closed-form ring
// field.
func DrawWavefront(c *canvas.Canvas, frequency, thickness float64) {
	f := newWavefrontField(c.Width(), c.Height(), frequency, thickness)
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if f.on(x, y) {
				c.Mark(x, y)
			}
		}
	}
}

// WavefrontBilevel encodes the wavefront field straight into the packed
// 1-bit layout of canvas.EncodeBilevel without building a canvas.
func WavefrontBilevel(width, height int, frequency, thickness float64) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wavefront %dx%d: %w", width, height, canvas.ErrInvalidDimension)
	}
	f := newWavefrontField(width, height, frequency, thickness)
	stride := canvas.BilevelStride(width)
	out := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		row := out[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			if f.on(x, y) {
				row[x>>3] |= 0x80 >> uint(x&7)
			}
		}
	}
	return out, nil
}

// Generate builds a fresh width x height seed canvas for kind.
func Generate(kind Kind, p Params, width, height int) (*canvas.Canvas, error) {
	c, err := canvas.New(width, height)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cx, cy := p.Center(width, height)
	switch kind {
	case Rings:
		DrawRings(c, p.Count, cx, cy, p.Increment, p.RingWidth)
	case Phyllotaxis:
		DrawPhyllotaxis(c, p.Count, cx, cy, p.Scale, p.PointRadius)
	case Wavefront:
		DrawWavefront(c, p.Frequency, p.Thickness)
	default:
		return nil, fmt.Errorf("%w %v", ErrUnknownKind, kind)
	}
	return c, nil
}
