// Package sample measures the local brightness of a source photograph.
package sample

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/example/stipple/internal/canvas"
)

// ErrPixelCount is returned when a pixel slice does not match the declared
// buffer size.
var ErrPixelCount = errors.New("pixel count does not match dimensions")

// Brightness reports the normalised brightness around a point.
type Brightness interface {
	Brightness(x, y, radius int) float64
}

// Source is a read-only buffer of packed 0xAARRGGBB pixels in row-major
// order.
type Source struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewSource wraps pix as a width x height buffer.
func NewSource(width, height int, pix []uint32) (*Source, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("source %dx%d: %w", width, height, canvas.ErrInvalidDimension)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("source %dx%d with %d pixels: %w", width, height, len(pix), ErrPixelCount)
	}
	return &Source{Width: width, Height: height, Pix: pix}, nil
}

// FromImage copies img into a packed source buffer. Colours are taken
// non-premultiplied so a translucent pixel keeps its hue.
func FromImage(img image.Image) *Source {
	b := img.Bounds()
	src := &Source{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint32, b.Dx()*b.Dy())}
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < src.Height; y++ {
			for x := 0; x < src.Width; x++ {
				src.Pix[y*src.Width+x] = canvas.ARGB(rgba.RGBAAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return src
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			src.Pix[y*src.Width+x] = canvas.ARGB(color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return src
}

// Luminance returns the integer mean of the red, green and blue channels of
// a packed pixel.
func Luminance(argb uint32) int {
	r := int(argb>>16) & 0xff
	g := int(argb>>8) & 0xff
	b := int(argb) & 0xff
	return (r + g + b) / 3
}

// window clamps the square of half-size radius around (x, y) to a w x h
// buffer. ok is false when nothing is left.
func window(w, h, x, y, radius int) (x0, y0, x1, y1 int, ok bool) {
	x0 = max(0, x-radius)
	y0 = max(0, y-radius)
	x1 = min(w-1, x+radius)
	y1 = min(h-1, y+radius)
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}

func mean(sum, count int64) float64 {
	return float64(sum) / float64(count) / 255.0
}

// valid reports whether src describes a non-empty buffer with enough
// pixels for its dimensions.
func (s *Source) valid() bool {
	return s != nil && s.Width > 0 && s.Height > 0 && len(s.Pix) >= s.Width*s.Height
}

// SampleBrightness averages the luminance of the axis-aligned square
// [x-radius, x+radius] x [y-radius, y+radius], clamped to the buffer, and
// scales it to [0, 1]. An empty window, or a source with fewer pixels than
// its dimensions, yields 0.
func SampleBrightness(src *Source, x, y, radius int) float64 {
	if !src.valid() {
		return 0
	}
	x0, y0, x1, y1, ok := window(src.Width, src.Height, x, y, radius)
	if !ok {
		return 0
	}
	var sum int64
	for yy := y0; yy <= y1; yy++ {
		row := src.Pix[yy*src.Width : (yy+1)*src.Width]
		for xx := x0; xx <= x1; xx++ {
			sum += int64(Luminance(row[xx]))
		}
	}
	return mean(sum, int64(x1-x0+1)*int64(y1-y0+1))
}

// Brightness implements Brightness with SampleBrightness.
func (s *Source) Brightness(x, y, radius int) float64 {
	return SampleBrightness(s, x, y, radius)
}
