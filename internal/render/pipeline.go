// Package render runs the full stippling pipeline: seed pattern, brightness
// driven re-render and encoding of both canvases.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/stipple/internal/canvas"
	"github.com/example/stipple/internal/pattern"
	"github.com/example/stipple/internal/sample"
)

// Options configures a pipeline run.
type Options struct {
	Kind   pattern.Kind
	Params pattern.Params
	// Draw and Background colour the re-rendered image. Nil selects
	// canvas.DefaultDraw and canvas.DefaultBackground.
	Draw       color.Color
	Background color.Color
}

// DefaultOptions returns rings with the default parameters.
func DefaultOptions() Options {
	return Options{Kind: pattern.Rings, Params: pattern.Defaults()}
}

// Result captures the three images produced by a run.
type Result struct {
	// Options are the resolved options the result was rendered with.
	Options  Options
	Original image.Image
	Seed     *canvas.Canvas
	Output   *canvas.Canvas
	// SeedImage is always white on black; OutputImage uses the configured
	// colours.
	SeedImage   *image.NRGBA
	OutputImage *image.NRGBA
}

// Column indexes Result.Images.
type Column int

const (
	ColumnOriginal Column = iota
	ColumnSeed
	ColumnOutput
)

func (c Column) String() string {
	switch c {
	case ColumnOriginal:
		return "original"
	case ColumnSeed:
		return "seed"
	case ColumnOutput:
		return "output"
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// Images returns the original, seed and output images in column order.
func (r *Result) Images() []image.Image {
	if r == nil {
		return nil
	}
	return []image.Image{r.Original, r.SeedImage, r.OutputImage}
}

// Image returns the image for a single column, or nil when out of range.
func (r *Result) Image(c Column) image.Image {
	imgs := r.Images()
	if int(c) < 0 || int(c) >= len(imgs) {
		return nil
	}
	return imgs[c]
}

// Run computes every canvas from scratch for img. The seed canvas takes the
// size of img and the brightness comes from img itself.
func Run(img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("render: nil source image")
	}
	src := sample.FromImage(img)
	seed, err := pattern.Generate(opts.Kind, opts.Params, src.Width, src.Height)
	if err != nil {
		return nil, fmt.Errorf("render %s pattern: %w", opts.Kind, err)
	}
	out, err := Restipple(seed, sample.NewSampler(src), opts.Params.MaxRadius, opts.Params.SampleRadius)
	if err != nil {
		return nil, fmt.Errorf("render %s pattern: %w", opts.Kind, err)
	}
	return &Result{
		Options:     opts,
		Original:    img,
		Seed:        seed,
		Output:      out,
		SeedImage:   canvas.Encode(seed, nil, nil),
		OutputImage: canvas.Encode(out, opts.Draw, opts.Background),
	}, nil
}
