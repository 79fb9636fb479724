package render

import (
	"fmt"
	"image"
	"math"

	"github.com/example/stipple/internal/canvas"
	"github.com/example/stipple/internal/sample"
)

// Restipple re-renders every marked cell of seed as a filled disc on a new
// canvas of the same size. The disc radius is round(maxRadiusScale * b) where
// b is the brightness of src around the cell. Unmarked cells are never
// sampled.
func Restipple(seed *canvas.Canvas, src sample.Brightness, maxRadiusScale float64, sampleRadius int) (*canvas.Canvas, error) {
	if seed == nil {
		return nil, fmt.Errorf("restipple: nil seed canvas")
	}
	if src == nil {
		return nil, fmt.Errorf("restipple: nil brightness source")
	}
	if math.IsNaN(maxRadiusScale) || math.IsInf(maxRadiusScale, 0) {
		return nil, fmt.Errorf("restipple: max radius %v is not finite", maxRadiusScale)
	}
	out, err := canvas.New(seed.Width(), seed.Height())
	if err != nil {
		return nil, fmt.Errorf("restipple: %w", err)
	}
	stipple(out, seed.Marked(), src, maxRadiusScale, sampleRadius)
	return out, nil
}

// discRadius rounds scale*b to a cell radius no larger than limit. A disc of
// radius limit around any cell already covers the whole canvas.
func discRadius(scale, b, limit float64) int {
	r := math.Round(scale * b)
	if !(r > 0) {
		return 0
	}
	return int(min(r, limit))
}

// stipple draws one disc per cell onto out. Discs only ever add marks, so
// the order of cells does not change the result.
func stipple(out *canvas.Canvas, cells []image.Point, src sample.Brightness, maxRadiusScale float64, sampleRadius int) {
	limit := math.Ceil(math.Hypot(float64(out.Width()), float64(out.Height())))
	for _, p := range cells {
		b := src.Brightness(p.X, p.Y, sampleRadius)
		r := discRadius(maxRadiusScale, b, limit)
		out.Draw(canvas.DrawRequest{
			CenterX:   p.X,
			CenterY:   p.Y,
			Radius:    r,
			RingWidth: 1,
			Filled:    true,
		})
	}
}
