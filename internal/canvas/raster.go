package canvas

import "math"

// DrawRequest describes a single circle primitive. A filled request marks the
// disc of Radius around the centre; otherwise the ring between
// Radius-RingWidth and Radius+RingWidth is marked.
type DrawRequest struct {
	CenterX   int
	CenterY   int
	Radius    int
	RingWidth int
	Filled    bool
}

// DrawPrimitive marks a ring or filled disc on c. See DrawRequest.
func DrawPrimitive(c *Canvas, centerX, centerY, radius, ringWidth int, filled bool) {
	c.Draw(DrawRequest{
		CenterX:   centerX,
		CenterY:   centerY,
		Radius:    radius,
		RingWidth: ringWidth,
		Filled:    filled,
	})
}

// Draw rasterizes req onto the canvas. Only cells inside the canvas are
// visited, so centres far outside the canvas are a no-op. Negative radius or
// ring width are treated as zero.
func (c *Canvas) Draw(req DrawRequest) {
	if c == nil || c.width == 0 || c.height == 0 {
		return
	}
	// Extents are kept in float64 so radius+ring cannot wrap for huge radii.
	r := float64(max(req.Radius, 0))
	w := float64(max(req.RingWidth, 0))
	reach := r + w
	minX, maxX, ok := span(req.CenterX, reach, c.width)
	if !ok {
		return
	}
	minY, maxY, ok := span(req.CenterY, reach, c.height)
	if !ok {
		return
	}

	inner, outer := r-w, r+w
	for y := minY; y <= maxY; y++ {
		dy := float64(y) - float64(req.CenterY)
		row := c.cells[y*c.width : (y+1)*c.width]
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - float64(req.CenterX)
			d := math.Sqrt(dx*dx + dy*dy)
			if req.Filled {
				if d <= r {
					row[x] = true
				}
				continue
			}
			if d >= inner && d <= outer {
				row[x] = true
			}
		}
	}
}

// span clamps [center-reach, center+reach] to the cells 0..size-1. ok is
// false when nothing is left.
func span(center int, reach float64, size int) (lo, hi int, ok bool) {
	from := max(0, math.Ceil(float64(center)-reach))
	to := min(float64(size-1), math.Floor(float64(center)+reach))
	if from > to {
		return 0, 0, false
	}
	return int(from), int(to), true
}
