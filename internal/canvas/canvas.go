// Package canvas holds the boolean grid that pattern and re-render stages
// draw onto, the circle rasterizer that marks it and the codecs that turn it
// into displayable pixels.
package canvas

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidDimension is returned when a canvas or buffer is requested with a
// non-positive width or height.
var ErrInvalidDimension = errors.New("invalid dimension")

// Canvas is a width x height grid of marked cells. Cells start unmarked and
// can only be marked, never cleared.
type Canvas struct {
	width  int
	height int
	cells  []bool
}

// New returns an unmarked canvas of the given size.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas %dx%d: %w", width, height, ErrInvalidDimension)
	}
	return &Canvas{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}, nil
}

// Width returns the number of columns.
func (c *Canvas) Width() int {
	if c == nil {
		return 0
	}
	return c.width
}

// Height returns the number of rows.
func (c *Canvas) Height() int {
	if c == nil {
		return 0
	}
	return c.height
}

// Bounds returns the canvas rectangle anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width(), c.Height())
}

func (c *Canvas) in(x, y int) bool {
	return c != nil && x >= 0 && y >= 0 && x < c.width && y < c.height
}

// At reports whether the cell at (x, y) is marked. Cells outside the canvas
// are never marked.
func (c *Canvas) At(x, y int) bool {
	if !c.in(x, y) {
		return false
	}
	return c.cells[y*c.width+x]
}

// Mark marks the cell at (x, y). Coordinates outside the canvas are ignored.
func (c *Canvas) Mark(x, y int) {
	if !c.in(x, y) {
		return
	}
	c.cells[y*c.width+x] = true
}

// Count returns the number of marked cells.
func (c *Canvas) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, v := range c.cells {
		if v {
			n++
		}
	}
	return n
}

// Marked lists the marked cells in row-major order.
func (c *Canvas) Marked() []image.Point {
	if c == nil {
		return nil
	}
	var pts []image.Point
	for y := 0; y < c.height; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		for x, v := range row {
			if v {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// Equal reports whether both canvases have the same size and marks.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.Width() != o.Width() || c.Height() != o.Height() {
		return false
	}
	if c == nil || o == nil {
		return true
	}
	for i, v := range c.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of c.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}
	out := &Canvas{width: c.width, height: c.height, cells: make([]bool, len(c.cells))}
	copy(out.cells, c.cells)
	return out
}

// String renders the canvas as rows of '#' (marked) and '.' (unmarked).
func (c *Canvas) String() string {
	if c == nil || c.width == 0 {
		return ""
	}
	buf := make([]byte, 0, (c.width+1)*c.height)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if c.cells[y*c.width+x] {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
