package viewer

import (
	"image"

	"github.com/example/stipple/internal/render"
)

const (
	labelHeight  = 20
	bottomHeight = 20
	padding      = 4

	maxInitialWidth  = 1440
	maxInitialHeight = 900
)

var columns = []render.Column{render.ColumnOriginal, render.ColumnSeed, render.ColumnOutput}

// columnRects splits a width x height window into one area per column
// between the label strip and the status bar. The last column absorbs the
// remainder of the division.
func columnRects(width, height int) []image.Rectangle {
	rects := make([]image.Rectangle, len(columns))
	colW := width / len(columns)
	for i := range columns {
		x1 := (i + 1) * colW
		if i == len(columns)-1 {
			x1 = width
		}
		rects[i] = image.Rect(i*colW, labelHeight, x1, max(height-bottomHeight, labelHeight))
	}
	return rects
}

// overlayRect is the area used when a single column fills the window.
func overlayRect(width, height int) image.Rectangle {
	return image.Rect(0, 0, width, max(height-bottomHeight, 0))
}

// fitRect returns the largest rectangle with the aspect ratio of src that
// fits inside area, centred.
func fitRect(src, area image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	aw, ah := area.Dx(), area.Dy()
	if sw <= 0 || sh <= 0 || aw <= 0 || ah <= 0 {
		return image.Rectangle{}
	}
	scale := min(float64(aw)/float64(sw), float64(ah)/float64(sh))
	w := max(int(float64(sw)*scale), 1)
	h := max(int(float64(sh)*scale), 1)
	x0 := area.Min.X + (aw-w)/2
	y0 := area.Min.Y + (ah-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// hitColumn returns the column whose area contains p.
func hitColumn(p image.Point, rects []image.Rectangle) (render.Column, bool) {
	for i, r := range rects {
		if p.In(r) {
			return columns[i], true
		}
	}
	return 0, false
}

// initialSize picks a window size that shows three copies of an image of
// the given bounds side by side without exceeding the maximum window size.
func initialSize(b image.Rectangle) (int, int) {
	iw, ih := max(b.Dx(), 1), max(b.Dy(), 1)
	scale := min(1,
		float64(maxInitialWidth)/float64(len(columns)*(iw+2*padding)),
		float64(maxInitialHeight-labelHeight-bottomHeight)/float64(ih+2*padding))
	colW := int(float64(iw+2*padding) * scale)
	colH := int(float64(ih+2*padding) * scale)
	return max(colW*len(columns), 240), max(colH+labelHeight+bottomHeight, 120)
}
