package viewer

import (
	"image"
	"testing"

	"github.com/example/stipple/internal/render"
)

func TestColumnRectsCoverWidth(t *testing.T) {
	for _, width := range []int{300, 301, 302, 1000} {
		rects := columnRects(width, 200)
		if len(rects) != 3 {
			t.Fatalf("got %d rects", len(rects))
		}
		x := 0
		for i, r := range rects {
			if r.Min.X != x {
				t.Fatalf("width %d: column %d starts at %d, want %d", width, i, r.Min.X, x)
			}
			if r.Min.Y != labelHeight || r.Max.Y != 200-bottomHeight {
				t.Fatalf("width %d: column %d rows %d..%d", width, i, r.Min.Y, r.Max.Y)
			}
			x = r.Max.X
		}
		if x != width {
			t.Fatalf("width %d: columns end at %d", width, x)
		}
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		src, area, want image.Rectangle
	}{
		{image.Rect(0, 0, 100, 50), image.Rect(0, 0, 200, 200), image.Rect(0, 50, 200, 150)},
		{image.Rect(0, 0, 50, 100), image.Rect(10, 10, 110, 110), image.Rect(35, 10, 85, 110)},
		{image.Rect(0, 0, 10, 10), image.Rect(0, 0, 0, 10), image.Rectangle{}},
		{image.Rectangle{}, image.Rect(0, 0, 10, 10), image.Rectangle{}},
	}
	for _, tc := range tests {
		if got := fitRect(tc.src, tc.area); got != tc.want {
			t.Errorf("fitRect(%v, %v) = %v, want %v", tc.src, tc.area, got, tc.want)
		}
	}
}

func TestHitColumn(t *testing.T) {
	rects := columnRects(300, 100)
	tests := []struct {
		p    image.Point
		want render.Column
		ok   bool
	}{
		{image.Pt(10, 50), render.ColumnOriginal, true},
		{image.Pt(150, 50), render.ColumnSeed, true},
		{image.Pt(299, 50), render.ColumnOutput, true},
		{image.Pt(150, 5), 0, false},
		{image.Pt(150, 95), 0, false},
	}
	for _, tc := range tests {
		got, ok := hitColumn(tc.p, rects)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("hitColumn(%v) = %v, %v; want %v, %v", tc.p, got, ok, tc.want, tc.ok)
		}
	}
}

func TestInitialSize(t *testing.T) {
	w, h := initialSize(image.Rect(0, 0, 100, 80))
	if w != 3*(100+2*padding) || h != 80+2*padding+labelHeight+bottomHeight {
		t.Fatalf("small image window %dx%d", w, h)
	}
	w, h = initialSize(image.Rect(0, 0, 4000, 3000))
	if w > maxInitialWidth || h > maxInitialHeight {
		t.Fatalf("large image window %dx%d exceeds limits", w, h)
	}
	if w < 240 || h < 120 {
		t.Fatalf("window %dx%d below minimum", w, h)
	}
}

func TestOverlayRect(t *testing.T) {
	if got := overlayRect(640, 480); got != image.Rect(0, 0, 640, 480-bottomHeight) {
		t.Fatalf("overlayRect = %v", got)
	}
}
