package assets

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestIconSizes(t *testing.T) {
	for _, size := range IconSizes() {
		img, err := IconImage(size)
		if err != nil {
			t.Fatalf("IconImage(%d): %v", size, err)
		}
		if img.Bounds() != image.Rect(0, 0, size, size) {
			t.Fatalf("IconImage(%d) bounds %v", size, img.Bounds())
		}
		data, err := IconPNG(size)
		if err != nil {
			t.Fatalf("IconPNG(%d): %v", size, err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %dpx icon: %v", size, err)
		}
		if decoded.Bounds() != img.Bounds() {
			t.Fatalf("decoded bounds %v", decoded.Bounds())
		}
	}
}

func TestIconHasStipples(t *testing.T) {
	img, err := IconImage(64)
	if err != nil {
		t.Fatal(err)
	}
	bg := img.At(0, 0)
	marked := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if img.At(x, y) != bg {
				marked++
			}
		}
	}
	if marked == 0 {
		t.Fatal("icon has no stipples")
	}
}

func TestIconUnknownSize(t *testing.T) {
	if _, err := IconPNG(17); err == nil {
		t.Fatal("expected error for unsupported size")
	}
	data, _ := IconPNG(16)
	data[0] = 0
	again, _ := IconPNG(16)
	if again[0] == 0 {
		t.Fatal("IconPNG returned shared bytes")
	}
}
