package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/stipple/internal/canvas"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func TestSaveLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "in.png")
	src := testImage(12, 9)
	if err := SavePNG(path, src); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds %v, want %v", img.Bounds(), src.Bounds())
	}
	r, g, _, _ := img.At(5, 7).RGBA()
	if r>>8 != 5 || g>>8 != 7 {
		t.Fatalf("pixel (5,7) = %d,%d", r>>8, g>>8)
	}
}

func TestDecodeRejectsNonImages(t *testing.T) {
	if _, err := Decode([]byte("plain text, not pixels")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	// A zip archive is recognised but is not an image.
	zip := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}
	if _, err := Decode(zip); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage for zip, got %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(2, 2)); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:40]
	if _, err := Decode(truncated); err == nil || errors.Is(err, ErrNotImage) {
		t.Fatalf("truncated png should fail to decode, got %v", err)
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		w, h   int
		target float64
		nw, nh int
		ok     bool
	}{
		{2000, 1000, 0.5, 1000, 500, true},
		{1000, 1000, 1.005, 1000, 1000, false},
		{640, 480, 0, 640, 480, false},
		{1000, 1000, 0.25, 500, 500, true},
		{500, 500, 1, 1000, 1000, true},
	}
	for _, tc := range tests {
		nw, nh, ok := TargetSize(tc.w, tc.h, tc.target)
		if nw != tc.nw || nh != tc.nh || ok != tc.ok {
			t.Errorf("TargetSize(%d,%d,%v) = %d,%d,%v want %d,%d,%v",
				tc.w, tc.h, tc.target, nw, nh, ok, tc.nw, tc.nh, tc.ok)
		}
	}
}

func TestRescale(t *testing.T) {
	src := testImage(1000, 500)
	out := Rescale(src, 0.125)
	if got := out.Bounds(); got.Dx() != 500 || got.Dy() != 250 {
		t.Fatalf("rescaled to %v", got)
	}
	if Rescale(src, 0) != image.Image(src) {
		t.Fatal("zero target should return the input")
	}
	if Megapixels(src) != 0.5 {
		t.Fatalf("Megapixels = %v", Megapixels(src))
	}
}

func TestWritePBM(t *testing.T) {
	c, _ := canvas.New(9, 2)
	c.Mark(0, 0)
	c.Mark(8, 0)
	c.Mark(1, 1)
	var buf bytes.Buffer
	if err := WritePBM(&buf, c); err != nil {
		t.Fatal(err)
	}
	want := append([]byte("P4\n9 2\n"), 0x80, 0x80, 0x40, 0x00)
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Fatalf("PBM (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "out.pbm")
	if err := SavePBM(path, c); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("file contents %x", data)
	}
}

func TestOutputPaths(t *testing.T) {
	seed, out := OutputPaths("/photos/cat.jpg", "", ".png")
	if seed != "/photos/cat-seed.png" || out != "/photos/cat-stipple.png" {
		t.Fatalf("got %s %s", seed, out)
	}
	seed, out = OutputPaths("cat.jpg", "/tmp/x", ".pbm")
	if seed != "/tmp/x/cat-seed.pbm" || out != "/tmp/x/cat-stipple.pbm" {
		t.Fatalf("got %s %s", seed, out)
	}
}

func TestWriteBilevelChecksLength(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBilevel(&buf, 9, 2, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected length error")
	}
	if buf.Len() != 0 {
		t.Fatal("header written for invalid data")
	}
}

func TestDerivedPath(t *testing.T) {
	if got := DerivedPath("", "", "original", ".png"); got != "stipple-original.png" {
		t.Fatalf("empty input gave %q", got)
	}
	if got := DerivedPath("/in/dog.webp", "/out", "seed", ".png"); got != "/out/dog-seed.png" {
		t.Fatalf("got %q", got)
	}
}
