// Package imageio loads source images, rescales them to a pixel budget and
// writes rendered results.
package imageio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/stipple/internal/canvas"
)

// ErrNotImage is returned when the input bytes are not a recognised image.
var ErrNotImage = errors.New("not an image")

// megapixelTolerance is the difference below which Rescale leaves an image
// alone.
const megapixelTolerance = 0.01

// Load reads and decodes the image at path.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode sniffs data and decodes it with the registered image codecs.
func Decode(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		if kind == filetype.Unknown {
			return nil, ErrNotImage
		}
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, kind.MIME.Value)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode %s: empty image", format)
	}
	return img, nil
}

// Megapixels returns the pixel count of img in millions.
func Megapixels(img image.Image) float64 {
	b := img.Bounds()
	return float64(b.Dx()) * float64(b.Dy()) / 1e6
}

// TargetSize returns the dimensions that bring a w x h image to target
// megapixels while keeping its aspect ratio. ok is false when no resize is
// needed: target is not positive or already within tolerance.
func TargetSize(w, h int, target float64) (nw, nh int, ok bool) {
	current := float64(w) * float64(h) / 1e6
	if target <= 0 || current <= 0 || math.Abs(current-target) <= megapixelTolerance {
		return w, h, false
	}
	scale := math.Sqrt(target / current)
	nw = max(int(float64(w)*scale), 1)
	nh = max(int(float64(h)*scale), 1)
	return nw, nh, nw != w || nh != h
}

// Rescale resizes img to roughly target megapixels with linear filtering.
// The image is returned unchanged when no resize is needed.
func Rescale(img image.Image, target float64) image.Image {
	b := img.Bounds()
	nw, nh, ok := TargetSize(b.Dx(), b.Dy(), target)
	if !ok {
		return img
	}
	return transform.Resize(img, nw, nh, transform.Linear)
}

// SavePNG writes img to path, creating the parent directory.
func SavePNG(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error { return png.Encode(w, img) })
}

// SavePBM writes c to path as a binary PBM.
func SavePBM(path string, c *canvas.Canvas) error {
	return writeFile(path, func(w io.Writer) error { return WritePBM(w, c) })
}

// WritePBM writes c as a binary (P4) PBM. Marked cells are written as 1,
// which PBM viewers show as black.
func WritePBM(w io.Writer, c *canvas.Canvas) error {
	return WriteBilevel(w, c.Width(), c.Height(), canvas.EncodeBilevel(c))
}

// WriteBilevel writes rows packed as by canvas.EncodeBilevel behind a P4
// header.
func WriteBilevel(w io.Writer, width, height int, data []byte) error {
	if want := canvas.BilevelStride(width) * height; len(data) != want {
		return fmt.Errorf("pbm: %d bytes for %dx%d, want %d", len(data), width, height, want)
	}
	if _, err := fmt.Fprintf(w, "P4\n%d %d\n", width, height); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// SaveBilevel writes packed rows to path as a binary PBM.
func SaveBilevel(path string, width, height int, data []byte) error {
	return writeFile(path, func(w io.Writer) error { return WriteBilevel(w, width, height, data) })
}

// OutputPaths derives the seed and output file names for an input path.
// A non-empty dir replaces the input's directory.
func OutputPaths(input, dir, ext string) (seed, output string) {
	return DerivedPath(input, dir, "seed", ext), DerivedPath(input, dir, "stipple", ext)
}

// DerivedPath returns dir/<input base>-<suffix><ext>. An empty input yields
// the base name "stipple" and an empty dir keeps the input's directory.
func DerivedPath(input, dir, suffix, ext string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if input == "" || base == "." || base == string(filepath.Separator) {
		base = "stipple"
	}
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"-"+suffix+ext)
}

func writeFile(path string, encode func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
