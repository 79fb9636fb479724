// Package assets builds the application icon: a sunflower stipple drawn with
// the same generator the renderer uses.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"slices"
	"sync"

	"github.com/example/stipple/internal/canvas"
	"github.com/example/stipple/internal/pattern"
)

var (
	iconSizes = []int{16, 32, 48, 64, 128, 256}

	iconDraw       = color.RGBA{0xF5, 0xC2, 0x1B, 0xFF}
	iconBackground = color.RGBA{0x1E, 0x1E, 0x1E, 0xFF}

	mu        sync.Mutex
	pngImages = map[int]image.Image{}
	pngData   = map[int][]byte{}
)

func build(size int) (image.Image, []byte, error) {
	c, err := canvas.New(size, size)
	if err != nil {
		return nil, nil, err
	}
	pointRadius := size / 48
	count := size * size / 12
	// Keep the outermost seed inside the icon.
	scale := (float64(size)/2 - float64(pointRadius) - 1) / math.Sqrt(float64(count))
	pattern.DrawPhyllotaxis(c, count, size/2, size/2, scale, pointRadius)

	img := canvas.Encode(c, iconDraw, iconBackground)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, err
	}
	return img, buf.Bytes(), nil
}

func ensureIcon(size int) error {
	if !slices.Contains(iconSizes, size) {
		return fmt.Errorf("icon %dpx not available", size)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := pngImages[size]; ok {
		return nil
	}
	img, data, err := build(size)
	if err != nil {
		return err
	}
	pngImages[size] = img
	pngData[size] = data
	return nil
}

// IconImage returns the icon rendered at the requested size.
func IconImage(size int) (image.Image, error) {
	if err := ensureIcon(size); err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return pngImages[size], nil
}

// IconPNG returns a copy of the PNG bytes for the requested icon size.
func IconPNG(size int) ([]byte, error) {
	if err := ensureIcon(size); err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return bytes.Clone(pngData[size]), nil
}

// IconSizes lists the sizes IconImage and IconPNG accept.
func IconSizes() []int {
	return slices.Clone(iconSizes)
}
