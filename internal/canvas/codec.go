package canvas

import (
	"fmt"
	"image"
	"image/color"
)

var (
	// DefaultDraw paints marked cells when no draw colour is given.
	DefaultDraw = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// DefaultBackground paints unmarked cells when no background is given.
	DefaultBackground = color.NRGBA{A: 0xff}
)

// ARGB packs c as non-premultiplied 0xAARRGGBB.
func ARGB(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// FromARGB unpacks a 0xAARRGGBB value.
func FromARGB(v uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(v >> 24),
	}
}

func nrgbaOf(c color.Color, fallback color.NRGBA) color.NRGBA {
	if c == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Encode paints every marked cell with drawColor and every other cell with
// background. Nil colours fall back to DefaultDraw and DefaultBackground.
// Pixels are stored non-premultiplied so translucent colours keep their
// channels.
func Encode(c *Canvas, drawColor, background color.Color) *image.NRGBA {
	on := nrgbaOf(drawColor, DefaultDraw)
	off := nrgbaOf(background, DefaultBackground)
	img := image.NewNRGBA(c.Bounds())
	if c == nil {
		return img
	}
	for y := 0; y < c.height; y++ {
		line := img.Pix[y*img.Stride : y*img.Stride+c.width*4]
		for x := 0; x < c.width; x++ {
			px := off
			if c.cells[y*c.width+x] {
				px = on
			}
			i := x * 4
			line[i+0] = px.R
			line[i+1] = px.G
			line[i+2] = px.B
			line[i+3] = px.A
		}
	}
	return img
}

// Decode is the inverse of Encode: pixels whose packed ARGB equals that of
// drawColor become marked cells, every other pixel stays unmarked.
func Decode(img image.Image, drawColor color.Color) (*Canvas, error) {
	if img == nil {
		return nil, fmt.Errorf("decode canvas: nil image")
	}
	b := img.Bounds()
	c, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, fmt.Errorf("decode canvas: %w", err)
	}
	on := ARGB(nrgbaOf(drawColor, DefaultDraw))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if ARGB(img.At(b.Min.X+x, b.Min.Y+y)) == on {
				c.cells[y*c.width+x] = true
			}
		}
	}
	return c, nil
}

// BilevelStride returns the number of bytes per packed row for width cells.
func BilevelStride(width int) int {
	if width <= 0 {
		return 0
	}
	return (width + 7) / 8
}

// EncodeBilevel packs eight cells per byte, most significant bit first, with
// each row padded to BilevelStride bytes.
func EncodeBilevel(c *Canvas) []byte {
	stride := BilevelStride(c.Width())
	out := make([]byte, stride*c.Height())
	for y := 0; y < c.Height(); y++ {
		row := out[y*stride : (y+1)*stride]
		for x := 0; x < c.width; x++ {
			if c.cells[y*c.width+x] {
				row[x>>3] |= 0x80 >> uint(x&7)
			}
		}
	}
	return out
}

// DecodeBilevel unpacks data produced by EncodeBilevel.
func DecodeBilevel(data []byte, width, height int) (*Canvas, error) {
	c, err := New(width, height)
	if err != nil {
		return nil, err
	}
	stride := BilevelStride(width)
	if len(data) < stride*height {
		return nil, fmt.Errorf("bilevel data: have %d bytes, need %d", len(data), stride*height)
	}
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			if row[x>>3]&(0x80>>uint(x&7)) != 0 {
				c.cells[y*width+x] = true
			}
		}
	}
	return c, nil
}
