package sample

// Sampler answers brightness queries from a summed-area table of per-pixel
// luminance, so every query costs four lookups regardless of radius. Results
// are identical to SampleBrightness on the same source.
type Sampler struct {
	width  int
	height int
	// sums has (width+1) x (height+1) entries; sums[(y+1)*(width+1)+(x+1)]
	// holds the luminance total of the rectangle [0,x] x [0,y].
	sums []int64
}

// NewSampler builds the summed-area table for src. Like SampleBrightness, a
// source with fewer pixels than its dimensions answers 0 everywhere.
func NewSampler(src *Source) *Sampler {
	if !src.valid() {
		return &Sampler{}
	}
	w, h := src.Width, src.Height
	stride := w + 1
	s := &Sampler{width: w, height: h, sums: make([]int64, stride*(h+1))}
	for y := 0; y < h; y++ {
		var rowSum int64
		row := src.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			rowSum += int64(Luminance(row[x]))
			s.sums[(y+1)*stride+x+1] = s.sums[y*stride+x+1] + rowSum
		}
	}
	return s
}

// Brightness returns the same value as SampleBrightness for the source the
// table was built from.
func (s *Sampler) Brightness(x, y, radius int) float64 {
	if s == nil || s.width == 0 {
		return 0
	}
	x0, y0, x1, y1, ok := window(s.width, s.height, x, y, radius)
	if !ok {
		return 0
	}
	stride := s.width + 1
	sum := s.sums[(y1+1)*stride+x1+1] -
		s.sums[y0*stride+x1+1] -
		s.sums[(y1+1)*stride+x0] +
		s.sums[y0*stride+x0]
	return mean(sum, int64(x1-x0+1)*int64(y1-y0+1))
}
