package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/example/stipple/internal/clipboard"
	"github.com/example/stipple/internal/imageio"
	"github.com/example/stipple/internal/pattern"
	"github.com/example/stipple/internal/preset"
	"github.com/example/stipple/internal/render"
	"github.com/example/stipple/internal/theme"
)

// readClipboardFn and writeClipboardFn are replaced in tests.
var (
	readClipboardFn  = clipboard.ReadImage
	writeClipboardFn = clipboard.WriteImage
)

// inputFlags are shared by every command that renders.
type inputFlags struct {
	file          string
	fromClipboard bool
	pattern       string
	presetPath    string
	megapixels    float64
	drawColor     string
	bgColor       string

	// params only receives flag values; resolve copies the ones that were
	// set on the command line.
	params pattern.Params
	fs     *flag.FlagSet
}

// paramFlags maps flag names to Params keys.
var paramFlags = map[string]string{
	"count":         "count",
	"center-x":      "center_x",
	"center-y":      "center_y",
	"auto-center":   "auto_center",
	"increment":     "increment",
	"ring-width":    "ring_width",
	"scale":         "scale",
	"point-radius":  "point_radius",
	"frequency":     "frequency",
	"thickness":     "thickness",
	"max-radius":    "max_radius",
	"sample-radius": "sample_radius",
}

func (in *inputFlags) register(fs *flag.FlagSet, r *root, withSource bool) {
	in.fs = fs
	cfg := r.cfg()
	in.params = cfg.Params
	if withSource {
		fs.StringVar(&in.file, "file", "", "source image (png, jpeg, gif, bmp, webp, tiff)")
		fs.BoolVar(&in.fromClipboard, "from-clipboard", false, "read the source image from the clipboard")
		fs.Float64Var(&in.megapixels, "megapixels", cfg.Megapixels, "rescale the source to this many megapixels (0 keeps the size)")
	}
	fs.StringVar(&in.pattern, "pattern", "", "seed pattern: "+kindNames())
	fs.StringVar(&in.presetPath, "preset", "", "TOML preset supplying pattern, parameters and colours")
	fs.StringVar(&in.drawColor, "draw-color", "", "colour of stipples in the output (name or #hex)")
	fs.StringVar(&in.bgColor, "background-color", "", "background colour of the output (name or #hex)")

	p := &in.params
	fs.IntVar(&p.Count, "count", p.Count, "number of rings or spiral seeds")
	fs.IntVar(&p.CenterX, "center-x", p.CenterX, "pattern centre column (disables auto-center)")
	fs.IntVar(&p.CenterY, "center-y", p.CenterY, "pattern centre row (disables auto-center)")
	fs.BoolVar(&p.AutoCenter, "auto-center", p.AutoCenter, "centre the pattern on the image")
	fs.IntVar(&p.Increment, "increment", p.Increment, "radius step between rings")
	fs.IntVar(&p.RingWidth, "ring-width", p.RingWidth, "half-width of each ring")
	fs.Float64Var(&p.Scale, "scale", p.Scale, "spiral scale factor")
	fs.IntVar(&p.PointRadius, "point-radius", p.PointRadius, "radius of each spiral seed")
	fs.Float64Var(&p.Frequency, "frequency", p.Frequency, "wavefront ring frequency")
	fs.Float64Var(&p.Thickness, "thickness", p.Thickness, "wavefront band threshold")
	fs.Float64Var(&p.MaxRadius, "max-radius", p.MaxRadius, "disc radius at full brightness")
	fs.IntVar(&p.SampleRadius, "sample-radius", p.SampleRadius, "half-size of the brightness window")
}

func kindNames() string {
	var names []string
	for _, k := range pattern.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// validateSource checks the source flags after parsing.
func (in *inputFlags) validateSource() error {
	if in.file != "" && in.fromClipboard {
		return errors.New("-file and -from-clipboard cannot be used together")
	}
	if in.file == "" && !in.fromClipboard {
		return errors.New("an input is required: use -file or -from-clipboard")
	}
	if in.megapixels < 0 {
		return errors.New("-megapixels must not be negative")
	}
	return nil
}

// resolve merges flags, preset, config and theme into render options.
// Precedence is flag > preset > config > default.
func (in *inputFlags) resolve(r *root) (render.Options, error) {
	cfg := r.cfg()
	th := r.currentTheme()
	opts := render.Options{Params: cfg.Params}
	draw, bg := th.Draw, th.Background

	kindName := cfg.Pattern
	if in.presetPath != "" {
		p, err := preset.Load(in.presetPath)
		if err != nil {
			return opts, err
		}
		kindName = p.Pattern
		opts.Params = p.Params
		if draw, bg, err = p.Colors(draw, bg); err != nil {
			return opts, err
		}
	}
	if in.pattern != "" {
		kindName = in.pattern
	}
	if kindName == "" {
		kindName = pattern.Rings.String()
	}
	kind, err := pattern.ParseKind(kindName)
	if err != nil {
		return opts, err
	}
	opts.Kind = kind

	var setErr error
	centered := false
	if in.fs != nil {
		in.fs.Visit(func(f *flag.Flag) {
			key, ok := paramFlags[f.Name]
			if !ok || setErr != nil {
				return
			}
			setErr = opts.Params.Set(key, f.Value.String())
			if f.Name == "center-x" || f.Name == "center-y" {
				centered = true
			}
		})
	}
	if setErr != nil {
		return opts, setErr
	}
	if centered {
		opts.Params.AutoCenter = false
	}
	if err := opts.Params.Validate(); err != nil {
		return opts, err
	}

	if draw, err = overrideColor(draw, in.drawColor); err != nil {
		return opts, fmt.Errorf("-draw-color: %w", err)
	}
	if bg, err = overrideColor(bg, in.bgColor); err != nil {
		return opts, fmt.Errorf("-background-color: %w", err)
	}
	opts.Draw, opts.Background = draw, bg
	return opts, nil
}

func overrideColor(c color.RGBA, flagValue string) (color.RGBA, error) {
	if flagValue == "" {
		return c, nil
	}
	return theme.ParseColor(flagValue)
}

// load reads the source image and applies the megapixel rescale.
func (in *inputFlags) load() (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if in.fromClipboard {
		img, err = readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
	} else {
		img, err = imageio.Load(in.file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", in.file, err)
		}
	}
	return imageio.Rescale(img, in.megapixels), nil
}

// renderOnce loads the source and runs the pipeline. Every call starts from
// scratch so edited presets and inputs are picked up.
func (in *inputFlags) renderOnce(r *root) (*render.Result, render.Options, error) {
	opts, err := in.resolve(r)
	if err != nil {
		return nil, opts, err
	}
	img, err := in.load()
	if err != nil {
		return nil, opts, err
	}
	res, err := render.Run(img, opts)
	if err != nil {
		return nil, opts, err
	}
	r.notifyRender(fmt.Sprintf("%s (%dx%d)", opts.Kind, res.Seed.Width(), res.Seed.Height()), res.OutputImage)
	return res, opts, nil
}

// saveDir returns the configured output directory, or "" to write next to
// the input.
func saveDir(r *root) (string, error) {
	if r.cfg().SaveDir == "" {
		return "", nil
	}
	return r.cfg().ResolvedSaveDir()
}
