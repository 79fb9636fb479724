package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/stipple/internal/canvas"
	"github.com/example/stipple/internal/imageio"
	"github.com/example/stipple/internal/pattern"
	"github.com/example/stipple/internal/render"
)

type renderCmd struct {
	*root
	fs          *flag.FlagSet
	in          inputFlags
	output      string
	seedOutput  string
	pbm         string
	toClipboard bool
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.in.register(fs, r, true)
	fs.StringVar(&c.output, "output", "", "output PNG (default <input>-stipple.png)")
	fs.StringVar(&c.seedOutput, "seed-output", "", "also write the seed pattern as PNG")
	fs.StringVar(&c.pbm, "pbm", "", "also write the seed pattern as a binary PBM")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the output image to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	if err := c.in.validateSource(); err != nil {
		return nil, err
	}
	if c.in.fromClipboard && c.output == "" && !c.toClipboard {
		return nil, errors.New("output file is required when reading from the clipboard")
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	res, opts, err := c.in.renderOnce(c.root)
	if err != nil {
		return err
	}
	return c.write(res, opts)
}

// write stores the results selected by the output flags.
func (c *renderCmd) write(res *render.Result, opts render.Options) error {
	output := c.output
	if output == "" && !c.in.fromClipboard {
		dir, err := saveDir(c.root)
		if err != nil {
			return err
		}
		_, output = imageio.OutputPaths(c.in.file, dir, ".png")
	}
	if output != "" {
		if err := c.save(output, func(path string) error { return imageio.SavePNG(path, res.OutputImage) }); err != nil {
			return err
		}
	}
	if c.seedOutput != "" {
		if err := c.save(c.seedOutput, func(path string) error { return imageio.SavePNG(path, res.SeedImage) }); err != nil {
			return err
		}
	}
	if c.pbm != "" {
		if err := c.save(c.pbm, func(path string) error { return writeSeedPBM(path, res.Seed, opts) }); err != nil {
			return err
		}
	}
	if c.toClipboard {
		if err := writeClipboardFn(res.OutputImage); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied output to clipboard")
		c.root.notifyCopy("stipple output")
	}
	return nil
}

func (c *renderCmd) save(path string, write func(string) error) error {
	if err := write(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)
	c.root.notifySave(path)
	return nil
}

// writeSeedPBM writes the seed as P4. Wavefront seeds are packed straight
// from the field.
func writeSeedPBM(path string, seed *canvas.Canvas, opts render.Options) error {
	if opts.Kind != pattern.Wavefront {
		return imageio.SavePBM(path, seed)
	}
	w, h := seed.Width(), seed.Height()
	data, err := pattern.WavefrontBilevel(w, h, opts.Params.Frequency, opts.Params.Thickness)
	if err != nil {
		return err
	}
	return imageio.SaveBilevel(path, w, h, data)
}
