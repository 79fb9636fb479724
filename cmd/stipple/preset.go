package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/example/stipple/internal/preset"
)

type presetCmd struct {
	*root
	fs     *flag.FlagSet
	in     inputFlags
	output string
	stdout io.Writer
}

func (c *presetCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parsePresetCmd(args []string, r *root) (*presetCmd, error) {
	fs := flag.NewFlagSet("preset", flag.ExitOnError)
	c := &presetCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	c.in.register(fs, r, false)
	fs.StringVar(&c.output, "output", "", "preset file to write (default stdout)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	return c, nil
}

// Run resolves the flags the same way render does and stores the result, so
// an existing preset can be loaded with -preset and adjusted.
func (c *presetCmd) Run() error {
	opts, err := c.in.resolve(c.root)
	if err != nil {
		return err
	}
	draw, _ := opts.Draw.(color.RGBA)
	bg, _ := opts.Background.(color.RGBA)
	p := preset.New(opts.Kind, opts.Params, draw, bg)
	if c.output == "" {
		return preset.Encode(c.stdout, p)
	}
	if err := preset.Save(c.output, p); err != nil {
		return fmt.Errorf("failed to save preset %s: %w", c.output, err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", c.output)
	c.root.notifySave(c.output)
	return nil
}
