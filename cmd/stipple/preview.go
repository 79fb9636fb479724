package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/stipple/internal/imageio"
	"github.com/example/stipple/internal/render"
	"github.com/example/stipple/internal/viewer"
)

// runViewerFn is replaced in tests so no window is opened.
var runViewerFn = func(v *viewer.Viewer) { v.Run() }

type previewCmd struct {
	*root
	fs *flag.FlagSet
	in inputFlags
}

func (c *previewCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parsePreviewCmd(args []string, r *root) (*previewCmd, error) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	c := &previewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.in.register(fs, r, true)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}
	if err := c.in.validateSource(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *previewCmd) Run() error {
	res, opts, err := c.in.renderOnce(c.root)
	if err != nil {
		return err
	}
	runViewerFn(newViewer(c.root, &c.in, res, opts, nil))
	return nil
}

// newViewer wires the viewer's save and copy keys to the output directory,
// the clipboard and the notifier.
func newViewer(r *root, in *inputFlags, res *render.Result, opts render.Options, updates <-chan *render.Result) *viewer.Viewer {
	title := fmt.Sprintf("%s - %s", r.Program(), opts.Kind.Label())
	if in.file != "" {
		title += " - " + in.file
	}
	return viewer.New(res,
		viewer.WithTitle(title),
		viewer.WithUpdates(updates),
		viewer.WithBackground(r.currentTheme().Background),
		viewer.WithSave(func(col render.Column, img image.Image) (string, error) {
			return saveColumn(r, in, col, img)
		}),
		viewer.WithCopy(func(col render.Column, img image.Image) error {
			if img == nil {
				return fmt.Errorf("no %s image", col)
			}
			if err := writeClipboardFn(img); err != nil {
				return err
			}
			r.notifyCopy(col.String() + " image")
			return nil
		}),
	)
}

// saveColumn writes img as <input>-<column>.png in the save directory.
func saveColumn(r *root, in *inputFlags, col render.Column, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no %s image", col)
	}
	dir, err := saveDir(r)
	if err != nil {
		return "", err
	}
	suffix := col.String()
	if col == render.ColumnOutput {
		suffix = "stipple"
	}
	path := imageio.DerivedPath(in.file, dir, suffix, ".png")
	if err := imageio.SavePNG(path, img); err != nil {
		return "", err
	}
	r.notifySave(path)
	return path, nil
}
