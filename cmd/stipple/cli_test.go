package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/stipple/internal/config"
	"github.com/example/stipple/internal/imageio"
	"github.com/example/stipple/internal/notify"
	"github.com/example/stipple/internal/pattern"
	"github.com/example/stipple/internal/preset"
	"github.com/example/stipple/internal/render"
	"github.com/example/stipple/internal/theme"
	"github.com/example/stipple/internal/viewer"
)

func newTestRoot() *root {
	return &root{
		program:  "stipple",
		config:   config.New(),
		notifier: notify.New(notify.DefaultPreferences()),
	}
}

func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := imageio.SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseRenderSourceErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-file", "a.png", "-from-clipboard"}, "cannot be used together"},
		{[]string{"-pattern", "rings"}, "an input is required"},
		{[]string{"-from-clipboard"}, "output file is required when reading from the clipboard"},
		{[]string{"-file", "a.png", "-megapixels", "-1"}, "must not be negative"},
	}
	for _, tc := range tests {
		_, err := parseRenderCmd(tc.args, newTestRoot())
		if err == nil {
			t.Errorf("%v: expected error", tc.args)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%v: expected error to mention %q, got %v", tc.args, tc.want, err)
		}
	}
	if _, err := parseRenderCmd([]string{"-from-clipboard", "-to-clipboard"}, newTestRoot()); err != nil {
		t.Errorf("clipboard round trip should not need -output: %v", err)
	}
}

func TestParseRenderRejectsExtraArgs(t *testing.T) {
	_, err := parseRenderCmd([]string{"-file", "a.png", "extra"}, nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "unexpected arguments") || !strings.Contains(uerr.Error(), "stipple render") {
		t.Fatalf("unexpected usage text:\n%s", uerr.Error())
	}
}

func TestWatchRejectsClipboard(t *testing.T) {
	_, err := parseWatchCmd([]string{"-from-clipboard"}, newTestRoot())
	if err == nil || !strings.Contains(err.Error(), "-from-clipboard cannot be used") {
		t.Fatalf("expected clipboard error, got %v", err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	r := newTestRoot()
	r.config.Pattern = "wavefront"
	r.config.Params.Count = 11
	r.activeTheme = &theme.Theme{Name: "t", Draw: color.RGBA{1, 1, 1, 255}, Background: color.RGBA{2, 2, 2, 255}}

	c, err := parseRenderCmd([]string{"-file", "x.png"}, r)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := c.in.resolve(r)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Kind != pattern.Wavefront || opts.Params.Count != 11 {
		t.Fatalf("config not applied: %v %+v", opts.Kind, opts.Params)
	}
	if opts.Draw != (color.RGBA{1, 1, 1, 255}) || opts.Background != (color.RGBA{2, 2, 2, 255}) {
		t.Fatalf("theme colours not applied: %v %v", opts.Draw, opts.Background)
	}

	presetPath := filepath.Join(t.TempDir(), "p.toml")
	pp := pattern.Defaults()
	pp.Count = 22
	pp.Scale = 2
	if err := preset.Save(presetPath, preset.New(pattern.Phyllotaxis, pp, color.RGBA{3, 3, 3, 255}, color.RGBA{4, 4, 4, 255})); err != nil {
		t.Fatal(err)
	}
	c, err = parseRenderCmd([]string{"-file", "x.png", "-preset", presetPath, "-count", "33", "-center-x", "5", "-draw-color", "red"}, r)
	if err != nil {
		t.Fatal(err)
	}
	opts, err = c.in.resolve(r)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Kind != pattern.Phyllotaxis {
		t.Errorf("preset pattern ignored: %v", opts.Kind)
	}
	if opts.Params.Count != 33 || opts.Params.Scale != 2 {
		t.Errorf("flag should override preset: %+v", opts.Params)
	}
	if opts.Params.AutoCenter || opts.Params.CenterX != 5 {
		t.Errorf("-center-x should disable auto centre: %+v", opts.Params)
	}
	if opts.Draw != (color.RGBA{255, 0, 0, 255}) || opts.Background != (color.RGBA{4, 4, 4, 255}) {
		t.Errorf("colours %v %v", opts.Draw, opts.Background)
	}

	c, err = parseRenderCmd([]string{"-file", "x.png", "-background-color", "nope"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.in.resolve(r); err == nil || !strings.Contains(err.Error(), "-background-color") {
		t.Fatalf("expected colour error, got %v", err)
	}

	c, err = parseRenderCmd([]string{"-file", "x.png", "-pattern", "hexagons"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.in.resolve(r); !errors.Is(err, pattern.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	c, err = parseRenderCmd([]string{"-file", "x.png", "-count", "-4"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.in.resolve(r); err == nil {
		t.Fatal("expected validation error for negative count")
	}
}

func TestRenderWritesOutputs(t *testing.T) {
	in := writeTestImage(t, 48, 32)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	seed := filepath.Join(dir, "seed.png")
	pbm := filepath.Join(dir, "seed.pbm")

	c, err := parseRenderCmd([]string{
		"-file", in, "-pattern", "wavefront", "-frequency", "3",
		"-output", out, "-seed-output", seed, "-pbm", pbm,
	}, newTestRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{out, seed} {
		img, err := imageio.Load(p)
		if err != nil {
			t.Fatalf("load %s: %v", p, err)
		}
		if img.Bounds() != image.Rect(0, 0, 48, 32) {
			t.Fatalf("%s has bounds %v", p, img.Bounds())
		}
	}
	data, err := os.ReadFile(pbm)
	if err != nil {
		t.Fatal(err)
	}
	header := "P4\n48 32\n"
	if !strings.HasPrefix(string(data), header) || len(data) != len(header)+6*32 {
		t.Fatalf("unexpected pbm: %d bytes, prefix %q", len(data), data[:min(len(data), 10)])
	}
}

func TestRenderDefaultOutputPath(t *testing.T) {
	in := writeTestImage(t, 16, 16)
	saveTo := t.TempDir()
	r := newTestRoot()
	r.config.SaveDir = saveTo
	c, err := parseRenderCmd([]string{"-file", in}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(saveTo, "photo-stipple.png")); err != nil {
		t.Fatalf("default output missing: %v", err)
	}
}

func TestRenderClipboardRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	var copied image.Image
	origRead, origWrite := readClipboardFn, writeClipboardFn
	readClipboardFn = func() (image.Image, error) { return src, nil }
	writeClipboardFn = func(img image.Image) error { copied = img; return nil }
	t.Cleanup(func() { readClipboardFn, writeClipboardFn = origRead, origWrite })

	c, err := parseRenderCmd([]string{"-from-clipboard", "-to-clipboard"}, newTestRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if copied == nil || copied.Bounds() != src.Bounds() {
		t.Fatalf("clipboard received %v", copied)
	}
}

func TestRenderClipboardReadError(t *testing.T) {
	sentinel := errors.New("empty")
	orig := readClipboardFn
	readClipboardFn = func() (image.Image, error) { return nil, sentinel }
	t.Cleanup(func() { readClipboardFn = orig })

	c, err := parseRenderCmd([]string{"-from-clipboard", "-output", filepath.Join(t.TempDir(), "o.png")}, newTestRoot())
	if err != nil {
		t.Fatal(err)
	}
	err = c.Run()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to read clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestPreviewOpensViewer(t *testing.T) {
	in := writeTestImage(t, 12, 12)
	orig := runViewerFn
	var got *viewer.Viewer
	runViewerFn = func(v *viewer.Viewer) { got = v }
	t.Cleanup(func() { runViewerFn = orig })

	c, err := parsePreviewCmd([]string{"-file", in, "-pattern", "spiral"}, newTestRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("viewer not started")
	}
}

func TestSaveColumn(t *testing.T) {
	r := newTestRoot()
	r.config.SaveDir = t.TempDir()
	in := &inputFlags{file: "/somewhere/cat.jpg"}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path, err := saveColumn(r, in, render.ColumnSeed, img)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(r.config.SaveDir, "cat-seed.png"); path != want {
		t.Fatalf("saved to %s, want %s", path, want)
	}
	if _, err := saveColumn(r, in, render.ColumnOutput, nil); err == nil {
		t.Fatal("expected error for missing image")
	}
}

func TestPresetCommand(t *testing.T) {
	c, err := parsePresetCmd([]string{"-pattern", "phyllotaxis", "-scale", "4.5", "-draw-color", "#102030"}, newTestRoot())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c.stdout = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	p, err := preset.Decode(&buf)
	if err != nil {
		t.Fatalf("decode written preset: %v\n%s", err, buf.String())
	}
	if p.Pattern != "phyllotaxis" || p.Params.Scale != 4.5 || p.Draw != "#102030" {
		t.Fatalf("unexpected preset %+v", p)
	}
}

func TestConfigPrint(t *testing.T) {
	r := newTestRoot()
	r.config.Theme = "ink"
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c.stdout = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "theme = ink") || !strings.Contains(buf.String(), "[params]") {
		t.Fatalf("unexpected config output:\n%s", buf.String())
	}

	c, _ = parseConfigCmd([]string{"explode"}, r)
	var uerr *UsageError
	if err := c.Run(); !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
}

func TestConfigSave(t *testing.T) {
	r := newTestRoot()
	r.config.Pattern = "rings"
	c, err := parseConfigCmd([]string{"save"}, r)
	if err != nil {
		t.Fatal(err)
	}
	c.loader = &config.Loader{Version: "test", HomeDir: t.TempDir()}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	cfg, err := c.loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pattern != "rings" {
		t.Fatalf("saved config has pattern %q", cfg.Pattern)
	}
}

func TestColorsListsThemes(t *testing.T) {
	r := newTestRoot()
	r.activeTheme = theme.Default()
	c, err := parseColorsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c.stdout = &buf
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"* default", "ink", "#FFFFFF"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("colors output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	v := &versionCmd{root: newTestRoot(), stdout: &buf}
	if err := v.Run(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "stipple version dev\n" {
		t.Fatalf("version output %q", got)
	}
}

func TestHelpTemplatesRender(t *testing.T) {
	r := newTestRoot()
	render, _ := parseRenderCmd([]string{"-file", "x"}, r)
	preview, _ := parsePreviewCmd([]string{"-file", "x"}, r)
	watch, _ := parseWatchCmd([]string{"-file", "x"}, r)
	presetC, _ := parsePresetCmd(nil, r)
	colors, _ := parseColorsCmd(nil, r)
	cfg, _ := parseConfigCmd(nil, r)
	for _, h := range []HelpData{r, render, preview, watch, presetC, colors, cfg, &versionCmd{root: r}} {
		help, err := (&UsageError{of: h}).renderHelp()
		if err != nil {
			t.Fatalf("%s: %v", h.Template(), err)
		}
		if !strings.Contains(help, "Usage: stipple") {
			t.Errorf("%s: missing usage line:\n%s", h.Template(), help)
		}
	}
}
