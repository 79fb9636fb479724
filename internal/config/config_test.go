package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/stipple/internal/pattern"
)

func TestParse(t *testing.T) {
	input := `
pattern = phyllotaxis
theme = my_custom_theme
save_dir = /tmp/stipples
megapixels = 0.5

[notify]
render = true
save = false
copy = true

[params]
count = 400
scale = 4.5
auto_center = false
center_x = 12

[theme.my_custom_theme]
Background = #111111
Draw = white
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Pattern != "phyllotaxis" {
		t.Errorf("Expected pattern 'phyllotaxis', got '%s'", cfg.Pattern)
	}
	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/stipples" {
		t.Errorf("Expected save_dir '/tmp/stipples', got '%s'", cfg.SaveDir)
	}
	if cfg.Megapixels != 0.5 {
		t.Errorf("Expected megapixels 0.5, got %v", cfg.Megapixels)
	}
	if want := (Notify{Render: true, Copy: true}); cfg.Notify != want {
		t.Errorf("Notify = %+v, want %+v", cfg.Notify, want)
	}

	want := pattern.Defaults()
	want.Count = 400
	want.Scale = 4.5
	want.AutoCenter = false
	want.CenterX = 12
	if diff := cmp.Diff(want, cfg.Params); diff != "" {
		t.Errorf("Params (-want +got):\n%s", diff)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background != (color.RGBA{0x11, 0x11, 0x11, 0xFF}) {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.Draw != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("Unexpected Draw color: %+v", th.Draw)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"megapixels = lots",
		"[notify]\nsave = maybe",
		"[params]\nsparkle = 1",
		"[params]\ncount = x",
		"[theme.bad]\nDraw = #12",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `pattern = wavefront
theme = ink
save_dir = ~/stipples
megapixels = 2

[notify]
render = true
save = true
copy = false

[params]
frequency = 7.25
thickness = 0.1

[theme.custom]
Name = custom
Background = #000000
Draw = #FF000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestResolvedSaveDir(t *testing.T) {
	cfg := New()
	if dir, err := cfg.ResolvedSaveDir(); err != nil || dir != "." {
		t.Fatalf("empty save_dir = %q, %v", dir, err)
	}
	cfg.SaveDir = "/srv/out"
	if dir, _ := cfg.ResolvedSaveDir(); dir != "/srv/out" {
		t.Fatalf("absolute save_dir = %q", dir)
	}
	cfg.SaveDir = "~/out"
	dir, err := cfg.ResolvedSaveDir()
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(dir, "~") {
		t.Fatalf("tilde not expanded: %q", dir)
	}
}

func TestLoaderSearch(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	l := &Loader{Version: "dev", WorkDir: work, HomeDir: home}

	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("expected no config, got %q", p)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params != pattern.Defaults() {
		t.Fatal("missing config should give defaults")
	}

	save, err := l.SavePath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "stipple", "config.rc"); save != want {
		t.Fatalf("SavePath = %q, want %q", save, want)
	}
	cfg.Theme = "sepia"
	if err := Save(cfg, save); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != save {
		t.Fatalf("GetConfigPath = %q, want %q", p, save)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Theme != "sepia" {
		t.Fatalf("loaded theme %q", loaded.Theme)
	}

	local := filepath.Join(work, ".stipplerc")
	if err := os.WriteFile(local, []byte("theme = ink\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != local {
		t.Fatalf("dev build should prefer %q, got %q", local, p)
	}
	l.Version = "1.0.0"
	if p := l.GetConfigPath(); p != save {
		t.Fatalf("release build should ignore .stipplerc, got %q", p)
	}

	override := filepath.Join(work, "override.rc")
	if err := os.WriteFile(override, []byte("theme = blueprint\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l.OverridePath = override
	if p := l.GetConfigPath(); p != override {
		t.Fatalf("override ignored, got %q", p)
	}
}
