package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/muesli/termenv"
	"golang.org/x/image/colornames"

	"github.com/example/stipple/internal/theme"
)

type colorsCmd struct {
	*root
	fs     *flag.FlagSet
	names  bool
	stdout io.Writer
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.names, "names", false, "list the colour names accepted by -draw-color and -background-color")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	out := termenv.NewOutput(c.stdout)
	if c.names {
		for _, name := range colornames.Names {
			hex := theme.FormatColor(colornames.Map[name])
			fmt.Fprintf(c.stdout, "%s %-22s %s\n", swatch(out, hex), name, hex)
		}
		return nil
	}

	themes := map[string]*theme.Theme{}
	loader := theme.NewLoader()
	for _, name := range theme.EmbeddedNames() {
		t, err := loader.Load(name)
		if err != nil {
			return err
		}
		themes[name] = t
	}
	for name, t := range c.root.cfg().Themes {
		themes[name] = t
	}
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)

	active := c.root.currentTheme().Name
	fmt.Fprintln(c.stdout, "themes (* marks the active theme):")
	for _, name := range names {
		t := themes[name]
		marker := " "
		if name == active {
			marker = "*"
		}
		draw, bg := theme.FormatColor(t.Draw), theme.FormatColor(t.Background)
		sample := out.String(" ●●● ").Foreground(out.Color(draw)).Background(out.Color(bg))
		fmt.Fprintf(c.stdout, "%s %-12s %s draw %s background %s\n", marker, name, sample, draw, bg)
	}
	return nil
}

func swatch(out *termenv.Output, hex string) string {
	return out.String("  ").Background(out.Color(hex)).String()
}
