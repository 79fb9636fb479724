package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/stipple/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	loader *config.Loader
	stdout io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{
		root:   r,
		fs:     fs,
		loader: config.NewLoader(version, configPathOverride),
		stdout: os.Stdout,
	}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) != 1 {
		return &UsageError{of: c}
	}
	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.root.cfg().String())
		return err
	case "path":
		path := c.loader.GetConfigPath()
		if path == "" {
			path = "(none)"
		}
		_, err := fmt.Fprintln(c.stdout, path)
		return err
	case "save":
		path, err := c.loader.SavePath()
		if err != nil {
			return err
		}
		if err := config.Save(c.root.cfg(), path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
		return nil
	default:
		return &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", args[0])}
	}
}
