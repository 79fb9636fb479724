package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

type versionCmd struct {
	*root
	stdout io.Writer
}

func (v *versionCmd) FlagSet() *flag.FlagSet {
	return nil
}

func (v *versionCmd) Run() error {
	w := v.stdout
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "%s version %s", v.Program(), version)
	if commit != "" {
		fmt.Fprintf(w, " (%s", commit)
		if date != "" {
			fmt.Fprintf(w, ", %s", date)
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)
	return nil
}
