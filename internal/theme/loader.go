package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Loader resolves theme names against the filesystem and the embedded set.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	l := &Loader{SystemDir: "/usr/share/stipple/themes"}
	if home, err := homedir.Dir(); err == nil {
		l.ConfigDir = filepath.Join(home, ".config", "stipple", "themes")
	}
	return l
}

// Load attempts to load a theme by name or path.
// Order:
// 1. An existing file path (a leading ~ is expanded).
// 2. Embedded themes.
// 3. ConfigDir.
// 4. SystemDir.
// An empty name yields Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if path, err := homedir.Expand(name); err == nil {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return parseFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		}
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if t, err := parseFile(EmbeddedThemes, "defaults/"+filename); err == nil {
		return t, nil
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
			continue
		}
		return parseFile(os.DirFS(dir), filename)
	}

	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}
