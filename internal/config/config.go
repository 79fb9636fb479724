package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/example/stipple/internal/pattern"
	"github.com/example/stipple/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Render bool
	Save   bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Pattern    string
	Theme      string
	SaveDir    string
	Megapixels float64
	Notify     Notify
	Params     pattern.Params
	Themes     map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Params: pattern.Defaults(),
		Themes: make(map[string]*theme.Theme),
	}
}

// ResolvedSaveDir returns SaveDir with a leading ~ expanded, or "." when
// unset.
func (c *Config) ResolvedSaveDir() (string, error) {
	if c.SaveDir == "" {
		return ".", nil
	}
	return homedir.Expand(c.SaveDir)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Pattern != "" {
		fmt.Fprintf(&sb, "pattern = %s\n", c.Pattern)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Megapixels > 0 {
		fmt.Fprintf(&sb, "megapixels = %s\n", strconv.FormatFloat(c.Megapixels, 'g', -1, 64))
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "render = %v\n", c.Notify.Render)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[params]\n")
	val := reflect.ValueOf(c.Params)
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		key := paramKey(typ.Field(i))
		if key == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s = %v\n", key, formatValue(val.Field(i)))
	}
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Draw: %s\n", theme.FormatColor(t.Draw))
		fmt.Fprintf(&sb, "Background: %s\n", theme.FormatColor(t.Background))
		sb.WriteString("\n")
	}

	return sb.String()
}

// paramKey returns the rc key for a Params field, taken from its toml tag.
func paramKey(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.Float64 {
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	}
	return fmt.Sprint(v.Interface())
}
