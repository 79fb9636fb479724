package pattern

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ErrUnknownParam is returned by Params.Set for keys no field carries.
var ErrUnknownParam = errors.New("unknown parameter")

// Params is the flat configuration shared by every generator and the
// re-render stage. Fields a generator does not use are ignored.
type Params struct {
	// Count is the number of rings or spiral seeds.
	Count int `toml:"count"`
	// CenterX and CenterY place the pattern origin unless AutoCenter is set.
	CenterX    int  `toml:"center_x"`
	CenterY    int  `toml:"center_y"`
	AutoCenter bool `toml:"auto_center"`

	// Increment is the radius step between rings.
	Increment int `toml:"increment"`
	// RingWidth is the half-width of each ring.
	RingWidth int `toml:"ring_width"`

	// Scale multiplies sqrt(i) for the spiral radius.
	Scale float64 `toml:"scale"`
	// PointRadius is the radius of every spiral seed disc.
	PointRadius int `toml:"point_radius"`

	Frequency float64 `toml:"frequency"`
	Thickness float64 `toml:"thickness"`

	// MaxRadius scales brightness into the re-rendered disc radius.
	MaxRadius float64 `toml:"max_radius"`
	// SampleRadius is the half-size of the brightness window.
	SampleRadius int `toml:"sample_radius"`
}

// Defaults returns parameters that produce a recognisable result on a
// typical photograph.
func Defaults() Params {
	return Params{
		Count:        60,
		AutoCenter:   true,
		Increment:    12,
		RingWidth:    1,
		Scale:        9,
		PointRadius:  1,
		Frequency:    12,
		Thickness:    0.08,
		MaxRadius:    5,
		SampleRadius: 3,
	}
}

// Center resolves the pattern origin for a width x height canvas.
func (p Params) Center(width, height int) (int, int) {
	if p.AutoCenter {
		return width / 2, height / 2
	}
	return p.CenterX, p.CenterY
}

// Validate rejects negative counts and sizes. Off-canvas centres are valid.
func (p Params) Validate() error {
	var errs []error
	check := func(name string, bad bool) {
		if bad {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	check("count", p.Count < 0)
	check("increment", p.Increment < 0)
	check("ring_width", p.RingWidth < 0)
	check("scale", p.Scale < 0)
	check("point_radius", p.PointRadius < 0)
	check("frequency", p.Frequency < 0)
	check("thickness", p.Thickness < 0)
	check("max_radius", p.MaxRadius < 0)
	check("sample_radius", p.SampleRadius < 0)
	finite := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be a finite number", name))
		}
	}
	finite("scale", p.Scale)
	finite("frequency", p.Frequency)
	finite("thickness", p.Thickness)
	finite("max_radius", p.MaxRadius)
	return errors.Join(errs...)
}

// Set assigns the field whose toml key is key, parsing value for the
// field's type.
func (p *Params) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	val := reflect.ValueOf(p).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("toml"), ",")
		if name != key {
			continue
		}
		f := val.Field(i)
		switch f.Kind() {
		case reflect.Int:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			f.SetInt(int64(n))
		case reflect.Float64:
			x, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			f.SetFloat(x)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			f.SetBool(b)
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownParam, key)
}

// Keys lists the toml keys accepted by Set in field order.
func Keys() []string {
	typ := reflect.TypeOf(Params{})
	keys := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("toml"), ",")
		keys = append(keys, name)
	}
	return keys
}
