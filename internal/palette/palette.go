// Package palette generates color schemes from a base color.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

// Scheme names a palette generation strategy.
type Scheme string

const (
	Complementary Scheme = "complementary"
	Analogous     Scheme = "analogous"
	Triadic       Scheme = "triadic"
	Tetradic      Scheme = "tetradic"
	Monochromatic Scheme = "monochromatic"
	Warm          Scheme = "warm"
	Happy         Scheme = "happy"
	Soft          Scheme = "soft"
)

// MaxCount bounds the number of swatches in one palette.
const MaxCount = 12

var schemes = []Scheme{Complementary, Analogous, Triadic, Tetradic, Monochromatic, Warm, Happy, Soft}

// hue offsets of the harmony schemes
var offsets = map[Scheme][]float64{
	Complementary: {0, 180},
	Triadic:       {0, 120, 240},
	Tetradic:      {0, 90, 180, 270},
}

// Schemes lists every supported scheme.
func Schemes() []Scheme { return append([]Scheme(nil), schemes...) }

// ParseScheme validates a scheme name. An empty name means Complementary.
func ParseScheme(s string) (Scheme, error) {
	if s == "" {
		return Complementary, nil
	}
	for _, sc := range schemes {
		if string(sc) == strings.ToLower(s) {
			return sc, nil
		}
	}
	return "", errx.Ef("palette.ParseScheme", errx.Invalid, "unknown scheme %q", s)
}

// Swatch is one color of a palette.
type Swatch struct {
	Hex string `json:"hex"`
	RGB string `json:"rgb"`
	HSL string `json:"hsl"`
}

// Palette is a generated set of swatches.
type Palette struct {
	Base     string   `json:"base"`
	Scheme   Scheme   `json:"scheme"`
	Swatches []Swatch `json:"swatches"`
}

// Hexes returns the hex codes of the swatches.
func (p Palette) Hexes() []string {
	out := make([]string, len(p.Swatches))
	for i, s := range p.Swatches {
		out[i] = s.Hex
	}
	return out
}

// Generate builds a palette. An empty base picks a random happy color.
// A count of zero uses the scheme's natural size; random schemes ignore base.
func Generate(base string, scheme Scheme, count int) (Palette, error) {
	const op = "palette.Generate"

	if count < 0 || count > MaxCount {
		return Palette{}, errx.Ef(op, errx.Invalid, "count must be between 0 and %d", MaxCount)
	}

	var c colorful.Color
	if base == "" {
		c = colorful.HappyColor()
	} else {
		if !strings.HasPrefix(base, "#") {
			base = "#" + base
		}
		parsed, err := colorful.Hex(base)
		if err != nil {
			return Palette{}, errx.Ef(op, errx.Invalid, "invalid base color %q", base)
		}
		c = parsed
	}

	if count == 0 {
		count = naturalSize(scheme)
	}

	var colors []colorful.Color
	switch scheme {
	case Complementary, Triadic, Tetradic:
		colors = harmony(c, offsets[scheme], count)
	case Analogous:
		colors = analogous(c, count)
	case Monochromatic:
		colors = monochromatic(c, count)
	case Warm, Happy, Soft:
		generated, err := random(scheme, count)
		if err != nil {
			return Palette{}, errx.E(op, errx.Internal, err)
		}
		colors = generated
	default:
		return Palette{}, errx.Ef(op, errx.Invalid, "unknown scheme %q", scheme)
	}

	p := Palette{Base: c.Clamped().Hex(), Scheme: scheme, Swatches: make([]Swatch, len(colors))}
	for i, col := range colors {
		p.Swatches[i] = swatch(col)
	}
	return p, nil
}

func naturalSize(s Scheme) int {
	if o, ok := offsets[s]; ok {
		return len(o)
	}
	return 5
}

// harmony rotates the hue by each offset. Past one full round it repeats the
// offsets with lighter tints.
func harmony(c colorful.Color, offs []float64, count int) []colorful.Color {
	h, s, l := c.Hsl()
	out := make([]colorful.Color, count)
	for i := range count {
		round := float64(i / len(offs))
		out[i] = colorful.Hsl(wrapHue(h+offs[i%len(offs)]), s, math.Min(l+0.12*round, 0.95))
	}
	return out
}

func analogous(c colorful.Color, count int) []colorful.Color {
	h, s, l := c.Hsl()
	mid := float64(count-1) / 2
	out := make([]colorful.Color, count)
	for i := range count {
		out[i] = colorful.Hsl(wrapHue(h+(float64(i)-mid)*30), s, l)
	}
	return out
}

func monochromatic(c colorful.Color, count int) []colorful.Color {
	h, s, _ := c.Hsl()
	out := make([]colorful.Color, count)
	for i := range count {
		l := 0.2
		if count > 1 {
			l += 0.65 * float64(i) / float64(count-1)
		}
		out[i] = colorful.Hsl(h, s, l)
	}
	return out
}

func random(s Scheme, count int) ([]colorful.Color, error) {
	switch s {
	case Warm:
		return colorful.WarmPalette(count)
	case Happy:
		return colorful.HappyPalette(count)
	default:
		return colorful.SoftPalette(count)
	}
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func swatch(c colorful.Color) Swatch {
	c = c.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return Swatch{
		Hex: c.Hex(),
		RGB: fmt.Sprintf("rgb(%d, %d, %d)", r, g, b),
		HSL: fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", h, s*100, l*100),
	}
}
