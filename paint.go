/*
 * Copyright (c) 2014-2024 Christian Muehlhaeuser
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *	Authors:
 *		Christian Muehlhaeuser <muesli@gmail.com>
 *		Michael Wendland <michael@michiwend.com>
 */

package faceoverlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a non-premultiplied RGBA color. In YAML it is written either as
// a name ("cyan") or as "#rrggbb" / "#rrggbbaa".
type Color color.NRGBA

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 255, 0, 255},
	"blue":        {0, 0, 255, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"transparent": {0, 0, 0, 0},
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// String returns the "#rrggbbaa" form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses a color name or hex notation.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 7 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// PaintStyle describes how a shape is stroked.
type PaintStyle struct {
	Color       Color   `yaml:"color"`
	StrokeWidth float64 `yaml:"stroke_width"`
	AntiAlias   bool    `yaml:"anti_alias"`
	// Blur is the gaussian sigma applied to the stroke, 0 for none.
	Blur float64 `yaml:"blur"`
}

// Styles holds one PaintStyle per shape kind.
type Styles struct {
	Box           PaintStyle `yaml:"box"`
	Bracket       PaintStyle `yaml:"bracket"`
	Arc           PaintStyle `yaml:"arc"`
	CounterArc    PaintStyle `yaml:"counter_arc"`
	OutlineShadow PaintStyle `yaml:"outline_shadow"`
	Outline       PaintStyle `yaml:"outline"`
}

// DefaultStyles returns the stock look: a white box, cyan arcs and green
// counter-rotating arcs, with a cyan glow behind the face outline.
func DefaultStyles() Styles {
	return Styles{
		Box:           PaintStyle{Color: namedColors["white"], StrokeWidth: 2, AntiAlias: true},
		Bracket:       PaintStyle{Color: namedColors["white"], StrokeWidth: 3, AntiAlias: true},
		Arc:           PaintStyle{Color: namedColors["cyan"], StrokeWidth: 2, AntiAlias: true},
		CounterArc:    PaintStyle{Color: namedColors["green"], StrokeWidth: 2, AntiAlias: true},
		OutlineShadow: PaintStyle{Color: namedColors["cyan"].WithAlpha(128), StrokeWidth: 8, AntiAlias: true, Blur: 6},
		Outline:       PaintStyle{Color: namedColors["white"], StrokeWidth: 2, AntiAlias: true},
	}
}
