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
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Options configures which shapes the Renderer draws and how.
type Options struct {
	// Contour is the label whose points define the face bounding box.
	Contour string `yaml:"contour"`
	// Padding grows the drawn box on every side.
	Padding float64 `yaml:"padding"`

	DrawBox         bool `yaml:"draw_box"`
	DrawBrackets    bool `yaml:"draw_brackets"`
	DrawArcs        bool `yaml:"draw_arcs"`
	DrawCounterArcs bool `yaml:"draw_counter_arcs"`
	DrawOutline     bool `yaml:"draw_outline"`
	Thumbnail       bool `yaml:"thumbnail"`

	// BracketRatio is the corner bracket arm length relative to box width.
	BracketRatio float64 `yaml:"bracket_ratio"`

	ArcCount         int     `yaml:"arc_count"`
	ArcSweep         float64 `yaml:"arc_sweep"`
	ArcSpacing       float64 `yaml:"arc_spacing"`
	ArcMargin        float64 `yaml:"arc_margin"`
	CounterArcMargin float64 `yaml:"counter_arc_margin"`

	// ThumbnailSize bounds both thumbnail dimensions in pixels.
	ThumbnailSize uint `yaml:"thumbnail_size"`
	// ThumbnailRotation rotates the thumbnail clockwise, in degrees.
	ThumbnailRotation int `yaml:"thumbnail_rotation"`

	Styles Styles `yaml:"styles"`

	// DebugDir receives the per-frame debug images written in debug mode.
	DebugDir string `yaml:"debug_dir"`
}

// DefaultOptions returns a box with two sets of counter-rotating arcs and
// thumbnails enabled.
func DefaultOptions() Options {
	return Options{
		Contour:           ContourFace,
		DrawBox:           true,
		DrawArcs:          true,
		DrawCounterArcs:   true,
		Thumbnail:         true,
		BracketRatio:      0.15,
		ArcCount:          3,
		ArcSweep:          30,
		ArcSpacing:        120,
		ArcMargin:         40,
		CounterArcMargin:  50,
		ThumbnailSize:     200,
		ThumbnailRotation: 90,
		Styles:            DefaultStyles(),
	}
}

// Validate checks the options for values the renderer can't work with.
func (o Options) Validate() error {
	switch {
	case o.Contour == "":
		return fmt.Errorf("contour label must not be empty")
	case o.Padding < 0:
		return fmt.Errorf("padding must not be negative, got %v", o.Padding)
	case o.BracketRatio < 0 || o.BracketRatio > 0.5:
		return fmt.Errorf("bracket ratio must be within [0,0.5], got %v", o.BracketRatio)
	case o.ArcCount < 0:
		return fmt.Errorf("arc count must not be negative, got %d", o.ArcCount)
	case o.ThumbnailRotation%90 != 0:
		return fmt.Errorf("thumbnail rotation must be a multiple of 90, got %d", o.ThumbnailRotation)
	}
	return nil
}

// ParseOptions reads YAML on top of DefaultOptions.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.UnmarshalStrict(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions reads a YAML options file.
func LoadOptions(path string) (Options, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return ParseOptions(data)
}
