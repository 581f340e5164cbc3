/*
 * Copyright (c) 2014 Christian Muehlhaeuser
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
 *		Bjørn Erik Pedersen <bjorn.erik.pedersen@gmail.com>
 */

package faceoverlay

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// debugPalette cycles per face. More faces than colors reuse them.
var debugPalette = []Color{
	namedColors["green"],
	namedColors["red"],
	namedColors["blue"],
	{255, 128, 0, 255},
	{128, 0, 128, 255},
	{64, 255, 255, 255},
	{255, 64, 255, 255},
	{255, 255, 64, 255},
	namedColors["white"],
}

// DebugImage plots the raw detection data of a frame: contour points and
// the boxes derived from them, one color per face.
type DebugImage struct {
	img    *image.NRGBA
	origin image.Point
	faces  int
}

// NewDebugImage returns a black debug image covering bounds.
func NewDebugImage(bounds image.Rectangle) *DebugImage {
	return &DebugImage{
		img:    imaging.New(bounds.Dx(), bounds.Dy(), color.Black),
		origin: bounds.Min,
	}
}

// AddFace plots every contour point of a face as a small cross and, when
// valid, the outline of box, all in the next palette color.
func (di *DebugImage) AddFace(contours ContourSet, box BoundingBox) {
	c := color.NRGBA(debugPalette[di.faces%len(debugPalette)])
	di.faces++

	for _, points := range contours {
		for _, p := range points {
			di.cross(int(p.X), int(p.Y), c)
		}
	}
	if box.Valid() {
		di.outline(box.Rect(), c)
	}
}

func (di *DebugImage) cross(x, y int, c color.NRGBA) {
	for d := -1; d <= 1; d++ {
		di.set(x+d, y, c)
		di.set(x, y+d, c)
	}
}

func (di *DebugImage) outline(r image.Rectangle, c color.NRGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		di.set(x, r.Min.Y, c)
		di.set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di.set(r.Min.X, y, c)
		di.set(r.Max.X-1, y, c)
	}
}

func (di *DebugImage) set(x, y int, c color.NRGBA) {
	p := image.Pt(x, y).Sub(di.origin)
	if p.In(di.img.Bounds()) {
		di.img.SetNRGBA(p.X, p.Y, c)
	}
}

// Image returns the debug image. Its origin is always (0,0).
func (di *DebugImage) Image() image.Image {
	return di.img
}

// DebugOutput writes the image to dir/faceoverlay_<name>.png and returns
// the path written. An empty dir means the working directory.
func (di *DebugImage) DebugOutput(dir, name string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "faceoverlay_"+name+".png")
	return path, imaging.Save(di.img, path)
}
