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

/*
Package faceoverlay draws animated overlays (boxes, corner brackets, rotating
arcs and glowing outlines) around faces detected in video frames.
*/
package faceoverlay

import (
	"errors"
	"image"
	"math"
)

// Contour labels as emitted by contour-capable face detectors.
const (
	ContourFace              = "FACE"
	ContourLeftEyebrowTop    = "LEFT_EYEBROW_TOP"
	ContourLeftEyebrowBottom = "LEFT_EYEBROW_BOTTOM"
	ContourRightEyebrowTop   = "RIGHT_EYEBROW_TOP"
	ContourRightEyebrowBot   = "RIGHT_EYEBROW_BOTTOM"
	ContourLeftEye           = "LEFT_EYE"
	ContourRightEye          = "RIGHT_EYE"
	ContourUpperLipTop       = "UPPER_LIP_TOP"
	ContourUpperLipBottom    = "UPPER_LIP_BOTTOM"
	ContourLowerLipTop       = "LOWER_LIP_TOP"
	ContourLowerLipBottom    = "LOWER_LIP_BOTTOM"
	ContourNoseBridge        = "NOSE_BRIDGE"
	ContourNoseBottom        = "NOSE_BOTTOM"
	ContourLeftCheek         = "LEFT_CHEEK"
	ContourRightCheek        = "RIGHT_CHEEK"
)

var (
	// ErrNoDetection is returned when a face carries no points for the
	// requested contour.
	ErrNoDetection = errors.New("no contour points detected")
	// ErrDegenerateBox is returned when the points do not span an area.
	ErrDegenerateBox = errors.New("degenerate bounding box")
)

// Point is a coordinate in frame pixel space.
type Point struct {
	X float64
	Y float64
}

// Segment is a straight line between two points.
type Segment struct {
	A Point
	B Point
}

// ContourSet maps a contour label to its ordered points.
type ContourSet map[string][]Point

// Face is a single detected face.
type Face struct {
	Contours ContourSet
}

// BoundingBox is the axis-aligned box enclosing a set of points.
type BoundingBox struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

func (b BoundingBox) Width() float64  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// Valid reports whether the box spans a positive area.
func (b BoundingBox) Valid() bool {
	return b.MinX < b.MaxX && b.MinY < b.MaxY
}

// Center returns the middle of the box.
func (b BoundingBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Pad grows the box by p on every side.
func (b BoundingBox) Pad(p float64) BoundingBox {
	return BoundingBox{MinX: b.MinX - p, MaxX: b.MaxX + p, MinY: b.MinY - p, MaxY: b.MaxY + p}
}

// Corners returns the corners clockwise, starting top-left.
func (b BoundingBox) Corners() [4]Point {
	return [4]Point{
		{b.MinX, b.MinY},
		{b.MaxX, b.MinY},
		{b.MaxX, b.MaxY},
		{b.MinX, b.MaxY},
	}
}

// Rect returns the smallest integer rectangle covering the box.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.MinX)), int(math.Floor(b.MinY)),
		int(math.Ceil(b.MaxX)), int(math.Ceil(b.MaxY)),
	)
}

// BoundingBoxOf computes the bounding box of points in a single pass.
// A box that doesn't span an area is returned together with ErrDegenerateBox.
func BoundingBoxOf(points []Point) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, ErrNoDetection
	}

	b := BoundingBox{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}

	if !b.Valid() {
		return b, ErrDegenerateBox
	}
	return b, nil
}

// Box computes the bounding box of the contour with the given label.
func (cs ContourSet) Box(label string) (BoundingBox, error) {
	return BoundingBoxOf(cs[label])
}

// CornerBrackets returns two arms per corner, each ratio * width long,
// pointing along the box edges.
func CornerBrackets(b BoundingBox, ratio float64) []Segment {
	arm := ratio * b.Width()
	return []Segment{
		{Point{b.MinX, b.MinY}, Point{b.MinX + arm, b.MinY}},
		{Point{b.MinX, b.MinY}, Point{b.MinX, b.MinY + arm}},
		{Point{b.MaxX, b.MinY}, Point{b.MaxX - arm, b.MinY}},
		{Point{b.MaxX, b.MinY}, Point{b.MaxX, b.MinY + arm}},
		{Point{b.MaxX, b.MaxY}, Point{b.MaxX - arm, b.MaxY}},
		{Point{b.MaxX, b.MaxY}, Point{b.MaxX, b.MaxY - arm}},
		{Point{b.MinX, b.MaxY}, Point{b.MinX + arm, b.MaxY}},
		{Point{b.MinX, b.MaxY}, Point{b.MinX, b.MaxY - arm}},
	}
}

// ArcAngles returns count start angles, spacing degrees apart, beginning at
// rotation. Results are in [0,360).
func ArcAngles(rotation float64, count int, spacing float64) []float64 {
	res := make([]float64, count)
	for i := range res {
		res[i] = normalizeAngle(rotation + float64(i)*spacing)
	}
	return res
}

// ArcOval returns the square enclosing the arc circle: centered on the box,
// radius a third of the box width, grown by margin.
func ArcOval(b BoundingBox, margin float64) BoundingBox {
	c := b.Center()
	r := b.Width()/3 + margin
	return BoundingBox{MinX: c.X - r, MaxX: c.X + r, MinY: c.Y - r, MaxY: c.Y + r}
}

// EllipseContour returns n points on an ellipse, clockwise from the top.
func EllipseContour(c Point, rx, ry float64, n int) []Point {
	if n < 3 {
		return nil
	}
	pts := make([]Point, n)
	for i := range pts {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Point{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a == 0 {
		return 0
	}
	return a
}
