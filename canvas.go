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
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Canvas receives the draw calls of the renderer. Angles are in degrees,
// clockwise from the positive x axis.
type Canvas interface {
	DrawRect(b BoundingBox, p PaintStyle)
	DrawLine(a, b Point, p PaintStyle)
	DrawPath(points []Point, closed bool, p PaintStyle)
	DrawArc(oval BoundingBox, startDeg, sweepDeg float64, p PaintStyle)
}

// Frame is a drawable video frame.
type Frame interface {
	Canvas
	Bounds() image.Rectangle
	// Image returns the frame pixels including everything drawn so far.
	Image() image.Image
}

// ImageFrame is a Frame backed by an in-memory RGBA image.
type ImageFrame struct {
	dc *gg.Context
}

// NewImageFrame copies img into a new drawable frame. The frame origin is
// moved to (0,0).
func NewImageFrame(img image.Image) *ImageFrame {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return &ImageFrame{dc: dc}
}

// Bounds implements Frame.
func (f *ImageFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.dc.Width(), f.dc.Height())
}

// Image implements Frame.
func (f *ImageFrame) Image() image.Image {
	return f.dc.Image()
}

// DrawRect implements Canvas.
func (f *ImageFrame) DrawRect(b BoundingBox, p PaintStyle) {
	f.stroke(p, func(dc *gg.Context) {
		dc.DrawRectangle(snap(p, b.MinX), snap(p, b.MinY), snap(p, b.Width()), snap(p, b.Height()))
	})
}

// DrawLine implements Canvas.
func (f *ImageFrame) DrawLine(a, b Point, p PaintStyle) {
	f.stroke(p, func(dc *gg.Context) {
		dc.DrawLine(snap(p, a.X), snap(p, a.Y), snap(p, b.X), snap(p, b.Y))
	})
}

// DrawPath implements Canvas.
func (f *ImageFrame) DrawPath(points []Point, closed bool, p PaintStyle) {
	if len(points) < 2 {
		return
	}
	f.stroke(p, func(dc *gg.Context) {
		dc.MoveTo(snap(p, points[0].X), snap(p, points[0].Y))
		for _, pt := range points[1:] {
			dc.LineTo(snap(p, pt.X), snap(p, pt.Y))
		}
		if closed {
			dc.ClosePath()
		}
	})
}

// DrawArc implements Canvas.
func (f *ImageFrame) DrawArc(oval BoundingBox, startDeg, sweepDeg float64, p PaintStyle) {
	c := oval.Center()
	start := gg.Radians(startDeg)
	end := gg.Radians(startDeg + sweepDeg)
	f.stroke(p, func(dc *gg.Context) {
		dc.NewSubPath()
		dc.DrawEllipticalArc(snap(p, c.X), snap(p, c.Y), oval.Width()/2, oval.Height()/2, start, end)
	})
}

// stroke traces a path with trace and strokes it with p. Blurred paints are
// drawn onto a scratch layer which is blurred and composited over the frame.
func (f *ImageFrame) stroke(p PaintStyle, trace func(dc *gg.Context)) {
	if p.Blur <= 0 {
		applyPaint(f.dc, p)
		trace(f.dc)
		f.dc.Stroke()
		return
	}

	layer := gg.NewContext(f.dc.Width(), f.dc.Height())
	applyPaint(layer, p)
	trace(layer)
	layer.Stroke()
	f.dc.DrawImage(imaging.Blur(layer.Image(), p.Blur), 0, 0)
}

func applyPaint(dc *gg.Context, p PaintStyle) {
	dc.SetColor(p.Color)
	w := p.StrokeWidth
	if w <= 0 {
		w = 1
	}
	dc.SetLineWidth(w)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
}

// snap rounds coordinates to whole pixels when anti-aliasing is off.
func snap(p PaintStyle, v float64) float64 {
	if p.AntiAlias {
		return v
	}
	return math.Round(v)
}
