/*
 * Copyright (c) 2014-2017 Christian Muehlhaeuser
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
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muesli/faceoverlay/logger"
)

func noThumbnails() Options {
	opts := DefaultOptions()
	opts.Thumbnail = false
	return opts
}

func TestRenderSquareFace(t *testing.T) {
	opts := noThumbnails()
	opts.Padding = 10

	f := newRecordingFrame(300, 300)
	stats := NewRenderer(opts, FixedRotation(30), nil).Render(f, []Face{squareFace()})
	assert.Equal(t, Stats{Faces: 1, Drawn: 1}, stats)

	rects := f.ops("rect")
	require.Len(t, rects, 1)
	expected := [4]Point{{90, 90}, {210, 90}, {210, 210}, {90, 210}}
	if rects[0].box.Corners() != expected {
		t.Fatalf("expected %v, got %v", expected, rects[0].box.Corners())
	}
	assert.Equal(t, opts.Styles.Box, rects[0].paint)

	arcs := f.ops("arc")
	require.Len(t, arcs, 6)

	box := BoundingBox{MinX: 100, MaxX: 200, MinY: 100, MaxY: 200}
	for i, start := range []float64{30, 150, 270} {
		assert.Equal(t, ArcOval(box, 40), arcs[i].box)
		assert.Equal(t, start, arcs[i].start)
		assert.Equal(t, 30.0, arcs[i].sweep)
		assert.Equal(t, opts.Styles.Arc, arcs[i].paint)
	}
	for i, start := range []float64{330, 90, 210} {
		assert.Equal(t, ArcOval(box, 50), arcs[3+i].box)
		assert.Equal(t, start, arcs[3+i].start)
		assert.Equal(t, opts.Styles.CounterArc, arcs[3+i].paint)
	}

	// the box is drawn before the arcs
	assert.Equal(t, "rect", f.calls[0].op)
}

func TestRenderDrawOrder(t *testing.T) {
	opts := noThumbnails()
	opts.DrawBrackets = true
	opts.DrawOutline = true

	f := newRecordingFrame(300, 300)
	NewRenderer(opts, nil, nil).Render(f, []Face{squareFace()})

	var ops []string
	for _, c := range f.calls {
		if len(ops) == 0 || ops[len(ops)-1] != c.op {
			ops = append(ops, c.op)
		}
	}
	assert.Equal(t, []string{"rect", "line", "arc", "path"}, ops)
}

func TestRenderBrackets(t *testing.T) {
	opts := noThumbnails()
	opts.DrawBox = false
	opts.DrawArcs = false
	opts.DrawCounterArcs = false
	opts.DrawBrackets = true

	f := newRecordingFrame(300, 300)
	NewRenderer(opts, nil, nil).Render(f, []Face{squareFace()})

	lines := f.ops("line")
	require.Len(t, lines, 8)
	for _, l := range lines {
		d := l.b.X - l.a.X + l.b.Y - l.a.Y
		if d < 0 {
			d = -d
		}
		assert.InDelta(t, 15, d, 1e-9)
	}
	assert.Len(t, f.calls, 8)
}

func TestRenderOutlineGlow(t *testing.T) {
	opts := noThumbnails()
	opts.DrawOutline = true

	f := newRecordingFrame(300, 300)
	face := squareFace()
	NewRenderer(opts, nil, nil).Render(f, []Face{face})

	paths := f.ops("path")
	require.Len(t, paths, 2)
	assert.Equal(t, opts.Styles.OutlineShadow, paths[0].paint)
	assert.Equal(t, opts.Styles.Outline, paths[1].paint)
	for _, p := range paths {
		assert.True(t, p.closed)
		assert.Equal(t, face.Contours[ContourFace], p.points)
	}
	assert.Greater(t, paths[0].paint.Blur, 0.0)
}

func TestRenderSkipsFaces(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Logger{Log: log.New(&buf, "", 0)}

	faces := []Face{
		{Contours: ContourSet{ContourLeftEye: {{1, 1}, {5, 5}}}},
		{Contours: ContourSet{ContourFace: {}}},
		{Contours: ContourSet{ContourFace: {{10, 10}, {10, 50}}}},
		squareFace(),
	}

	f := newRecordingFrame(300, 300)
	stats := NewRendererWithLogger(noThumbnails(), nil, nil, l).Render(f, faces)

	assert.Equal(t, Stats{Faces: 4, Drawn: 1, Skipped: 3}, stats)
	assert.Len(t, f.ops("rect"), 1)
	assert.Contains(t, buf.String(), "face 0: no FACE contour detected")
	assert.Contains(t, buf.String(), "face 1: no FACE contour detected")
	assert.Contains(t, buf.String(), "face 2: invalid bounding box")
}

func TestRenderNoFaces(t *testing.T) {
	f := newRecordingFrame(10, 10)
	stats := NewRenderer(DefaultOptions(), nil, &ThumbnailCell{}).Render(f, nil)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, f.calls)
}

func TestRenderCustomContour(t *testing.T) {
	opts := noThumbnails()
	opts.Contour = ContourNoseBridge

	f := newRecordingFrame(300, 300)
	face := Face{Contours: ContourSet{ContourNoseBridge: {{140, 100}, {160, 140}}}}
	NewRenderer(opts, nil, nil).Render(f, []Face{face})

	rects := f.ops("rect")
	require.Len(t, rects, 1)
	assert.Equal(t, BoundingBox{MinX: 140, MaxX: 160, MinY: 100, MaxY: 140}, rects[0].box)
}

func TestRenderThumbnail(t *testing.T) {
	thumbs := &ThumbnailCell{}
	f := newRecordingFrame(300, 300)
	face := Face{Contours: ContourSet{ContourFace: {{100, 100}, {160, 200}}}}

	stats := NewRenderer(DefaultOptions(), nil, thumbs).Render(f, []Face{face})
	assert.Equal(t, 1, stats.Thumbnails)

	data, err := base64.StdEncoding.DecodeString(thumbs.Load())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// 60x100 crop, rotated by 90 degrees
	assert.Equal(t, image.Rect(0, 0, 100, 60), img.Bounds())
}

type emptyFrame struct {
	*recordingFrame
}

func (emptyFrame) Image() image.Image { return image.NewRGBA(image.Rectangle{}) }

func TestRenderThumbnailFailureKeepsPrevious(t *testing.T) {
	thumbs := &ThumbnailCell{}
	thumbs.Store("previous")

	f := emptyFrame{newRecordingFrame(300, 300)}
	stats := NewRenderer(DefaultOptions(), nil, thumbs).Render(f, []Face{squareFace()})

	assert.Equal(t, "previous", thumbs.Load())
	assert.Equal(t, 0, stats.Thumbnails)
	// the overlay is still drawn
	assert.Equal(t, 1, stats.Drawn)
	assert.Len(t, f.ops("rect"), 1)
}

func TestRenderThumbnailIgnoresOtherOverlays(t *testing.T) {
	opts := DefaultOptions()
	opts.DrawBrackets = true
	opts.DrawOutline = true
	opts.ThumbnailSize = 0
	opts.ThumbnailRotation = 0

	square := func(min, max float64) Face {
		return Face{Contours: ContourSet{
			ContourFace: {{min, min}, {max, min}, {max, max}, {min, max}},
		}}
	}

	thumbs := &ThumbnailCell{}
	f := NewImageFrame(blackImage(image.Rect(0, 0, 400, 300)))
	stats := NewRenderer(opts, FixedRotation(0), thumbs).Render(f, []Face{square(100, 200), square(190, 290)})
	assert.Equal(t, 2, stats.Drawn)
	assert.Equal(t, 2, stats.Thumbnails)

	// the overlay of the first face reaches into the second one
	assert.NotEqual(t, color.RGBA{0, 0, 0, 255}, rgbaAt(f.Image(), 195, 200))

	data, err := base64.StdEncoding.DecodeString(thumbs.Load())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	var lit int
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if c := rgbaAt(img, x, y); c.R != 0 || c.G != 0 || c.B != 0 {
				lit++
			}
		}
	}
	assert.Zero(t, lit, "thumbnail must be cut from the frame without overlays")
}

func TestRenderFollowsRotation(t *testing.T) {
	counter := NewRotationCounter(DefaultRotationStep)
	r := NewRenderer(noThumbnails(), counter, nil)

	for i := 0; i < 40; i++ {
		counter.Tick()
	}

	f := newRecordingFrame(300, 300)
	r.Render(f, []Face{squareFace()})
	arcs := f.ops("arc")
	require.Len(t, arcs, 6)
	assert.Equal(t, 120.0, arcs[0].start)
	assert.Equal(t, 240.0, arcs[3].start)
}

func TestRenderImageFrame(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 300))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+3] = 255
	}

	f := NewImageFrame(src)
	NewRenderer(noThumbnails(), nil, nil).Render(f, []Face{squareFace()})
	out := f.Image()

	edge := color.RGBAModel.Convert(out.At(100, 150)).(color.RGBA)
	assert.Greater(t, edge.R, uint8(128), "box edge should be white")

	center := color.RGBAModel.Convert(out.At(150, 150)).(color.RGBA)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, center)

	// source frame is untouched
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, src.RGBAAt(100, 150))
}

func BenchmarkRender(b *testing.B) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	opts := DefaultOptions()
	opts.DrawOutline = true
	opts.DrawBrackets = true
	face := Face{Contours: ContourSet{
		ContourFace: EllipseContour(Point{320, 240}, 80, 100, 36),
	}}
	r := NewRenderer(opts, FixedRotation(45), &ThumbnailCell{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(NewImageFrame(src), []Face{face})
	}
}
