package faceoverlay

import (
	"image"
)

type call struct {
	op     string
	box    BoundingBox
	a, b   Point
	points []Point
	closed bool
	start  float64
	sweep  float64
	paint  PaintStyle
}

// recordingFrame is a Frame that records draw calls instead of drawing.
type recordingFrame struct {
	calls []call
	img   image.Image
}

func newRecordingFrame(w, h int) *recordingFrame {
	return &recordingFrame{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (f *recordingFrame) DrawRect(b BoundingBox, p PaintStyle) {
	f.calls = append(f.calls, call{op: "rect", box: b, paint: p})
}

func (f *recordingFrame) DrawLine(a, b Point, p PaintStyle) {
	f.calls = append(f.calls, call{op: "line", a: a, b: b, paint: p})
}

func (f *recordingFrame) DrawPath(points []Point, closed bool, p PaintStyle) {
	f.calls = append(f.calls, call{op: "path", points: points, closed: closed, paint: p})
}

func (f *recordingFrame) DrawArc(oval BoundingBox, start, sweep float64, p PaintStyle) {
	f.calls = append(f.calls, call{op: "arc", box: oval, start: start, sweep: sweep, paint: p})
}

func (f *recordingFrame) Bounds() image.Rectangle { return f.img.Bounds() }
func (f *recordingFrame) Image() image.Image      { return f.img }

func (f *recordingFrame) ops(op string) []call {
	var res []call
	for _, c := range f.calls {
		if c.op == op {
			res = append(res, c)
		}
	}
	return res
}

func squareFace() Face {
	return Face{Contours: ContourSet{
		ContourFace: {{100, 100}, {200, 100}, {200, 200}, {100, 200}},
	}}
}
