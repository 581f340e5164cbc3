package faceoverlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func blackImage(r image.Rectangle) *image.RGBA {
	img := image.NewRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+3] = 255
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestImageFrameMovesOrigin(t *testing.T) {
	src := blackImage(image.Rect(10, 10, 20, 30))
	src.SetRGBA(10, 10, color.RGBA{255, 0, 0, 255})

	f := NewImageFrame(src)
	assert.Equal(t, image.Rect(0, 0, 10, 20), f.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgbaAt(f.Image(), 0, 0))
}

func TestImageFrameBlur(t *testing.T) {
	white := PaintStyle{Color: namedColors["white"], StrokeWidth: 2, AntiAlias: true}

	sharp := NewImageFrame(blackImage(image.Rect(0, 0, 50, 50)))
	sharp.DrawLine(Point{10, 25}, Point{40, 25}, white)

	glow := white
	glow.Blur = 3
	blurred := NewImageFrame(blackImage(image.Rect(0, 0, 50, 50)))
	blurred.DrawLine(Point{10, 25}, Point{40, 25}, glow)

	assert.Equal(t, uint8(0), rgbaAt(sharp.Image(), 25, 29).R)
	assert.Greater(t, rgbaAt(blurred.Image(), 25, 29).R, uint8(0))
	// the frame stays opaque under the glow
	assert.Equal(t, uint8(255), rgbaAt(blurred.Image(), 25, 29).A)
}

func TestImageFrameArc(t *testing.T) {
	f := NewImageFrame(blackImage(image.Rect(0, 0, 100, 100)))
	oval := BoundingBox{MinX: 10, MaxX: 90, MinY: 10, MaxY: 90}
	p := PaintStyle{Color: namedColors["cyan"], StrokeWidth: 2, AntiAlias: true}

	// a quarter clockwise from the positive x axis ends at the bottom
	f.DrawArc(oval, 0, 90, p)

	img := f.Image()
	assert.Greater(t, rgbaAt(img, 89, 50).G, uint8(128))
	assert.Greater(t, rgbaAt(img, 50, 89).G, uint8(128))
	assert.Equal(t, uint8(0), rgbaAt(img, 50, 10).G)
	assert.Equal(t, uint8(0), rgbaAt(img, 10, 50).G)
}

func TestImageFramePath(t *testing.T) {
	f := NewImageFrame(blackImage(image.Rect(0, 0, 50, 50)))
	p := PaintStyle{Color: namedColors["white"], StrokeWidth: 1}

	f.DrawPath([]Point{{10, 10}, {40, 10}, {40, 40}}, true, p)
	// closing edge runs along the diagonal
	assert.Greater(t, rgbaAt(f.Image(), 25, 25).R, uint8(0))

	// a single point draws nothing
	f.DrawPath([]Point{{5, 5}}, false, p)
	assert.Equal(t, uint8(0), rgbaAt(f.Image(), 5, 5).R)
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 10.0, snap(PaintStyle{}, 10.4))
	assert.Equal(t, 10.4, snap(PaintStyle{AntiAlias: true}, 10.4))
}
