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
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

var (
	// ErrEmptyCrop is returned for a crop region without area.
	ErrEmptyCrop = errors.New("crop region is empty")
	// ErrEmptyFrame is returned when there are no source pixels to crop.
	ErrEmptyFrame = errors.New("frame buffer is empty")
)

// ThumbnailCell holds the most recent face thumbnail as a base64 encoded
// PNG. Writers overwrite each other; readers may see a stale value.
type ThumbnailCell struct {
	v atomic.String
}

// Store replaces the current thumbnail.
func (c *ThumbnailCell) Store(b64 string) {
	c.v.Store(b64)
}

// Load returns the current thumbnail, "" if none was stored yet.
func (c *ThumbnailCell) Load() string {
	return c.v.Load()
}

// DataURI returns the thumbnail as a data URI, "" if none was stored yet.
func (c *ThumbnailCell) DataURI() string {
	s := c.Load()
	if s == "" {
		return ""
	}
	return "data:image/png;base64," + s
}

// CropAndEncode cuts box out of src, rotates it clockwise by rotation
// degrees (a multiple of 90), scales it to fit within size x size and
// returns it as a base64 encoded PNG. A size of 0 keeps the crop size.
// Nothing is allocated for an empty crop region.
func CropAndEncode(src image.Image, box BoundingBox, size uint, rotation int) (string, error) {
	if src == nil || src.Bounds().Empty() {
		return "", ErrEmptyFrame
	}
	if !box.Valid() {
		return "", ErrEmptyCrop
	}
	r := box.Rect().Intersect(src.Bounds())
	if r.Empty() {
		return "", ErrEmptyCrop
	}

	img := image.Image(imaging.Crop(src, r))
	switch ((rotation % 360) + 360) % 360 {
	case 90:
		img = imaging.Rotate270(img)
	case 180:
		img = imaging.Rotate180(img)
	case 270:
		img = imaging.Rotate90(img)
	case 0:
	default:
		return "", errors.Errorf("unsupported thumbnail rotation %d", rotation)
	}

	if size > 0 {
		b := img.Bounds()
		if uint(b.Dx()) > size || uint(b.Dy()) > size {
			img = resize.Thumbnail(size, size, img, resize.Bilinear)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "encoding thumbnail")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
