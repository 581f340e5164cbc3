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
	"errors"
	"fmt"

	"github.com/muesli/faceoverlay/logger"
)

// Stats summarizes a single Render call.
type Stats struct {
	Faces      int
	Drawn      int
	Skipped    int
	Thumbnails int
}

// Renderer draws the overlay for the faces of a frame.
// A Renderer must not be used by more than one goroutine at a time.
type Renderer struct {
	opts     Options
	rotation RotationSource
	thumbs   *ThumbnailCell
	logger   logger.Logger
	frames   int
}

// NewRenderer returns a Renderer that reads the arc rotation from rotation
// and publishes thumbnails to thumbs. Both may be nil.
func NewRenderer(opts Options, rotation RotationSource, thumbs *ThumbnailCell) *Renderer {
	return NewRendererWithLogger(opts, rotation, thumbs, logger.Discard())
}

// NewRendererWithLogger is like NewRenderer but logs skipped faces and
// failed thumbnails to l.
func NewRendererWithLogger(opts Options, rotation RotationSource, thumbs *ThumbnailCell, l logger.Logger) *Renderer {
	if rotation == nil {
		rotation = FixedRotation(0)
	}
	return &Renderer{
		opts:     opts,
		rotation: rotation,
		thumbs:   thumbs,
		logger:   l,
	}
}

// Options returns the options the renderer was created with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws the overlay of every face onto frame. Faces without usable
// contour data are skipped; nothing that goes wrong for one face affects
// the others.
func (r *Renderer) Render(frame Frame, faces []Face) Stats {
	r.frames++
	stats := Stats{Faces: len(faces)}

	var dbg *DebugImage
	if r.logger.DebugMode {
		dbg = NewDebugImage(frame.Bounds())
	}

	// one read per frame so all faces share the same phase
	angle := r.rotation.Angle()

	type placedFace struct {
		face Face
		box  BoundingBox
	}
	placed := make([]placedFace, 0, len(faces))

	for i, face := range faces {
		box, err := face.Contours.Box(r.opts.Contour)
		if dbg != nil {
			dbg.AddFace(face.Contours, box)
		}
		switch {
		case errors.Is(err, ErrNoDetection):
			r.logger.Warnf("frame %d face %d: no %s contour detected", r.frames, i, r.opts.Contour)
			stats.Skipped++
			continue
		case err != nil:
			r.logger.Warnf("frame %d face %d: invalid bounding box %+v", r.frames, i, box)
			stats.Skipped++
			continue
		}
		r.logger.Debugf("frame %d face %d: box %+v rotation %.0f", r.frames, i, box, angle)
		placed = append(placed, placedFace{face: face, box: box})
	}

	// thumbnails are cut before any overlay touches the frame
	if r.opts.Thumbnail && r.thumbs != nil {
		for _, p := range placed {
			if r.updateThumbnail(frame, p.box) {
				stats.Thumbnails++
			}
		}
	}

	for _, p := range placed {
		r.drawFace(frame, p.face, p.box, angle)
		stats.Drawn++
	}

	if dbg != nil {
		path, err := dbg.DebugOutput(r.opts.DebugDir, fmt.Sprintf("frame%05d", r.frames))
		if err != nil {
			r.logger.Errorf("writing debug image: %v", err)
		} else {
			r.logger.Debugf("frame %d: debug image %s", r.frames, path)
		}
	}
	return stats
}

// drawFace issues the draw calls for one face. Later shapes are drawn over
// earlier ones.
func (r *Renderer) drawFace(c Canvas, face Face, box BoundingBox, angle float64) {
	o := r.opts

	if o.DrawBox {
		c.DrawRect(box.Pad(o.Padding), o.Styles.Box)
	}

	if o.DrawBrackets {
		for _, s := range CornerBrackets(box, o.BracketRatio) {
			c.DrawLine(s.A, s.B, o.Styles.Bracket)
		}
	}

	if o.DrawArcs {
		oval := ArcOval(box, o.ArcMargin)
		for _, start := range ArcAngles(angle, o.ArcCount, o.ArcSpacing) {
			c.DrawArc(oval, start, o.ArcSweep, o.Styles.Arc)
		}
	}

	if o.DrawCounterArcs {
		oval := ArcOval(box, o.CounterArcMargin)
		for _, start := range ArcAngles(-angle, o.ArcCount, o.ArcSpacing) {
			c.DrawArc(oval, start, o.ArcSweep, o.Styles.CounterArc)
		}
	}

	if o.DrawOutline {
		if pts := face.Contours[ContourFace]; len(pts) >= 2 {
			c.DrawPath(pts, true, o.Styles.OutlineShadow)
			c.DrawPath(pts, true, o.Styles.Outline)
		}
	}
}

// updateThumbnail publishes the face region as the new thumbnail. On
// failure the previous thumbnail stays in place.
func (r *Renderer) updateThumbnail(frame Frame, box BoundingBox) bool {
	b64, err := CropAndEncode(frame.Image(), box, r.opts.ThumbnailSize, r.opts.ThumbnailRotation)
	if err != nil {
		r.logger.Warnf("frame %d: skipping thumbnail: %v", r.frames, err)
		return false
	}
	r.thumbs.Store(b64)
	return true
}
