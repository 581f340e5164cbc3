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
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/time/rate"

	"github.com/muesli/faceoverlay/logger"
)

// Source delivers video frames. NextFrame returns io.EOF at the end of the
// stream.
type Source interface {
	NextFrame(ctx context.Context) (image.Image, error)
}

// Detector finds faces and their contours in a frame.
type Detector interface {
	Detect(img image.Image) ([]Face, error)
}

// Sink receives every rendered frame.
type Sink func(index int, img image.Image) error

// CameraControls are the user-facing camera actions.
type CameraControls interface {
	Flip() error
	Zoom(delta float64) error
	FocusAt(p Point) error
}

// PermissionGate reports and requests access to the camera.
type PermissionGate interface {
	Granted() bool
	Request() (bool, error)
}

// ErrPermissionDenied is returned by Session.Run when the camera may not be
// used.
var ErrPermissionDenied = errors.New("camera permission denied")

// SessionStats accumulates Stats over the frames of a session.
type SessionStats struct {
	Frames int
	Stats
}

// Session pulls frames from a Source, detects faces, renders the overlay and
// passes the result to a Sink, one frame at a time. It animates the arcs
// with its own RotationDriver for as long as Run is active.
type Session struct {
	src      Source
	det      Detector
	sink     Sink
	renderer *Renderer
	counter  *RotationCounter
	thumbs   *ThumbnailCell
	limiter  *rate.Limiter
	gate     PermissionGate
	logger   logger.Logger
	stats    SessionStats
}

// NewSession wires a session together.
func NewSession(src Source, det Detector, opts Options, sink Sink, l logger.Logger) *Session {
	s := &Session{
		src:     src,
		det:     det,
		sink:    sink,
		counter: NewRotationCounter(DefaultRotationStep),
		thumbs:  &ThumbnailCell{},
		logger:  l,
	}
	s.renderer = NewRendererWithLogger(opts, s.counter, s.thumbs, l)
	return s
}

// SetFrameRate limits frame delivery to fps frames per second. Zero or
// less removes the limit.
func (s *Session) SetFrameRate(fps float64) {
	if fps <= 0 {
		s.limiter = nil
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(fps), 1)
}

// SetPermissionGate makes Run check, and if needed request, access to the
// camera before the first frame. A nil gate disables the check.
func (s *Session) SetPermissionGate(g PermissionGate) {
	s.gate = g
}

// Thumbnail returns the cell holding the latest face thumbnail.
func (s *Session) Thumbnail() *ThumbnailCell {
	return s.thumbs
}

// Rotation returns the counter animating the arcs.
func (s *Session) Rotation() *RotationCounter {
	return s.counter
}

// Stats returns the totals of all frames processed so far.
func (s *Session) Stats() SessionStats {
	return s.stats
}

// Run processes frames until the source is exhausted, ctx is canceled or
// the sink fails. The rotation driver is stopped before Run returns.
func (s *Session) Run(ctx context.Context) error {
	if err := s.checkPermission(); err != nil {
		return err
	}

	driver := NewRotationDriver(s.counter, DefaultRotationPeriod)
	driver.Start(ctx)
	defer driver.Stop()

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return ignoreCanceled(err)
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return ignoreCanceled(err)
			}
		}

		img, err := s.src.NextFrame(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ignoreCanceled(err)
		}

		faces, err := s.det.Detect(img)
		if err != nil {
			s.logger.Warnf("frame %d: detection failed: %v", i, err)
			faces = nil
		}

		frame := NewImageFrame(img)
		st := s.renderer.Render(frame, faces)
		s.stats.Frames++
		s.stats.Faces += st.Faces
		s.stats.Drawn += st.Drawn
		s.stats.Skipped += st.Skipped
		s.stats.Thumbnails += st.Thumbnails

		if s.sink != nil {
			if err := s.sink(i, frame.Image()); err != nil {
				return err
			}
		}
	}
}

func (s *Session) checkPermission() error {
	if s.gate == nil || s.gate.Granted() {
		return nil
	}
	granted, err := s.gate.Request()
	switch {
	case err != nil:
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case !granted:
		return ErrPermissionDenied
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
