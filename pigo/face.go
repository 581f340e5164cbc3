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

package pigo

import (
	"image"
	"io/ioutil"

	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"

	"github.com/muesli/faceoverlay"
	"github.com/muesli/faceoverlay/logger"
)

const (
	defaultMinSize          = 20
	defaultShiftFactor      = 0.1
	defaultScaleFactor      = 1.1
	defaultIoUThreshold     = 0.2
	defaultQualityThreshold = 5.0
	defaultContourPoints    = 36
)

// FaceDetector finds faces with a pigo cascade. Pigo only yields a center
// and a scale per face, so every face gets an elliptic FACE contour.
type FaceDetector struct {
	MinSize          int
	MaxSize          int // 0 uses the smaller frame dimension
	ShiftFactor      float64
	ScaleFactor      float64
	IoUThreshold     float64
	QualityThreshold float32
	ContourPoints    int
	Logger           logger.Logger

	classifier *pigo.Pigo
}

// NewFaceDetector unpacks a pigo cascade.
func NewFaceDetector(cascade []byte) (*FaceDetector, error) {
	p := pigo.NewPigo()
	classifier, err := p.Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "unpacking cascade")
	}
	return &FaceDetector{
		MinSize:          defaultMinSize,
		ShiftFactor:      defaultShiftFactor,
		ScaleFactor:      defaultScaleFactor,
		IoUThreshold:     defaultIoUThreshold,
		QualityThreshold: defaultQualityThreshold,
		ContourPoints:    defaultContourPoints,
		Logger:           logger.Discard(),
		classifier:       classifier,
	}, nil
}

// LoadFaceDetector reads and unpacks a pigo cascade file.
func LoadFaceDetector(path string) (*FaceDetector, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading cascade file")
	}
	return NewFaceDetector(data)
}

// Detect implements faceoverlay.Detector.
func (d *FaceDetector) Detect(img image.Image) ([]faceoverlay.Face, error) {
	if img == nil {
		return nil, errors.New("img can't be nil")
	}

	src := pigo.ImgToNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()
	maxSize := d.MaxSize
	if maxSize == 0 {
		maxSize = cols
		if rows < cols {
			maxSize = rows
		}
	}

	params := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     maxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.IoUThreshold)

	faces := facesFromDetections(dets, d.QualityThreshold, d.ContourPoints)
	d.Logger.Debugf("pigo: %d clusters, %d faces", len(dets), len(faces))
	return faces, nil
}

// facesFromDetections turns pigo clusters into faces. A face is taller
// than it is wide, so the ellipse is narrowed horizontally.
func facesFromDetections(dets []pigo.Detection, minQ float32, n int) []faceoverlay.Face {
	var faces []faceoverlay.Face
	for _, det := range dets {
		if det.Q < minQ {
			continue
		}
		c := faceoverlay.Point{X: float64(det.Col), Y: float64(det.Row)}
		r := float64(det.Scale) / 2
		faces = append(faces, faceoverlay.Face{
			Contours: faceoverlay.ContourSet{
				faceoverlay.ContourFace: faceoverlay.EllipseContour(c, r*0.8, r, n),
			},
		})
	}
	return faces
}
