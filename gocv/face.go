//go:build !ci
// +build !ci

package gocv

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/muesli/faceoverlay"
	sclogger "github.com/muesli/faceoverlay/logger"
)

// FaceDetector finds faces with an OpenCV Haar cascade and reports each as
// an elliptic FACE contour inscribed in the detected rectangle.
type FaceDetector struct {
	FaceDetectionHaarCascadeFilepath string
	ContourPoints                    int
	Logger                           *sclogger.Logger

	once       sync.Once
	classifier gocv.CascadeClassifier
	loaded     bool
	loadErr    error
}

func (d *FaceDetector) load() {
	if d.FaceDetectionHaarCascadeFilepath == "" {
		d.loadErr = fmt.Errorf("FaceDetector's FaceDetectionHaarCascadeFilepath not specified")
		return
	}
	if _, err := os.Stat(d.FaceDetectionHaarCascadeFilepath); err != nil {
		d.loadErr = err
		return
	}

	d.classifier = gocv.NewCascadeClassifier()
	if !d.classifier.Load(d.FaceDetectionHaarCascadeFilepath) {
		d.classifier.Close()
		d.loadErr = fmt.Errorf("FaceDetector failed loading cascade file")
		return
	}
	d.loaded = true
}

// Detect implements faceoverlay.Detector.
func (d *FaceDetector) Detect(img image.Image) ([]faceoverlay.Face, error) {
	if img == nil {
		return nil, fmt.Errorf("img can't be nil")
	}
	d.once.Do(d.load)
	if d.loadErr != nil {
		return nil, d.loadErr
	}

	cvMat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer cvMat.Close()

	rects := d.classifier.DetectMultiScale(cvMat)

	if d.Logger != nil && d.Logger.DebugMode {
		d.Logger.Log.Printf("Number of faces detected: %d\n", len(rects))
	}

	n := d.ContourPoints
	if n == 0 {
		n = 36
	}

	origin := img.Bounds().Min
	faces := make([]faceoverlay.Face, 0, len(rects))
	for _, r := range rects {
		r = r.Add(origin)
		if d.Logger != nil && d.Logger.DebugMode {
			d.Logger.Log.Printf("Face: x: %d y: %d w: %d h: %d\n", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
		}

		c := faceoverlay.Point{X: float64(r.Min.X+r.Max.X) / 2, Y: float64(r.Min.Y+r.Max.Y) / 2}
		faces = append(faces, faceoverlay.Face{
			Contours: faceoverlay.ContourSet{
				faceoverlay.ContourFace: faceoverlay.EllipseContour(c, float64(r.Dx())*0.425, float64(r.Dy())/2, n),
			},
		})
	}
	return faces, nil
}

// Close releases the cascade. The detector can't be used afterwards.
func (d *FaceDetector) Close() error {
	d.once.Do(func() { d.loadErr = fmt.Errorf("FaceDetector closed") })
	if !d.loaded {
		return nil
	}
	d.loaded = false
	d.loadErr = fmt.Errorf("FaceDetector closed")
	return d.classifier.Close()
}
