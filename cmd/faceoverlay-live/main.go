//go:build !ci
// +build !ci

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	cv "gocv.io/x/gocv"

	"github.com/muesli/faceoverlay"
	"github.com/muesli/faceoverlay/gocv"
	"github.com/muesli/faceoverlay/logger"
	"github.com/muesli/faceoverlay/pigo"
)

const (
	keyEsc   = 27
	zoomStep = 1
)

func main() {
	back := flag.Int("back", 0, "back camera device id")
	front := flag.Int("front", 1, "front camera device id")
	haar := flag.String("haar", "", "OpenCV Haar cascade file")
	pigoCascade := flag.String("pigo", "", "pigo cascade file, used instead of -haar")
	config := flag.String("config", "", "YAML options file")
	fps := flag.Float64("fps", 30, "maximum frame rate")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	l := logger.Logger{
		DebugMode: *debug,
		Log:       log.New(os.Stderr, "", 0),
	}

	opts := faceoverlay.DefaultOptions()
	if *config != "" {
		var err error
		if opts, err = faceoverlay.LoadOptions(*config); err != nil {
			fmt.Fprintf(os.Stderr, "can't load config: %v\n", err)
			os.Exit(1)
		}
	}

	var detector faceoverlay.Detector
	switch {
	case *pigoCascade != "":
		d, err := pigo.LoadFaceDetector(*pigoCascade)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't load cascade: %v\n", err)
			os.Exit(1)
		}
		d.Logger = l
		detector = d
	case *haar != "":
		d := &gocv.FaceDetector{FaceDetectionHaarCascadeFilepath: *haar, Logger: &l}
		defer d.Close()
		detector = d
	default:
		fmt.Fprintln(os.Stderr, "Either -haar or -pigo is required")
		os.Exit(1)
	}

	camera := gocv.NewCamera(*back, *front)
	defer camera.Close()

	window := cv.NewWindow("faceoverlay")
	defer window.Close()
	thumbWindow := cv.NewWindow("thumbnail")
	defer thumbWindow.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var session *faceoverlay.Session
	var lastThumb string
	sink := func(_ int, img image.Image) error {
		if err := show(window, img); err != nil {
			return err
		}
		if t := session.Thumbnail().Load(); t != "" && t != lastThumb {
			lastThumb = t
			if err := showThumbnail(thumbWindow, t); err != nil {
				l.Warnf("showing thumbnail: %v", err)
			}
		}

		var err error
		switch key := window.WaitKey(1); key {
		case 'q', keyEsc:
			cancel()
		case 'f':
			err = camera.Flip()
		case '+', '=':
			err = camera.Zoom(zoomStep)
		case '-':
			err = camera.Zoom(-zoomStep)
		case ' ':
			b := img.Bounds()
			err = camera.FocusAt(faceoverlay.Point{X: float64(b.Dx()) / 2, Y: float64(b.Dy()) / 2})
		}
		if err != nil {
			l.Warnf("camera control: %v", err)
		}
		return nil
	}

	session = faceoverlay.NewSession(camera, detector, opts, sink, l)
	session.SetFrameRate(*fps)
	session.SetPermissionGate(camera)
	if err := session.Run(ctx); err != nil {
		if errors.Is(err, faceoverlay.ErrPermissionDenied) {
			fmt.Fprintf(os.Stderr, "Camera permission is required: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}

	st := session.Stats()
	l.Infof("%d frames, %d faces drawn, %d skipped", st.Frames, st.Drawn, st.Skipped)
}

func show(w *cv.Window, img image.Image) error {
	mat, err := cv.ImageToMatRGB(img)
	if err != nil {
		return err
	}
	defer mat.Close()
	w.IMShow(mat)
	return nil
}

func showThumbnail(w *cv.Window, b64 string) error {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return show(w, img)
}
