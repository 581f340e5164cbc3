/*
 * Copyright (c) 2014-2019 Christian Muehlhaeuser
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
 *		Patryk Pomykalski <pomyks@gmail.com>
 */

package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/muesli/faceoverlay"
	"github.com/muesli/faceoverlay/logger"
	"github.com/muesli/faceoverlay/pigo"
)

type frame struct {
	path   string
	format string
	img    image.Image
}

func main() {
	input := flag.String("input", "", "input image or directory of frames")
	output := flag.String("output", ".", "output directory")
	cascade := flag.String("cascade", "", "pigo cascade file")
	config := flag.String("config", "", "YAML options file")
	fps := flag.Float64("fps", 30, "frame rate the input was captured at")
	thumbnail := flag.String("thumbnail", "", "write the last face thumbnail to this PNG file")
	quality := flag.Int("quality", 85, "jpeg quality")
	padding := flag.Float64("padding", -1, "box padding, overrides the config file")
	brackets := flag.Bool("brackets", false, "draw corner brackets")
	outline := flag.Bool("outline", false, "draw the glowing face outline")
	logfile := flag.String("logfile", "", "log to this file instead of stderr")
	debug := flag.Bool("debug", false, "debug logging and debug images")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "No input given")
		os.Exit(1)
	}
	if *cascade == "" {
		fmt.Fprintln(os.Stderr, "No cascade file given")
		os.Exit(1)
	}

	l := logger.Logger{DebugMode: *debug, Log: log.New(os.Stderr, "", 0)}
	if *logfile != "" {
		l = logger.NewFileLogger(*logfile, *debug)
	}

	opts := faceoverlay.DefaultOptions()
	if *config != "" {
		var err error
		opts, err = faceoverlay.LoadOptions(*config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *padding >= 0 {
		opts.Padding = *padding
	}
	opts.DrawBrackets = opts.DrawBrackets || *brackets
	opts.DrawOutline = opts.DrawOutline || *outline
	if opts.DebugDir == "" {
		opts.DebugDir = *output
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		os.Exit(1)
	}

	detector, err := pigo.LoadFaceDetector(*cascade)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't load cascade: %v\n", err)
		os.Exit(1)
	}
	detector.Logger = l

	paths, err := inputFiles(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't read input: %v\n", err)
		os.Exit(1)
	}

	frames, err := decodeFrames(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't decode input: %v\n", err)
		os.Exit(1)
	}

	thumbs := &faceoverlay.ThumbnailCell{}
	counter := faceoverlay.NewRotationCounter(faceoverlay.DefaultRotationStep)
	renderer := faceoverlay.NewRendererWithLogger(opts, counter, thumbs, l)
	ticks := ticksPerFrame(*fps)

	for i := range frames {
		faces, err := detector.Detect(frames[i].img)
		if err != nil {
			l.Warnf("%s: detection failed: %v", frames[i].path, err)
		}

		f := faceoverlay.NewImageFrame(frames[i].img)
		stats := renderer.Render(f, faces)
		l.Infof("%s: %d faces, %d drawn, %d skipped", frames[i].path, stats.Faces, stats.Drawn, stats.Skipped)
		frames[i].img = f.Image()

		// advance the animation by the wall-clock time between two frames
		for t := 0; t < ticks; t++ {
			counter.Tick()
		}
	}

	if err := encodeFrames(frames, *output, *quality); err != nil {
		fmt.Fprintf(os.Stderr, "can't write output: %v\n", err)
		os.Exit(1)
	}

	if *thumbnail != "" {
		if err := writeThumbnail(thumbs, *thumbnail); err != nil {
			fmt.Fprintf(os.Stderr, "can't write thumbnail: %v\n", err)
			os.Exit(1)
		}
	}
}

// ticksPerFrame returns how often the rotation driver fires between two
// frames captured at fps.
func ticksPerFrame(fps float64) int {
	if fps <= 0 {
		return 0
	}
	interval := time.Duration(float64(time.Second) / fps)
	return int(math.Round(float64(interval) / float64(faceoverlay.DefaultRotationPeriod)))
}

func inputFiles(input string) ([]string, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{input}, nil
	}

	files, err := ioutil.ReadDir(input)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp", ".bmp":
			paths = append(paths, filepath.Join(input, file.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func decodeFrames(paths []string) ([]frame, error) {
	frames := make([]frame, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			img, format, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			frames[i] = frame{path: path, format: format, img: img}
			return nil
		})
	}
	return frames, g.Wait()
}

func encodeFrames(frames []frame, dir string, quality int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, fr := range frames {
		fr := fr
		g.Go(func() error {
			name := filepath.Join(dir, filepath.Base(fr.path))
			if fr.format == "webp" {
				name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
			}

			fOut, err := os.Create(name)
			if err != nil {
				return err
			}
			defer fOut.Close()

			switch fr.format {
			case "jpeg":
				return jpeg.Encode(fOut, fr.img, &jpeg.Options{Quality: quality})
			case "bmp":
				return bmp.Encode(fOut, fr.img)
			default:
				return png.Encode(fOut, fr.img)
			}
		})
	}
	return g.Wait()
}

func writeThumbnail(thumbs *faceoverlay.ThumbnailCell, path string) error {
	b64 := thumbs.Load()
	if b64 == "" {
		return fmt.Errorf("no face thumbnail was produced")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}
