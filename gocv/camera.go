//go:build !ci
// +build !ci

package gocv

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/muesli/faceoverlay"
)

// Camera position indexes into Camera.Devices.
const (
	Back = iota
	Front
)

// Camera reads frames from an OpenCV capture device and implements the
// camera controls. Flipping switches between the back and front device.
type Camera struct {
	Devices  [2]int
	position int

	mu  sync.Mutex
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

// NewCamera returns a Camera for the given devices without opening either.
// Access is acquired through Request.
func NewCamera(back, front int) *Camera {
	return &Camera{Devices: [2]int{back, front}, position: Back, mat: gocv.NewMat()}
}

func (c *Camera) open(position int) error {
	vc, err := gocv.VideoCaptureDevice(c.Devices[position])
	if err != nil {
		return fmt.Errorf("opening camera %d: %w", c.Devices[position], err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("camera %d is not available", c.Devices[position])
	}
	c.vc = vc
	c.position = position
	return nil
}

// NextFrame implements faceoverlay.Source.
func (c *Camera) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc == nil {
		return nil, fmt.Errorf("camera is closed")
	}
	if ok := c.vc.Read(&c.mat); !ok {
		return nil, fmt.Errorf("cannot read device %d", c.Devices[c.position])
	}
	if c.mat.Empty() {
		return nil, fmt.Errorf("device %d delivered an empty frame", c.Devices[c.position])
	}
	return c.mat.ToImage()
}

// Position returns Back or Front.
func (c *Camera) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Flip switches between the back and front device. On failure the
// previous device is reopened.
func (c *Camera) Flip() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.position
	if c.vc != nil {
		c.vc.Close()
		c.vc = nil
	}
	if err := c.open(1 - prev); err != nil {
		if rerr := c.open(prev); rerr != nil {
			return fmt.Errorf("%v; reopening previous camera: %v", err, rerr)
		}
		return err
	}
	return nil
}

// Zoom changes the zoom property by delta.
func (c *Camera) Zoom(delta float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc == nil {
		return fmt.Errorf("camera is closed")
	}
	z := c.vc.Get(gocv.VideoCaptureZoom) + delta
	if z < 0 {
		z = 0
	}
	c.vc.Set(gocv.VideoCaptureZoom, z)
	return nil
}

// FocusAt retriggers autofocus. OpenCV exposes no focus point, so p only
// matters to devices that focus on the frame center anyway.
func (c *Camera) FocusAt(p faceoverlay.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc == nil {
		return fmt.Errorf("camera is closed")
	}
	c.vc.Set(gocv.VideoCaptureAutoFocus, 0)
	c.vc.Set(gocv.VideoCaptureAutoFocus, 1)
	return nil
}

// Granted reports whether the device could be opened.
func (c *Camera) Granted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vc != nil && c.vc.IsOpened()
}

// Request tries to (re)open the current device.
func (c *Camera) Request() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc != nil && c.vc.IsOpened() {
		return true, nil
	}
	if c.vc != nil {
		c.vc.Close()
		c.vc = nil
	}
	if err := c.open(c.position); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.vc != nil {
		err = c.vc.Close()
		c.vc = nil
	}
	c.mat.Close()
	return err
}

var (
	_ faceoverlay.Source         = (*Camera)(nil)
	_ faceoverlay.CameraControls = (*Camera)(nil)
	_ faceoverlay.PermissionGate = (*Camera)(nil)
	_ faceoverlay.Detector       = (*FaceDetector)(nil)
)
