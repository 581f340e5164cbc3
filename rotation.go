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
	"math"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const (
	// DefaultRotationStep is the angle in degrees added on every tick.
	DefaultRotationStep = 3.0
	// DefaultRotationPeriod is the interval between two ticks.
	DefaultRotationPeriod = 16 * time.Millisecond
)

// RotationSource provides the current arc rotation in degrees.
type RotationSource interface {
	Angle() float64
}

// RotationCounter is an angle in [0,360) advanced by a fixed step. It is
// safe for concurrent use.
type RotationCounter struct {
	angle atomic.Float64
	step  float64
}

// NewRotationCounter returns a counter at 0 degrees.
func NewRotationCounter(step float64) *RotationCounter {
	return &RotationCounter{step: step}
}

// Tick advances the counter by one step and returns the new angle.
func (c *RotationCounter) Tick() float64 {
	for {
		old := c.angle.Load()
		next := normalizeAngle(old + c.step)
		if c.angle.CompareAndSwap(old, next) {
			return next
		}
	}
}

// Angle implements RotationSource.
func (c *RotationCounter) Angle() float64 {
	return c.angle.Load()
}

// Reset sets the counter back to 0.
func (c *RotationCounter) Reset() {
	c.angle.Store(0)
}

// RotationDriver ticks a RotationCounter on a fixed period, independent of
// frame arrival.
type RotationDriver struct {
	counter *RotationCounter
	period  time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewRotationDriver returns a stopped driver for counter.
func NewRotationDriver(counter *RotationCounter, period time.Duration) *RotationDriver {
	if period <= 0 {
		period = DefaultRotationPeriod
	}
	return &RotationDriver{
		counter: counter,
		period:  period,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins ticking until ctx is done or Stop is called. Only the first
// call has an effect.
func (d *RotationDriver) Start(ctx context.Context) {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run(ctx)
}

func (d *RotationDriver) run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		case <-ticker.C:
			select {
			case <-d.stop:
				return
			default:
			}
			d.counter.Tick()
		}
	}
}

// Stop halts the driver. Once Stop returns the counter is not updated again.
func (d *RotationDriver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	if d.started.Load() {
		<-d.done
	}
}

// ClockRotation derives the angle from the wall-clock time elapsed since it
// was created, so no background goroutine is needed.
type ClockRotation struct {
	start  time.Time
	period time.Duration
	step   float64
	now    func() time.Time
}

// NewClockRotation starts a clock-based rotation at 0 degrees.
func NewClockRotation(period time.Duration, step float64) *ClockRotation {
	if period <= 0 {
		period = DefaultRotationPeriod
	}
	return &ClockRotation{start: time.Now(), period: period, step: step, now: time.Now}
}

// Angle implements RotationSource.
func (c *ClockRotation) Angle() float64 {
	ticks := math.Floor(float64(c.now().Sub(c.start)) / float64(c.period))
	return normalizeAngle(ticks * c.step)
}

// FixedRotation is a RotationSource that always returns the same angle.
type FixedRotation float64

// Angle implements RotationSource.
func (r FixedRotation) Angle() float64 {
	return normalizeAngle(float64(r))
}
