// SPDX-License-Identifier: EPL-2.0

// Package edit implements the sample-level region edits: keeping a region
// (trim) and removing it (cut). Both are total functions that return a new
// buffer and never touch their input.
package edit

import (
	"fmt"
	"math"

	"github.com/ik5/audibites/audio"
)

// Region is a time range in seconds.
type Region struct {
	Start float64
	End   float64
}

// Length of the region in seconds.
func (r Region) Length() float64 { return r.End - r.Start }

// Validate checks 0 <= Start < End <= duration.
func (r Region) Validate(duration float64) error {
	switch {
	case math.IsNaN(r.Start) || math.IsNaN(r.End):
		return fmt.Errorf("%w: NaN bound", ErrInvalidRegion)
	case r.Start < 0:
		return fmt.Errorf("%w: start %.3f is negative", ErrInvalidRegion, r.Start)
	case r.End <= r.Start:
		return fmt.Errorf("%w: end %.3f is not after start %.3f", ErrInvalidRegion, r.End, r.Start)
	case r.End > duration:
		return fmt.Errorf("%w: end %.3f is past duration %.3f", ErrInvalidRegion, r.End, duration)
	}

	return nil
}

// Clamp limits both bounds to [0, duration].
func (r Region) Clamp(duration float64) Region {
	clamp := func(t float64) float64 {
		if math.IsNaN(t) {
			return 0
		}
		return min(max(t, 0), duration)
	}

	return Region{Start: clamp(r.Start), End: clamp(r.End)}
}

func (r Region) String() string {
	return fmt.Sprintf("[%.3fs, %.3fs)", r.Start, r.End)
}

// Offsets converts the region to frame offsets of buf: each bound is
// floor(t*rate) clamped to [0, Frames]. A bound at or past the buffer's
// duration maps to Frames. end may be less than start.
func Offsets(buf *audio.Buffer, r Region) (start, end int) {
	return frameOffset(buf, r.Start), frameOffset(buf, r.End)
}

func frameOffset(buf *audio.Buffer, t float64) int {
	if math.IsNaN(t) || t <= 0 {
		return 0
	}

	// frames/rate*rate can round just below frames
	if t >= buf.Duration() {
		return buf.Frames()
	}

	return min(int(math.Floor(t*float64(buf.SampleRate()))), buf.Frames())
}
