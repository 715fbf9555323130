// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"

	"github.com/ik5/audibites/utils"
)

// lowPassAlpha is the one-pole smoothing factor applied before downsampling.
const lowPassAlpha = 0.5

// Resample converts b to dstRate using cubic interpolation, keeping the
// channel count. Downsampling runs a simple one-pole low-pass first.
// The result has floor(frames*dstRate/srcRate) frames, at least one.
func Resample(b *Buffer, dstRate int) (*Buffer, error) {
	if dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, dstRate)
	}
	if dstRate == b.sampleRate {
		return b, nil
	}

	ratio := float64(b.sampleRate) / float64(dstRate)
	frames := max(int(int64(b.Frames())*int64(dstRate)/int64(b.sampleRate)), 1)

	data := make([][]float32, len(b.data))
	for ch, samples := range b.data {
		in := samples
		if ratio > 1 {
			in = lowPass(samples)
		}
		data[ch] = resampleChannel(in, frames, ratio)
	}

	return &Buffer{sampleRate: dstRate, data: data}, nil
}

func resampleChannel(in []float32, frames int, ratio float64) []float32 {
	last := len(in) - 1
	at := func(i int) float64 {
		return float64(in[min(max(i, 0), last)])
	}

	out := make([]float32, frames)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(math.Floor(pos))
		x := pos - float64(idx)

		out[i] = float32(utils.CubicInterpolate(at(idx-1), at(idx), at(idx+1), at(idx+2), x))
	}

	return out
}

func lowPass(in []float32) []float32 {
	out := make([]float32, len(in))
	state := in[0]
	for i, s := range in {
		state = lowPassAlpha*s + (1-lowPassAlpha)*state
		out[i] = state
	}

	return out
}
