// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// SampleToInt16 quantizes a normalized sample to signed 16-bit PCM.
//
// The sample is clamped to [-1, 1]. Values where 0.5+x is negative are scaled
// by 32768, everything else by 32767, and the result is truncated toward zero.
// NaN quantizes to 0.
func SampleToInt16(x float32) int16 {
	v := float64(x)
	if math.IsNaN(v) {
		return 0
	}

	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}

	if 0.5+v < 0 {
		return int16(v * 32768)
	}

	return int16(v * 32767)
}

// Int16ToSample maps signed 16-bit PCM back to a normalized sample.
// Dividing by 32767 keeps the round trip through SampleToInt16 within
// 1/32767 for every input in [-1, 1]; -32768 clamps to -1.
func Int16ToSample(v int16) float32 {
	s := float64(v) / 32767
	if s < -1 {
		s = -1
	}

	return float32(s)
}

// IntToSample normalizes an integer PCM sample of the given bit depth.
// 16-bit input goes through Int16ToSample, other depths divide by
// 2^(depth-1). Depths outside 1..32 are treated as 16-bit.
func IntToSample(v int, bitDepth int) float32 {
	if bitDepth == 16 || bitDepth < 1 || bitDepth > 32 {
		return Int16ToSample(int16(v))
	}

	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
