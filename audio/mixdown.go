// SPDX-License-Identifier: EPL-2.0

package audio

// Mixdown averages all channels into one. Mono buffers are returned as is.
func Mixdown(b *Buffer) *Buffer {
	channels := len(b.data)
	if channels == 1 {
		return b
	}

	inv := float32(1) / float32(channels)
	out := make([]float32, b.Frames())

	switch channels {
	case 2:
		left, right := b.data[0], b.data[1]
		for i := range out {
			out[i] = (left[i] + right[i]) * 0.5
		}
	default:
		for i := range out {
			var sum float32
			for _, samples := range b.data {
				sum += samples[i]
			}
			out[i] = sum * inv
		}
	}

	return &Buffer{sampleRate: b.sampleRate, data: [][]float32{out}}
}
