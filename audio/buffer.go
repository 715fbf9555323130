// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"slices"
)

// Buffer is decoded multi-channel PCM held in memory, one []float32 per
// channel. A Buffer always holds at least one frame and is never modified
// after construction: transforms return a new Buffer and accessors copy.
type Buffer struct {
	sampleRate int
	data       [][]float32
}

// NewBuffer copies channels into a new Buffer. Every channel must have the
// same, non-zero length.
func NewBuffer(sampleRate int, channels [][]float32) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if len(channels) == 0 {
		return nil, ErrInvalidChannels
	}

	frames := len(channels[0])
	data := make([][]float32, len(channels))
	for ch, samples := range channels {
		if len(samples) == 0 || len(samples) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrChannelLength, ch, len(samples), frames)
		}
		data[ch] = slices.Clone(samples)
	}

	return &Buffer{sampleRate: sampleRate, data: data}, nil
}

// Silence returns a Buffer of zero samples. frames below 1 are raised to 1.
func Silence(sampleRate, channels, frames int) *Buffer {
	frames = max(frames, 1)
	channels = max(channels, 1)

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}

	return &Buffer{sampleRate: sampleRate, data: data}
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return len(b.data) }
func (b *Buffer) Frames() int     { return len(b.data[0]) }

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

// Sample returns the sample at frame i of channel ch.
func (b *Buffer) Sample(ch, i int) float32 { return b.data[ch][i] }

// Channel returns a copy of one channel's samples.
func (b *Buffer) Channel(ch int) []float32 { return slices.Clone(b.data[ch]) }

// Interleaved returns all samples ordered frame by frame.
func (b *Buffer) Interleaved() []float32 {
	channels := len(b.data)
	out := make([]float32, b.Frames()*channels)
	for ch, samples := range b.data {
		for i, s := range samples {
			out[i*channels+ch] = s
		}
	}

	return out
}

// Slice returns frames [from, to) of every channel. Bounds are clamped to
// the buffer; an empty range yields one frame of silence.
func (b *Buffer) Slice(from, to int) *Buffer {
	from, to = b.clamp(from), b.clamp(to)
	if to <= from {
		return Silence(b.sampleRate, b.Channels(), 1)
	}

	data := make([][]float32, len(b.data))
	for ch, samples := range b.data {
		data[ch] = slices.Clone(samples[from:to])
	}

	return &Buffer{sampleRate: b.sampleRate, data: data}
}

// Without returns the buffer with frames [from, to) removed and the rest
// spliced together. Bounds are clamped; removing everything yields one frame
// of silence.
func (b *Buffer) Without(from, to int) *Buffer {
	from, to = b.clamp(from), b.clamp(to)
	if to < from {
		to = from
	}

	remaining := b.Frames() - (to - from)
	if remaining <= 0 {
		return Silence(b.sampleRate, b.Channels(), 1)
	}

	data := make([][]float32, len(b.data))
	for ch, samples := range b.data {
		out := make([]float32, 0, remaining)
		out = append(out, samples[:from]...)
		out = append(out, samples[to:]...)
		data[ch] = out
	}

	return &Buffer{sampleRate: b.sampleRate, data: data}
}

// Equal reports whether both buffers share format and samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.sampleRate != other.sampleRate || len(b.data) != len(other.data) {
		return false
	}

	for ch := range b.data {
		if !slices.Equal(b.data[ch], other.data[ch]) {
			return false
		}
	}

	return true
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%d Hz, %d ch, %d frames)", b.sampleRate, b.Channels(), b.Frames())
}

func (b *Buffer) clamp(frame int) int {
	return min(max(frame, 0), b.Frames())
}
