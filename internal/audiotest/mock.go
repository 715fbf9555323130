// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds generators and fake sources shared by tests.
// It does not import the audio package so audio's own tests can use it.
package audiotest

import (
	"io"
	"math"
)

// Waveform yields the sample value for a frame index and channel.
type Waveform func(frame, channel int) float32

// MockSource streams a generated waveform as interleaved samples. It
// satisfies audio.Source.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    Waveform

	// FailAfter, when positive, makes ReadSamples return Err once that many
	// frames were produced.
	FailAfter int
	Err       error

	closed int
}

// NewMockSource creates a source producing totalFrames frames per channel.
func NewMockSource(sampleRate, channels, totalFrames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSineSource creates a source of a sine tone on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, SineWave(sampleRate, frequency))
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed++
	return nil
}

// Closed reports how many times Close was called.
func (m *MockSource) Closed() int { return m.closed }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.FailAfter > 0 && m.generated >= m.FailAfter {
		return 0, m.Err
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.FailAfter > 0 {
		frames = min(frames, m.FailAfter-m.generated)
	}
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// SineWave is a full-scale sine tone, identical on every channel.
func SineWave(sampleRate int, frequency float64) Waveform {
	return func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

// Ramp encodes the frame index and channel into the sample so slices and
// splices can be checked by value: channel c at frame i is c + i/1e6.
func Ramp(frame, channel int) float32 {
	return float32(channel) + float32(frame)/1e6
}

// Channels renders a waveform into per-channel sample slices.
func Channels(channels, frames int, waveform Waveform) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		for i := range out[ch] {
			out[ch][i] = waveform(i, ch)
		}
	}

	return out
}
