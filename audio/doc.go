// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory PCM model and the decoder registry.
//
// # Buffers
//
// A Buffer holds decoded audio as one float32 slice per channel, with every
// sample normalized to [-1.0, 1.0]. Buffers are immutable and never empty:
//
//	buf, err := audio.NewBuffer(44100, [][]float32{left, right})
//	head := buf.Slice(0, 44100)      // first second
//	rest := buf.Without(0, 44100)    // everything after it
//
// Slice and Without clamp their bounds. A range that would leave nothing
// produces one frame of silence instead of an empty buffer, so downstream
// encoders and players always have something to work with.
//
// # Sources
//
// Decoders stream interleaved samples through the Source interface:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadAll drains a Source into a Buffer.
//
// # Format Registry
//
// The registry maps format keys to decoders and detects the container of a
// blob from its leading bytes:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	buf, err := registry.Decode(data)
//
// Decode failures are always *DecodeError values matching ErrDecode.
//
// # Conversion
//
// Resample changes the sample rate with cubic interpolation and Mixdown
// averages channels into mono. Both return new buffers.
package audio
