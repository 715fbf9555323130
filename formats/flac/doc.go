// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC decoding through github.com/mewkiz/flac.
//
//	src, err := flac.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src)
//
// Frames are decoded one at a time and interleaved on demand, so
// ReadSamples may return fewer samples than requested at a frame boundary.
// Samples of any bit depth are normalized to [-1.0, 1.0]; 16-bit streams
// divide by 32767 like the other decoders in this module.
//
// Closing the source closes the underlying reader when it is an io.Closer.
package flac
