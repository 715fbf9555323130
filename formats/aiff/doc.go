// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files, the
// usual uncompressed export format of macOS audio tools.
//
// # Supported Formats
//
//   - AIFF and uncompressed AIFF-C
//   - 8, 16, 24 and 32-bit signed PCM
//   - Any channel count and sample rate
//
// # Decoding
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // ErrNotAiffFile, ErrUnsupportedBitDepth, ErrUnsupportedAiffLayout
//	}
//	buf, err := audio.ReadAll(src)
//
// Samples are normalized to [-1.0, 1.0]. 16-bit values divide by 32767 so
// they line up with the quantizer in the wav package.
//
// Inputs that are not an io.ReadSeeker are read into memory first, since
// go-audio needs to seek between chunks.
package aiff
