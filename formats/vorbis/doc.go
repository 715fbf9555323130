// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding.
//
// This package uses github.com/jfreymuth/oggvorbis, a pure Go decoder, so no
// C libraries are needed.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src)
//
// Vorbis decodes natively to float32, so samples are passed through without
// conversion. ReadSamples only fills whole frames; a destination shorter
// than one frame reads nothing.
//
// Sniff only accepts Ogg streams whose first packet is a Vorbis
// identification header. Ogg Opus, the usual container of browser
// recordings, is not supported.
package vorbis
