// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MPEG-1/2 Layer 3
// streams into PCM.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src)
//
// # Output Format
//
//   - Channels: always 2; go-mp3 duplicates mono streams into both channels
//   - Sample rate: the rate of the stream
//   - Samples: 16-bit PCM normalized to [-1.0, 1.0] by dividing by 32767
//
// # Detection
//
// Sniff accepts an ID3v2 tag or an MPEG frame sync word. A frame sync is
// only eleven set bits, so the mp3 decoder should be registered after every
// format with a stronger magic number.
package mp3
