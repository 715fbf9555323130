// SPDX-License-Identifier: EPL-2.0

// Package wav reads integer PCM WAV files and writes canonical 16-bit PCM.
//
// # Encoding
//
// Encode and WriteBuffer serialize an audio.Buffer to the 44-byte
// RIFF/fmt/data layout with interleaved little-endian int16 samples:
//
//	data := wav.Encode(buf) // len(data) == 44 + frames*channels*2
//
// Samples are clamped to [-1, 1] and quantized with an asymmetric rule:
// values where 0.5+s is negative scale by 32768, the rest by 32767, and the
// product is truncated toward zero. No other chunks are written.
//
// WritePCM16 writes samples that are already int16.
//
// # Decoding
//
// Decoder accepts any RIFF/WAVE integer PCM file. The canonical layout
// produced by Encode is read without copying; files with extra chunks,
// WAVE_FORMAT_EXTENSIBLE, or 8, 24 and 32-bit samples are decoded through
// github.com/go-audio/wav. Floating point WAV is rejected with
// ErrUnsupportedEncoding.
//
//	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
//	buf, err := audio.ReadAll(src)
//
// 16-bit samples decode as v/32767 (clamped at -1), so a buffer survives an
// Encode/Decode round trip within 1/32767 per sample.
package wav
