// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/utils"
)

const (
	// HeaderSize is the length of the canonical RIFF/fmt/data header.
	HeaderSize = 44

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8

	// frames written per Write call by WriteBuffer
	chunkFrames = 4096
)

// EncodedSize returns the exact byte length Encode produces for buf.
func EncodedSize(buf *audio.Buffer) int {
	return HeaderSize + buf.Frames()*buf.Channels()*bytesPerSample
}

// Encode serializes buf as canonical 16-bit PCM WAV. The result is always
// EncodedSize(buf) bytes long.
func Encode(buf *audio.Buffer) []byte {
	channels := buf.Channels()
	frames := buf.Frames()

	out := make([]byte, EncodedSize(buf))
	putHeader(out, buf.SampleRate(), channels, frames*channels*bytesPerSample)

	data := out[HeaderSize:]
	for ch := range channels {
		samples := buf.Channel(ch)
		for i, s := range samples {
			off := (i*channels + ch) * bytesPerSample
			binary.LittleEndian.PutUint16(data[off:], uint16(utils.SampleToInt16(s)))
		}
	}

	return out
}

// WriteBuffer streams buf to w as canonical 16-bit PCM WAV, quantizing in
// chunks instead of building the whole file in memory.
func WriteBuffer(w io.Writer, buf *audio.Buffer) error {
	channels := buf.Channels()
	frames := buf.Frames()

	header := make([]byte, HeaderSize)
	putHeader(header, buf.SampleRate(), channels, frames*channels*bytesPerSample)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = buf.Channel(ch)
	}

	chunk := make([]byte, min(frames, chunkFrames)*channels*bytesPerSample)
	for start := 0; start < frames; start += chunkFrames {
		end := min(start+chunkFrames, frames)
		out := chunk[:(end-start)*channels*bytesPerSample]

		for i := start; i < end; i++ {
			for ch := range channels {
				off := ((i-start)*channels + ch) * bytesPerSample
				binary.LittleEndian.PutUint16(out[off:], uint16(utils.SampleToInt16(data[ch][i])))
			}
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}

	return nil
}

// WritePCM16 writes already quantized, interleaved samples as a canonical
// WAV file. len(samples) must be a multiple of channels.
func WritePCM16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if sampleRate <= 0 || channels <= 0 || len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d Hz, %d channels, %d samples",
			ErrInvalidFormat, sampleRate, channels, len(samples))
	}

	header := make([]byte, HeaderSize)
	putHeader(header, sampleRate, channels, len(samples)*bytesPerSample)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if len(samples) == 0 {
		return nil
	}

	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*bytesPerSample)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:len(chunk)*bytesPerSample]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}

	return nil
}

// putHeader fills the first HeaderSize bytes of dst.
func putHeader(dst []byte, sampleRate, channels, dataSize int) {
	blockAlign := channels * bytesPerSample
	byteRate := sampleRate * blockAlign

	// RIFF header (12 bytes)
	copy(dst[0:4], "RIFF")
	binary.LittleEndian.PutUint32(dst[4:8], uint32(HeaderSize-8+dataSize))
	copy(dst[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(dst[12:16], "fmt ")
	binary.LittleEndian.PutUint32(dst[16:20], 16)
	binary.LittleEndian.PutUint16(dst[20:22], formatPCM)
	binary.LittleEndian.PutUint16(dst[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(dst[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(dst[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(dst[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(dst[34:36], bitsPerSample)

	// data chunk header (8 bytes)
	copy(dst[36:40], "data")
	binary.LittleEndian.PutUint32(dst[40:44], uint32(dataSize))
}
