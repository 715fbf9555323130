// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/formats/internal/intpcm"
	"github.com/ik5/audibites/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// pcm16Source reads the data chunk of a canonical 16-bit file directly.
type pcm16Source struct {
	data       []byte
	pos        int
	sampleRate int
	channels   int
}

func (s *pcm16Source) SampleRate() int { return s.sampleRate }
func (s *pcm16Source) Channels() int   { return s.channels }
func (s *pcm16Source) Close() error    { return nil }
func (s *pcm16Source) BufSize() int    { return 4096 }

func (s *pcm16Source) ReadSamples(dst []float32) (int, error) {
	samples := min(len(dst), (len(s.data)-s.pos)/bytesPerSample)
	if samples == 0 {
		return 0, io.EOF
	}

	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.data[s.pos+2*i:]))
		dst[i] = utils.Int16ToSample(v)
	}
	s.pos += samples * bytesPerSample

	return samples, nil
}

// Decoder reads RIFF/WAVE integer PCM. Canonical 16-bit files are parsed
// in place; anything else (extra chunks, 8/24/32-bit, WAVE_FORMAT_EXTENSIBLE)
// goes through go-audio/wav.
type Decoder struct{}

// Sniff reports whether header starts a RIFF/WAVE container.
func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	if !d.Sniff(data) {
		return nil, ErrNotWavFile
	}

	if src, ok := canonical(data); ok {
		return src, nil
	}

	return decodeChunked(data)
}

// canonical recognizes the 44-byte fmt+data layout written by Encode.
func canonical(data []byte) (*pcm16Source, bool) {
	if len(data) < HeaderSize ||
		!bytes.Equal(data[12:16], []byte("fmt ")) ||
		!bytes.Equal(data[36:40], []byte("data")) {
		return nil, false
	}

	fmtSize := binary.LittleEndian.Uint32(data[16:20])
	audioFormat := binary.LittleEndian.Uint16(data[20:22])
	channels := int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	bits := binary.LittleEndian.Uint16(data[34:36])

	if fmtSize != 16 || audioFormat != formatPCM || bits != bitsPerSample ||
		channels == 0 || sampleRate == 0 {
		return nil, false
	}

	// streaming writers may leave the size unset or too large
	size := min(int(binary.LittleEndian.Uint32(data[40:44])), len(data)-HeaderSize)

	return &pcm16Source{
		data:       data[HeaderSize : HeaderSize+size],
		sampleRate: sampleRate,
		channels:   channels,
	}, true
}

func decodeChunked(data []byte) (audio.Source, error) {
	dec := gowav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedWavLayout, err)
		}
		return nil, ErrUnsupportedWavLayout
	}

	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	bias := 0
	switch bitDepth {
	case 8:
		// 8-bit WAV samples are unsigned
		bias = -128
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedWavChunks, err)
	}

	return intpcm.NewSource(dec, bitDepth, bias), nil
}
