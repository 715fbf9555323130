// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/utils"
)

// frameParser is an interface for flac.Stream to allow testing
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	bitDepth   int
	// interleaved samples of the last frame not yet handed out
	pending []float32
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return s.stream.Close() }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if len(s.pending) == 0 {
		if err := s.nextFrame(); err != nil {
			return 0, err
		}
	}

	n := copy(dst, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

func (s *source) nextFrame() error {
	f, err := s.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("parse frame: %w", err)
	}

	if len(f.Subframes) < s.channels {
		return fmt.Errorf("%w: %d < %d", ErrMissingSubframe, len(f.Subframes), s.channels)
	}

	block := int(f.BlockSize)
	if cap(s.pending) < block*s.channels {
		s.pending = make([]float32, block*s.channels)
	}
	s.pending = s.pending[:block*s.channels]

	for ch := range s.channels {
		samples := f.Subframes[ch].Samples
		for i := range min(block, len(samples)) {
			s.pending[i*s.channels+ch] = utils.IntToSample(int(samples[i]), s.bitDepth)
		}
	}

	return nil
}

type Decoder struct{}

// Sniff reports whether header starts with the fLaC stream marker.
func (Decoder) Sniff(header []byte) bool {
	return bytes.HasPrefix(header, []byte("fLaC"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NChannels == 0 {
		stream.Close()
		return nil, ErrInvalidStreamInfo
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
