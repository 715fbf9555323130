// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audibites/audio"
)

// vorbisMagic is the identification header packet prefix.
var vorbisMagic = []byte("\x01vorbis")

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// oggvorbis reads whole frames only
	n := len(dst) - len(dst)%s.channels
	if n == 0 {
		return 0, nil
	}

	return s.dec.Read(dst[:n])
}

type Decoder struct{}

// Sniff accepts an Ogg page whose first packet is a Vorbis identification
// header. Ogg streams carrying Opus or other codecs are rejected.
func (Decoder) Sniff(header []byte) bool {
	if !bytes.HasPrefix(header, []byte("OggS")) {
		return false
	}

	// the first packet sits behind the 27-byte page header and segment table
	if len(header) < 27 {
		return false
	}
	start := 27 + int(header[26])

	return len(header) >= start+len(vorbisMagic) &&
		bytes.Equal(header[start:start+len(vorbisMagic)], vorbisMagic)
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
