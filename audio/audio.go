// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Sniffer is implemented by decoders that can recognize their container
// from the leading bytes of an encoded blob.
type Sniffer interface {
	Sniff(header []byte) bool
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// Detection walks formats in registration order.
type Registry struct {
	codecs map[string]Decoder
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format. Registering an existing format replaces the
// decoder but keeps its detection position.
func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats lists registered format keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Clone(r.order)
}

// Detect returns the first registered decoder whose Sniff accepts header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, format := range r.order {
		d := r.codecs[format]
		s, ok := d.(Sniffer)
		if ok && s.Sniff(header) {
			return format, d, true
		}
	}

	return "", nil, false
}

// Decode detects the container of data and decodes it into a Buffer.
// Every failure is reported as a *DecodeError.
func (r *Registry) Decode(data []byte) (*Buffer, error) {
	format, d, ok := r.Detect(data)
	if !ok {
		return nil, &DecodeError{Err: ErrUnknownFormat}
	}

	return decodeWith(format, d, data)
}

// DecodeFormat decodes data with the decoder registered under format,
// skipping detection.
func (r *Registry) DecodeFormat(format string, data []byte) (*Buffer, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, &DecodeError{Format: format, Err: ErrUnknownFormat}
	}

	return decodeWith(format, d, data)
}

func decodeWith(format string, d Decoder, data []byte) (buf *Buffer, err error) {
	src, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			buf = nil
			err = &DecodeError{Format: format, Err: fmt.Errorf("close source: %w", cerr)}
		}
	}()

	buf, err = ReadAll(src)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &DecodeError{Format: format, Err: err}
	}

	return buf, nil
}
