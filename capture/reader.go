// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DefaultChunkSize is used by NewReaderDevice when chunkSize is not positive.
const DefaultChunkSize = 4096

// ReaderDevice serves already encoded audio from readers, such as a pipe
// from an external capture tool. A nil reader refuses that mode.
type ReaderDevice struct {
	local     io.Reader
	shared    io.Reader
	chunkSize int
}

func NewReaderDevice(local, shared io.Reader, chunkSize int) *ReaderDevice {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &ReaderDevice{local: local, shared: shared, chunkSize: chunkSize}
}

func (d *ReaderDevice) RequestLocalInput(ctx context.Context) (Stream, error) {
	return d.open(ctx, d.local, "local")
}

func (d *ReaderDevice) RequestSharedSource(ctx context.Context) (Stream, error) {
	return d.open(ctx, d.shared, "shared")
}

func (d *ReaderDevice) open(ctx context.Context, r io.Reader, kind string) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("no %s reader: %w", kind, ErrPermissionDenied)
	}

	s := &readerStream{
		chunks: make(chan []byte),
		ended:  make(chan struct{}),
		stop:   make(chan struct{}),
	}
	raw := make(chan []byte)

	go s.read(r, raw, d.chunkSize)
	go s.pump(raw)

	return s, nil
}

type readerStream struct {
	chunks chan []byte
	ended  chan struct{}
	stop   chan struct{}

	stopOnce sync.Once
}

func (s *readerStream) AudioTracks() int       { return 1 }
func (s *readerStream) Chunks() <-chan []byte  { return s.chunks }
func (s *readerStream) Ended() <-chan struct{} { return s.ended }

func (s *readerStream) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// read feeds raw until the reader returns an error or the stream is
// stopped. A Read that blocks keeps this goroutine alive until it returns.
func (s *readerStream) read(r io.Reader, raw chan<- []byte, size int) {
	defer close(raw)

	for {
		buf := make([]byte, size)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case raw <- buf[:n]:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// pump forwards raw to chunks and closes chunks promptly on Stop.
func (s *readerStream) pump(raw <-chan []byte) {
	defer close(s.chunks)

	for {
		select {
		case <-s.stop:
			return
		case b, ok := <-raw:
			if !ok {
				close(s.ended)
				return
			}
			select {
			case s.chunks <- b:
			case <-s.stop:
				return
			}
		}
	}
}
