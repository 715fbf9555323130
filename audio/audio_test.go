// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/ik5/audibites/internal/audiotest"
)

// mockDecoder recognizes blobs starting with its magic and hands out a
// generated source.
type mockDecoder struct {
	magic  string
	source *audiotest.MockSource
	err    error
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.source != nil {
		return d.source, nil
	}
	return audiotest.NewSineSource(8000, 1, 100, 440), nil
}

func (d *mockDecoder) Sniff(header []byte) bool {
	return d.magic != "" && bytes.HasPrefix(header, []byte(d.magic))
}

// plainDecoder does not implement Sniffer.
type plainDecoder struct{}

func (plainDecoder) Decode(r io.Reader) (Source, error) {
	return audiotest.NewSineSource(8000, 1, 10, 440), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{magic: "RIFF"}
	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}

	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_OverwriteKeepsOrder(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{magic: "RIFF"})
	registry.Register("mp3", &mockDecoder{magic: "ID3"})

	replacement := &mockDecoder{magic: "RIFF"}
	registry.Register("wav", replacement)

	formats := registry.Formats()
	if len(formats) != 2 || formats[0] != "wav" || formats[1] != "mp3" {
		t.Fatalf("Formats() = %v, want [wav mp3]", formats)
	}

	got, _ := registry.Get("wav")
	if got != replacement {
		t.Error("Register() did not replace existing decoder")
	}
}

func TestRegistry_Detect(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("plain", plainDecoder{})
	registry.Register("wav", &mockDecoder{magic: "RIFF"})
	registry.Register("flac", &mockDecoder{magic: "fLaC"})

	tests := []struct {
		name   string
		header []byte
		want   string
		found  bool
	}{
		{name: "wav", header: []byte("RIFF\x00\x00\x00\x00WAVE"), want: "wav", found: true},
		{name: "flac", header: []byte("fLaC\x00"), want: "flac", found: true},
		{name: "unknown", header: []byte("\x1aE\xdf\xa3webm"), found: false},
		{name: "empty", header: nil, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, d, ok := registry.Detect(tt.header)
			if ok != tt.found {
				t.Fatalf("Detect() ok = %v, want %v", ok, tt.found)
			}
			if ok && (format != tt.want || d == nil) {
				t.Errorf("Detect() = %q, want %q", format, tt.want)
			}
		})
	}
}

func TestRegistry_DecodeClosesSource(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 2, 50, audiotest.Ramp)
	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{magic: "RIFF", source: src})

	buf, err := registry.Decode([]byte("RIFF...."))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if buf.Frames() != 50 || buf.Channels() != 2 || buf.SampleRate() != 8000 {
		t.Errorf("Decode() = %v, want 8000 Hz, 2 ch, 50 frames", buf)
	}
	if src.Closed() != 1 {
		t.Errorf("source closed %d times, want 1", src.Closed())
	}
}

func TestRegistry_DecodeErrors(t *testing.T) {
	t.Parallel()

	readErr := errors.New("corrupt frame")
	failing := audiotest.NewMockSource(8000, 1, 100, audiotest.Ramp)
	failing.FailAfter = 10
	failing.Err = readErr

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{magic: "RIFF", err: errors.New("bad header")})
	registry.Register("mp3", &mockDecoder{magic: "ID3", source: failing})

	tests := []struct {
		name       string
		data       []byte
		wantFormat string
		wantErr    error
	}{
		{name: "unknown container", data: []byte("OggS"), wantErr: ErrUnknownFormat},
		{name: "decoder rejects header", data: []byte("RIFF"), wantFormat: "wav"},
		{name: "read fails midway", data: []byte("ID3"), wantFormat: "mp3", wantErr: readErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Decode(tt.data)
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Decode() error = %v, want ErrDecode", err)
			}

			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error %T is not *DecodeError", err)
			}
			if de.Format != tt.wantFormat {
				t.Errorf("DecodeError.Format = %q, want %q", de.Format, tt.wantFormat)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}

	if failing.Closed() != 1 {
		t.Errorf("failing source closed %d times, want 1", failing.Closed())
	}
}

func TestRegistry_DecodeFormat(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("plain", plainDecoder{})

	buf, err := registry.DecodeFormat("plain", []byte("anything"))
	if err != nil {
		t.Fatalf("DecodeFormat() error = %v", err)
	}
	if buf.Frames() != 10 {
		t.Errorf("Frames() = %d, want 10", buf.Frames())
	}

	if _, err := registry.DecodeFormat("missing", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("DecodeFormat(missing) error = %v, want ErrUnknownFormat", err)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			registry.Register(string(rune('a'+i)), &mockDecoder{magic: string(rune('a' + i))})
		}(i)
		go func() {
			defer wg.Done()
			registry.Detect([]byte("a"))
		}()
	}

	wg.Wait()

	if got := len(registry.Formats()); got != 10 {
		t.Errorf("len(Formats()) = %d, want 10", got)
	}
}

func TestDecodeError_Message(t *testing.T) {
	t.Parallel()

	err := &DecodeError{Format: "mp3", Err: io.ErrUnexpectedEOF}
	if got, want := err.Error(), "decode mp3 audio: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &DecodeError{Err: ErrUnknownFormat}
	if got, want := err.Error(), "decode audio: unknown or unsupported container"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func BenchmarkRegistry_Detect(b *testing.B) {
	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{magic: "RIFF"})
	registry.Register("mp3", &mockDecoder{magic: "ID3"})
	header := []byte("ID3\x04\x00")

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		registry.Detect(header)
	}
}
