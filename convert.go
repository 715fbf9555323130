// SPDX-License-Identifier: EPL-2.0

package audibites

import (
	"fmt"
	"io"

	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/formats/wav"
)

// ConvertOptions describe the output format of Convert. The zero value
// keeps the buffer as is.
type ConvertOptions struct {
	// SampleRate in Hz, 0 keeps the source rate.
	SampleRate int
	// Mono averages all channels into one.
	Mono bool
}

// Convert resamples and downmixes buf. Mixing runs first so that only one
// channel is resampled.
func Convert(buf *audio.Buffer, opts ConvertOptions) (*audio.Buffer, error) {
	if opts.SampleRate < 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, opts.SampleRate)
	}

	out := buf
	if opts.Mono {
		out = audio.Mixdown(out)
	}

	if opts.SampleRate > 0 {
		var err error
		out, err = audio.Resample(out, opts.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("resample: %w", err)
		}
	}

	return out, nil
}

// ExportWAV converts buf and writes it to w as 16-bit PCM WAV.
func ExportWAV(w io.Writer, buf *audio.Buffer, opts ConvertOptions) error {
	out, err := Convert(buf, opts)
	if err != nil {
		return err
	}

	return wav.WriteBuffer(w, out)
}
