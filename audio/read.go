// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// maxEmptyReads bounds how many (0, nil) reads ReadAll tolerates in a row.
const maxEmptyReads = 100

// ReadAll drains src into a Buffer. A trailing partial frame is dropped.
// ReadAll does not close src.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, src.SampleRate())
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels
	buf := make([]float32, size)

	data := make([][]float32, channels)
	var pending []float32
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			empty = 0
			samples := buf[:n]
			if len(pending) > 0 {
				samples = append(pending, samples...)
				pending = nil
			}

			frames := len(samples) / channels
			for f := range frames {
				for ch := range channels {
					data[ch] = append(data[ch], samples[f*channels+ch])
				}
			}
			if rest := samples[frames*channels:]; len(rest) > 0 {
				pending = append([]float32(nil), rest...)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
		}
	}

	if len(data[0]) == 0 {
		return nil, ErrEmptyAudio
	}

	return &Buffer{sampleRate: src.SampleRate(), data: data}, nil
}
