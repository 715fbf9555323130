// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrDecode            = errors.New("audio could not be decoded")
	ErrUnknownFormat     = errors.New("unknown or unsupported container")
	ErrEmptyAudio        = errors.New("audio contains no frames")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidChannels   = errors.New("channel count must be positive")
	ErrChannelLength     = errors.New("channels must have equal, non-zero length")
)

// DecodeError reports that an encoded blob could not be turned into PCM.
// It matches ErrDecode with errors.Is.
type DecodeError struct {
	// Format is the detected or requested container, empty when detection failed.
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decode audio: %v", e.Err)
	}

	return fmt.Sprintf("decode %s audio: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
