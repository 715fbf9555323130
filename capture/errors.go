// SPDX-License-Identifier: EPL-2.0

package capture

import "errors"

var (
	ErrPermissionDenied = errors.New("capture permission denied")
	ErrNoAudioTrack     = errors.New("shared source has no audio track")
	ErrBusy             = errors.New("recorder is not idle")
	ErrNotRecording     = errors.New("recorder is not recording")
	ErrNotStopped       = errors.New("recording has not been stopped")
	ErrEmptyRecording   = errors.New("recording captured no data")
)
